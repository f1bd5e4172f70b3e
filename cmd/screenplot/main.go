package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/screenplot/screenplot/internal/profile"
	"github.com/screenplot/screenplot/server"
	"github.com/screenplot/screenplot/store"
	"github.com/screenplot/screenplot/store/db"
)

const greetingBanner = `
   ___ ___ _ __ ___  ___ _ __  _ __ | | ___ | |_
  / __/ __| '__/ _ \/ _ \ '_ \| '_ \| |/ _ \| __|
  \__ \ (__| | |  __/  __/ | | | |_) | | (_) | |_
  |___/\___|_|  \___|\___|_| |_| .__/|_|\___/ \__|
                               |_|
`

var rootCmd = &cobra.Command{
	Use:   "screenplot",
	Short: "Screenplay property graph and scene sequencing service",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		instanceProfile, storeInstance, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		s, err := server.NewServer(ctx, instanceProfile, storeInstance)
		if err != nil {
			return errors.Wrap(err, "failed to create server")
		}

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			sig := <-c
			slog.Info("received signal, shutting down", "signal", sig.String())
			s.Shutdown(ctx)
			cancel()
		}()

		fmt.Print(greetingBanner)
		if err := s.Start(ctx); err != nil {
			return errors.Wrap(err, "failed to start server")
		}

		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("mode", "dev", `mode of the service, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the service")
	rootCmd.PersistentFlags().Int("port", 8230, "port of the service")
	rootCmd.PersistentFlags().String("data", "", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name (aka. DSN)")

	for _, flag := range []string{"mode", "addr", "port", "data", "driver", "dsn"} {
		if err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
			panic(err)
		}
	}
	viper.SetEnvPrefix("screenplot")
	viper.AutomaticEnv()

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reorderCmd)
	rootCmd.AddCommand(graphStatsCmd)
}

// bootstrap builds the profile from flags and env, opens the database and
// runs pending migrations.
func bootstrap(ctx context.Context) (*profile.Profile, *store.Store, error) {
	instanceProfile := &profile.Profile{
		Mode:   viper.GetString("mode"),
		Addr:   viper.GetString("addr"),
		Port:   viper.GetInt("port"),
		Data:   viper.GetString("data"),
		Driver: viper.GetString("driver"),
		DSN:    viper.GetString("dsn"),
	}
	instanceProfile.FromEnv()
	if err := instanceProfile.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid profile")
	}

	dbDriver, err := db.NewDBDriver(instanceProfile)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to create db driver")
	}
	storeInstance := store.New(dbDriver, instanceProfile)
	if err := storeInstance.Migrate(ctx); err != nil {
		return nil, nil, errors.Wrap(err, "failed to migrate database")
	}
	return instanceProfile, storeInstance, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
