package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/screenplot/screenplot/internal/version"
)

// Profile is the configuration to start the screenplot process.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for the HTTP server
	Addr string
	// Port is the binding port for the HTTP server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where screenplot stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of the binary
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from SCREENPLOT_* environment variables.
// Values already set on the profile (e.g. from flags) win over env values.
func (p *Profile) FromEnv() {
	if p.Mode == "" {
		p.Mode = getEnvOrDefault("SCREENPLOT_MODE", "demo")
	}
	if p.Addr == "" {
		p.Addr = os.Getenv("SCREENPLOT_ADDR")
	}
	if p.Port == 0 {
		if port, err := strconv.Atoi(os.Getenv("SCREENPLOT_PORT")); err == nil {
			p.Port = port
		}
	}
	if p.Data == "" {
		p.Data = os.Getenv("SCREENPLOT_DATA")
	}
	if p.DSN == "" {
		p.DSN = os.Getenv("SCREENPLOT_DSN")
	}
	if p.Driver == "" {
		p.Driver = getEnvOrDefault("SCREENPLOT_DRIVER", "sqlite")
	}
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Data == "" {
		p.Data = os.TempDir()
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}
	p.Data = dataDir

	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("screenplot_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("dsn is required for the postgres driver")
	}

	if p.Version == "" {
		p.Version = version.GetCurrentVersion(p.Mode)
	}

	return nil
}
