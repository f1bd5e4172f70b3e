package postgres

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/screenplot/screenplot/store"
)

// placeholder returns a numbered placeholder for PostgreSQL ($1, $2, ...).
func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}

// placeholders returns n numbered placeholders.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

func marshalProperties(props store.Properties) (string, error) {
	raw, err := props.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalProperties degrades a malformed property column to an empty bag
// with a logged warning.
func unmarshalProperties(raw string) store.Properties {
	if raw == "" {
		return store.Properties{}
	}
	var props store.Properties
	if err := props.UnmarshalJSON([]byte(raw)); err != nil {
		slog.Warn("malformed properties column, treating as empty", "error", err)
		return store.Properties{}
	}
	return props
}
