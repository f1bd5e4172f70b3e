package sqlite

import (
	"log/slog"
	"strings"

	"github.com/screenplot/screenplot/store"
)

// placeholder returns a placeholder for SQLite (uses ?).
func placeholder(int) string {
	return "?"
}

// placeholders returns n placeholders for SQLite.
func placeholders(n int) string {
	list := []string{}
	for i := 0; i < n; i++ {
		list = append(list, placeholder(i+1))
	}
	return strings.Join(list, ", ")
}

// marshalProperties serializes a property bag for storage; a nil bag is
// stored as an empty object.
func marshalProperties(props store.Properties) (string, error) {
	raw, err := props.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

// unmarshalProperties deserializes a stored property column. A malformed
// column is logged and degraded to an empty bag rather than failing the
// read.
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
