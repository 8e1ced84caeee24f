// Package datasource abstracts where the wide input tables come from.
package datasource

import (
	"context"
	"fmt"
	"io"

	"efwetl/internal/config"
	"efwetl/internal/datasource/file"
)

// Source yields a fresh reader over one raw input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FromConfig builds the Source described by s.
func FromConfig(s config.Source) (Source, error) {
	switch s.Kind {
	case "file", "":
		return file.NewLocal(s.File.Path), nil
	default:
		return nil, fmt.Errorf("datasource: unsupported kind %q", s.Kind)
	}
}
