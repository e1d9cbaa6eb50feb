package source

import (
	"context"

	"tidyseries/internal/tidy"
)

// EmitFunc receives records in file order. A non-nil error stops the read.
type EmitFunc func(tidy.WideRecord) error

type Adapter interface {
	Configure(Config) error
	Run(context.Context, EmitFunc) error
	Close() error
}
