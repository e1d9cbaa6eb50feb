// Package csvfile reads a delimited wide table from disk.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"tidyseries/internal/logging"
	"tidyseries/internal/tidy"
	"tidyseries/source"
)

type driver struct {
	cfg   source.Config
	comma rune
}

func (d *driver) Configure(c source.Config) error {
	if _, err := os.Stat(c.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", tidy.ErrInputNotFound, c.Path)
		}
		return err
	}
	comma, err := source.ParseDelimiter(c.Delimiter)
	if err != nil {
		return err
	}
	d.cfg, d.comma = c, comma
	return nil
}

// Run keeps the file open only for the duration of the read.
func (d *driver) Run(ctx context.Context, emit source.EmitFunc) error {
	f, err := os.Open(d.cfg.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	logging.L().Debug("reading csv", "path", d.cfg.Path, "delimiter", string(d.comma))

	// DataBank exports start with a UTF-8 BOM. Invalid bytes are an error,
	// never silently replaced with U+FFFD.
	in := transform.NewReader(f, transform.Chain(encoding.UTF8Validator, unicode.BOMOverride(transform.Nop)))
	r := csv.NewReader(in)
	r.Comma = d.comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	if err := source.EmitRows(ctx, d.cfg.Years, r.Read, emit); err != nil {
		if errors.Is(err, encoding.ErrInvalidUTF8) {
			return fmt.Errorf("%s: %w", d.cfg.Path, err)
		}
		return err
	}
	return nil
}

func (d *driver) Close() error { return nil }

func init() {
	source.Register("csv", func() source.Adapter { return &driver{} })
}
