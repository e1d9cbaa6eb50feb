// Package csvfile writes the long table as a delimited text file.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"tidyseries/internal/tidy"
	"tidyseries/sink"
)

type Config struct {
	Path  string
	Comma rune        // 0 = ','
	Perm  os.FileMode // 0 = 0644
}

type driver struct {
	cfg Config

	file   *sink.AtomicFile // nil until the first Push or Close
	w      *csv.Writer
	closed bool
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("csv-sink: expected Config, got %T", raw)
	}
	if c.Path == "" {
		return errors.New("csv-sink: empty output path")
	}
	if c.Comma == 0 {
		c.Comma = ','
	}
	if c.Perm == 0 {
		c.Perm = 0o644
	}
	d.cfg = c
	return nil
}

func (d *driver) open() error {
	if d.file != nil {
		return nil
	}
	f, err := sink.CreateAtomic(d.cfg.Path, d.cfg.Perm)
	if err != nil {
		return err
	}
	d.file = f
	d.w = csv.NewWriter(f)
	d.w.Comma = d.cfg.Comma
	return d.w.Write(sink.Header)
}

func (d *driver) Push(r tidy.LongRecord) error {
	if d.closed {
		return errors.New("csv-sink: push after close")
	}
	if err := d.open(); err != nil {
		return err
	}
	return d.w.Write([]string{
		r.CountryName,
		r.CountryCode,
		strconv.Itoa(r.Year),
		sink.FormatRatio(r.Ratio),
	})
}

// Close writes the header even when no rows were pushed.
func (d *driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.open(); err != nil {
		return err
	}
	d.w.Flush()
	if err := d.w.Error(); err != nil {
		_ = d.file.Abort()
		return err
	}
	return d.file.Commit()
}

func (d *driver) Abort() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.file == nil {
		return nil
	}
	return d.file.Abort()
}

func (d *driver) Target() string { return d.cfg.Path }

func init() {
	sink.Register("csv", func() sink.Adapter { return &driver{} })
}
