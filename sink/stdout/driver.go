// Package stdout prints rows as they arrive. Useful for eyeballing a run.
package stdout

import (
	"fmt"
	"io"
	"os"

	"tidyseries/internal/tidy"
	"tidyseries/sink"
)

type Config struct {
	PrintCounter bool      // prepend seq#
	MaxRows      int       // 0 = unlimited
	Writer       io.Writer // nil = os.Stdout
}

type driver struct {
	cfg Config
	seq int
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("stdout-sink: expected Config, got %T", raw)
	}
	if c.Writer == nil {
		c.Writer = os.Stdout
	}
	d.cfg = c
	return nil
}

func (d *driver) Push(r tidy.LongRecord) error {
	d.seq++
	if d.cfg.MaxRows > 0 && d.seq > d.cfg.MaxRows {
		return nil
	}
	var err error
	if d.cfg.PrintCounter {
		_, err = fmt.Fprintf(d.cfg.Writer, "[sink %06d] %s %s %d %s\n",
			d.seq, r.CountryCode, r.CountryName, r.Year, sink.FormatRatio(r.Ratio))
	} else {
		_, err = fmt.Fprintf(d.cfg.Writer, "[sink] %s %s %d %s\n",
			r.CountryCode, r.CountryName, r.Year, sink.FormatRatio(r.Ratio))
	}
	return err
}

func (d *driver) Close() error {
	if d.cfg.MaxRows > 0 && d.seq > d.cfg.MaxRows {
		_, err := fmt.Fprintf(d.cfg.Writer, "[sink] … %d more rows\n", d.seq-d.cfg.MaxRows)
		return err
	}
	return nil
}

func init() {
	sink.Register("stdout", func() sink.Adapter { return &driver{} })
}
