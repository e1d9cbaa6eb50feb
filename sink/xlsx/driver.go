// Package xlsx writes the long table to a single-sheet workbook.
package xlsx

import (
	"errors"
	"fmt"

	"github.com/xuri/excelize/v2"

	"tidyseries/internal/tidy"
	"tidyseries/sink"
)

const defaultSheet = "Sheet1"

type Config struct {
	Path  string
	Sheet string // "" = Sheet1
}

type driver struct {
	cfg Config

	wb     *excelize.File
	sw     *excelize.StreamWriter
	row    int
	closed bool
}

func (d *driver) Configure(raw any) error {
	c, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("xlsx-sink: expected Config, got %T", raw)
	}
	if c.Path == "" {
		return errors.New("xlsx-sink: empty output path")
	}
	if c.Sheet == "" {
		c.Sheet = defaultSheet
	}
	d.cfg = c
	return nil
}

func (d *driver) open() error {
	if d.wb != nil {
		return nil
	}
	wb := excelize.NewFile()
	if d.cfg.Sheet != defaultSheet {
		if err := wb.SetSheetName(defaultSheet, d.cfg.Sheet); err != nil {
			_ = wb.Close()
			return err
		}
	}
	sw, err := wb.NewStreamWriter(d.cfg.Sheet)
	if err != nil {
		_ = wb.Close()
		return err
	}
	d.wb, d.sw = wb, sw

	header := make([]any, len(sink.Header))
	for i, h := range sink.Header {
		header[i] = h
	}
	return d.setRow(header)
}

func (d *driver) setRow(values []any) error {
	d.row++
	cell, err := excelize.CoordinatesToCellName(1, d.row)
	if err != nil {
		return err
	}
	return d.sw.SetRow(cell, values)
}

func (d *driver) Push(r tidy.LongRecord) error {
	if d.closed {
		return errors.New("xlsx-sink: push after close")
	}
	if err := d.open(); err != nil {
		return err
	}
	return d.setRow([]any{r.CountryName, r.CountryCode, r.Year, r.Ratio})
}

func (d *driver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.open(); err != nil {
		return err
	}
	defer d.wb.Close()

	if err := d.sw.Flush(); err != nil {
		return err
	}
	f, err := sink.CreateAtomic(d.cfg.Path, 0o644)
	if err != nil {
		return err
	}
	if _, err := d.wb.WriteTo(f); err != nil {
		_ = f.Abort()
		return err
	}
	return f.Commit()
}

func (d *driver) Abort() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.wb == nil {
		return nil
	}
	return d.wb.Close()
}

func (d *driver) Target() string { return d.cfg.Path }

var _ sink.Aborter = (*driver)(nil)

func init() {
	sink.Register("xlsx", func() sink.Adapter { return &driver{} })
}
