// Package xlsx reads a wide table from the first (or a named) sheet of
// an Office Open XML workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"tidyseries/internal/logging"
	"tidyseries/internal/tidy"
	"tidyseries/source"
)

type driver struct {
	cfg source.Config
}

func (d *driver) Configure(c source.Config) error {
	if _, err := os.Stat(c.Path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", tidy.ErrInputNotFound, c.Path)
		}
		return err
	}
	d.cfg = c
	return nil
}

func (d *driver) Run(ctx context.Context, emit source.EmitFunc) error {
	wb, err := excelize.OpenFile(d.cfg.Path)
	if err != nil {
		return fmt.Errorf("open workbook %s: %w", d.cfg.Path, err)
	}
	defer wb.Close()

	sheet := d.cfg.Sheet
	if sheet == "" {
		sheets := wb.GetSheetList()
		if len(sheets) == 0 {
			return fmt.Errorf("workbook %s: %w", d.cfg.Path, source.ErrEmptyTable)
		}
		sheet = sheets[0]
	}
	logging.L().Debug("reading xlsx", "path", d.cfg.Path, "sheet", sheet)

	rows, err := wb.Rows(sheet)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	next := func() ([]string, error) {
		if !rows.Next() {
			if err := rows.Error(); err != nil {
				return nil, err
			}
			return nil, io.EOF
		}
		return rows.Columns()
	}
	return source.EmitRows(ctx, d.cfg.Years, next, emit)
}

func (d *driver) Close() error { return nil }

func init() {
	source.Register("xlsx", func() source.Adapter { return &driver{} })
}
