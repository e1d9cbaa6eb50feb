// Package xls reads a wide table from a legacy BIFF (.xls) workbook.
package xls

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	xlsreader "github.com/anrid/xls"

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
	f, err := os.Open(d.cfg.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	wb, err := xlsreader.OpenReader(f, "utf-8")
	if err != nil {
		return fmt.Errorf("could not read XLS file %s: %w", d.cfg.Path, err)
	}

	sheet := pickSheet(wb, d.cfg.Sheet)
	if sheet == nil {
		return fmt.Errorf("workbook %s: sheet %q: %w", d.cfg.Path, d.cfg.Sheet, source.ErrEmptyTable)
	}
	logging.L().Debug("reading xls", "path", d.cfg.Path, "sheet", sheet.Name, "max_row", sheet.MaxRow)

	i := 0
	next := func() ([]string, error) {
		for ; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			if row == nil {
				continue
			}
			i++
			cols := make([]string, 0, row.LastCol()+1)
			for j := 0; j <= row.LastCol(); j++ {
				cols = append(cols, row.Col(j))
			}
			return cols, nil
		}
		return nil, io.EOF
	}
	return source.EmitRows(ctx, d.cfg.Years, next, emit)
}

func pickSheet(wb *xlsreader.WorkBook, name string) *xlsreader.WorkSheet {
	if name == "" {
		return wb.GetSheet(0)
	}
	for n := 0; n < wb.NumSheets(); n++ {
		if s := wb.GetSheet(n); s != nil && s.Name == name {
			return s
		}
	}
	return nil
}

func (d *driver) Close() error { return nil }

func init() {
	source.Register("xls", func() source.Adapter { return &driver{} })
}
