package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"tidyseries/internal/tidy"
)

const (
	ColCountryName = "Country Name"
	ColCountryCode = "Country Code"
	ColSeriesCode  = "Series Code"
)

var ErrEmptyTable = errors.New("empty table: no header row")

type yearColumn struct {
	label string
	idx   int
}

// Layout maps header positions to the fields of a WideRecord.
type Layout struct {
	name, code, series int
	years              []yearColumn
}

// NewLayout resolves the required columns in header. Year columns match
// either the plain label ("2016") or the DataBank form ("2016 [YR2016]").
func NewLayout(header []string, years tidy.YearRange) (*Layout, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}

	var missing []string
	find := func(names ...string) int {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				return i
			}
		}
		missing = append(missing, names[0])
		return -1
	}

	l := &Layout{
		name:   find(ColCountryName),
		code:   find(ColCountryCode),
		series: find(ColSeriesCode),
	}
	for _, y := range years.Years() {
		label := strconv.Itoa(y)
		l.years = append(l.years, yearColumn{
			label: label,
			idx:   find(label, fmt.Sprintf("%d [YR%d]", y, y)),
		})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", tidy.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return l, nil
}

// Record builds a WideRecord from row. Short rows read as empty cells.
func (l *Layout) Record(row []string) tidy.WideRecord {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	rec := tidy.WideRecord{
		CountryName: cell(l.name),
		CountryCode: cell(l.code),
		SeriesCode:  cell(l.series),
		Cells:       make(map[string]string, len(l.years)),
	}
	for _, y := range l.years {
		rec.Cells[y.label] = cell(y.idx)
	}
	return rec
}

// RowReader yields the next row of a table or io.EOF.
type RowReader func() ([]string, error)

// EmitRows reads a header and then every data row from next, handing
// records to emit. next must return io.EOF after the last row.
func EmitRows(ctx context.Context, years tidy.YearRange, next RowReader, emit EmitFunc) error {
	header, err := next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyTable
		}
		return fmt.Errorf("read header: %w", err)
	}
	layout, err := NewLayout(header, years)
	if err != nil {
		return err
	}
	for n := 2; ; n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("row %d: %w", n, err)
		}
		if err := emit(layout.Record(row)); err != nil {
			return err
		}
	}
}
