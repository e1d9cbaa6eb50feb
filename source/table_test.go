package source

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"tidyseries/internal/tidy"
)

func rowsOf(rows ...[]string) RowReader {
	i := 0
	return func() ([]string, error) {
		if i == len(rows) {
			return nil, io.EOF
		}
		i++
		return rows[i-1], nil
	}
}

func TestNewLayout_AcceptsDataBankYearLabels(t *testing.T) {
	header := []string{"\ufeffCountry Name", "Country Code", "Series Name", "Series Code", "2016 [YR2016]", " 2017 "}
	l, err := NewLayout(header, tidy.YearRange{From: 2016, To: 2017})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	rec := l.Record([]string{"Afristan", "AFR", "Labor ratio", "X.Y", "55.2", ".."})
	if rec.CountryName != "Afristan" || rec.SeriesCode != "X.Y" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.Cells["2016"] != "55.2" || rec.Cells["2017"] != ".." {
		t.Fatalf("unexpected cells %v", rec.Cells)
	}
}

func TestNewLayout_ReportsEveryMissingColumn(t *testing.T) {
	_, err := NewLayout([]string{"Country Name", "2016"}, tidy.YearRange{From: 2016, To: 2017})
	if !errors.Is(err, tidy.ErrMissingColumn) {
		t.Fatalf("want ErrMissingColumn, got %v", err)
	}
	for _, col := range []string{"Country Code", "Series Code", "2017"} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error %q does not name %q", err, col)
		}
	}
}

func TestLayoutRecord_PadsShortRows(t *testing.T) {
	l, err := NewLayout([]string{"Country Name", "Country Code", "Series Code", "2016"}, tidy.YearRange{From: 2016, To: 2016})
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	rec := l.Record([]string{"Last Updated: 05/30/2025"})
	if rec.SeriesCode != "" || rec.Cells["2016"] != "" {
		t.Fatalf("short row should read as empty cells: %+v", rec)
	}
}

func TestEmitRows_OrderAndEmptyTable(t *testing.T) {
	next := rowsOf(
		[]string{"Country Name", "Country Code", "Series Code", "2016"},
		[]string{"B", "BBB", "S", "1"},
		[]string{"A", "AAA", "S", "2"},
	)
	var got []string
	err := EmitRows(context.Background(), tidy.YearRange{From: 2016, To: 2016}, next, func(r tidy.WideRecord) error {
		got = append(got, r.CountryCode)
		return nil
	})
	if err != nil {
		t.Fatalf("EmitRows: %v", err)
	}
	if len(got) != 2 || got[0] != "BBB" || got[1] != "AAA" {
		t.Fatalf("records out of order: %v", got)
	}

	err = EmitRows(context.Background(), tidy.YearRange{From: 2016, To: 2016}, rowsOf(), func(tidy.WideRecord) error { return nil })
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("want ErrEmptyTable, got %v", err)
	}
}

func TestEmitRows_StopsOnEmitError(t *testing.T) {
	boom := errors.New("boom")
	next := rowsOf(
		[]string{"Country Name", "Country Code", "Series Code", "2016"},
		[]string{"A", "AAA", "S", "1"},
		[]string{"B", "BBB", "S", "2"},
	)
	calls := 0
	err := EmitRows(context.Background(), tidy.YearRange{From: 2016, To: 2016}, next, func(tidy.WideRecord) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Fatalf("want boom after one call, got %v after %d", err, calls)
	}
}
