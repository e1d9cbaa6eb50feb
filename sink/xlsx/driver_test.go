package xlsx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"tidyseries/internal/tidy"
)

func TestClose_WritesWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.xlsx")
	d := &driver{}
	if err := d.Configure(Config{Path: path, Sheet: "labor_gap"}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	for _, r := range []tidy.LongRecord{
		{CountryName: "Afristan", CountryCode: "AFR", Year: 2016, Ratio: 55.2},
		{CountryName: "Afristan", CountryCode: "AFR", Year: 2018, Ratio: 57},
	} {
		if err := d.Push(r); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if err := d.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	wb, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer wb.Close()
	rows, err := wb.GetRows("labor_gap")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want header + 2 rows, got %v", rows)
	}
	if rows[0][3] != "Ratio" || rows[1][2] != "2016" || rows[2][3] != "57" {
		t.Fatalf("unexpected cells %v", rows)
	}
}

func TestAbort_WritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.xlsx")
	d := &driver{}
	if err := d.Configure(Config{Path: path}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	_ = d.Push(tidy.LongRecord{CountryName: "A", CountryCode: "AAA", Year: 2016, Ratio: 1})
	if err := d.Abort(); err != nil {
		t.Fatalf("Abort: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("aborted workbook was written: %v", err)
	}
}
