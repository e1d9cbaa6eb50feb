package tidy

import (
	"math"
	"strconv"
	"strings"
)

// IsAbsent reports whether raw is one of the "not observed" markers.
func IsAbsent(raw string) bool {
	return raw == MarkerNotObserved || raw == MarkerEmpty
}

// ParseRatio converts a present cell into a finite decimal float.
// Hexadecimal mantissas are rejected even though strconv accepts them.
func ParseRatio(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	digits := strings.TrimLeft(s, "+-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Stats counts what Melt saw for one or more records.
type Stats struct {
	Matched int
	Absent  int
}

// Melt reshapes a single wide record into long rows for the configured
// years. Records of another series yield no rows and no error. Rows come
// out in ascending year order.
func Melt(rec WideRecord, series string, years YearRange) ([]LongRecord, Stats, error) {
	var st Stats
	if rec.SeriesCode != series {
		return nil, st, nil
	}
	st.Matched = 1

	var out []LongRecord
	for _, year := range years.Years() {
		raw := rec.Cells[strconv.Itoa(year)]
		if IsAbsent(raw) {
			st.Absent++
			continue
		}
		v, err := ParseRatio(raw)
		if err != nil {
			return nil, st, &MalformedValueError{CountryCode: rec.CountryCode, Year: year, Raw: raw}
		}
		out = append(out, LongRecord{
			CountryName: rec.CountryName,
			CountryCode: rec.CountryCode,
			Year:        year,
			Ratio:       v,
		})
	}
	return out, st, nil
}

// Transform melts every record in input order. The first malformed cell
// aborts the whole batch.
func Transform(recs []WideRecord, series string, years YearRange) ([]LongRecord, Stats, error) {
	var (
		out []LongRecord
		tot Stats
	)
	for _, rec := range recs {
		rows, st, err := Melt(rec, series, years)
		if err != nil {
			return nil, tot, err
		}
		tot.Matched += st.Matched
		tot.Absent += st.Absent
		out = append(out, rows...)
	}
	return out, tot, nil
}
