package tidy

import (
	"fmt"
	"strconv"
)

// Absent-value markers used by World Bank DataBank exports.
const (
	MarkerNotObserved = ".."
	MarkerEmpty       = ""
)

// WideRecord is one input row with every cell kept as raw text.
// Cells is keyed by the canonical year label ("2016").
type WideRecord struct {
	CountryName string
	CountryCode string
	SeriesCode  string
	Cells       map[string]string
}

// LongRecord is one observed country-year value.
type LongRecord struct {
	CountryName string  `json:"country_name"`
	CountryCode string  `json:"country_code"`
	Year        int     `json:"year"`
	Ratio       float64 `json:"ratio"`
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	From int `koanf:"from"`
	To   int `koanf:"to"`
}

func (r YearRange) Validate() error {
	if r.From <= 0 || r.To <= 0 || r.From > r.To {
		return fmt.Errorf("%w: %d..%d", ErrInvalidYearRange, r.From, r.To)
	}
	return nil
}

// Years lists the range in ascending order.
func (r YearRange) Years() []int {
	if r.From > r.To {
		return nil
	}
	out := make([]int, 0, r.To-r.From+1)
	for y := r.From; y <= r.To; y++ {
		out = append(out, y)
	}
	return out
}

func (r YearRange) Labels() []string {
	years := r.Years()
	out := make([]string, len(years))
	for i, y := range years {
		out[i] = strconv.Itoa(y)
	}
	return out
}

func (r YearRange) Contains(year int) bool { return year >= r.From && year <= r.To }

func (r YearRange) String() string { return fmt.Sprintf("%d-%d", r.From, r.To) }
