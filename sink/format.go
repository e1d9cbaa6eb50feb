package sink

import (
	"strconv"
	"strings"
)

// Header is the column row of every tabular sink.
var Header = []string{"Country Name", "Country Code", "Year", "Ratio"}

// FormatRatio renders the shortest decimal that parses back to v and
// keeps a trailing ".0" on integral values, so 57 prints as "57.0".
func FormatRatio(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
