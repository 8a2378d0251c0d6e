package dataset

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sartorproj/salesforecast/timeseries"
)

// DefaultDateLayouts are tried in order by ParseDates when no layouts are
// given. The first matches exports such as "2/24/2003 0:00".
var DefaultDateLayouts = []string{
	"1/2/2006 15:04",
	"1/2/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02-Jan-2006",
	"1/2/06 15:04",
	"1/2/06",
}

// Validate checks that every field is present in the header. It returns
// the table unchanged, or a SchemaError naming every missing field.
func Validate(t *Table, fields ...string) (*Table, error) {
	var missing []string
	for _, f := range fields {
		if t.Index(f) < 0 {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Available: t.Header}
	}
	return t, nil
}

// ParseDates parses field into calendar days using the first matching
// layout. Unparseable cells are marked invalid rather than failing; see
// DropInvalidDates. Times of day are discarded.
func ParseDates(t *Table, field string, layouts []string) (*Table, error) {
	col, err := t.Column(field)
	if err != nil {
		return nil, err
	}
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}

	out := &Table{
		Header:    t.Header,
		Rows:      t.Rows,
		dateField: field,
		dates:     make([]time.Time, len(col)),
		valid:     make([]bool, len(col)),
	}
	for i, cell := range col {
		out.dates[i], out.valid[i] = parseDate(cell, layouts)
	}
	return out, nil
}

func parseDate(cell string, layouts []string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return timeseries.TruncateDay(ts), true
		}
	}
	return time.Time{}, false
}

// DropInvalidDates removes rows whose date failed to parse. It returns
// ErrEmptyDataset when nothing remains.
func DropInvalidDates(t *Table) (*Table, error) {
	if t.valid == nil {
		return nil, fmt.Errorf("dates not parsed")
	}

	out := &Table{Header: t.Header, dateField: t.dateField}
	for i, ok := range t.valid {
		if !ok {
			continue
		}
		out.Rows = append(out.Rows, t.Rows[i])
		out.dates = append(out.dates, t.dates[i])
		out.valid = append(out.valid, true)
	}

	if len(out.Rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return out, nil
}

// AggregateDaily sums valueField per calendar day of dateField, one entry
// per observed day in ascending order. An empty or NA value still marks its
// day as observed. Rows with an invalid date or a non-numeric value are
// skipped; use InvalidValues to count the latter.
// The result may have gaps; see timeseries.Series.FillGaps.
func AggregateDaily(t *Table, dateField, valueField string) (*timeseries.Series, error) {
	if t.valid == nil || t.Index(t.dateField) != t.Index(dateField) {
		parsed, err := ParseDates(t, dateField, nil)
		if err != nil {
			return nil, err
		}
		t = parsed
	}

	values, err := t.Column(valueField)
	if err != nil {
		return nil, err
	}

	totals := make(map[time.Time]float64)
	for i, cell := range values {
		day, ok := t.Date(i)
		if !ok {
			continue
		}
		if isMissing(cell) {
			if _, seen := totals[day]; !seen {
				totals[day] = 0
			}
			continue
		}
		v, ok := parseAmount(cell)
		if !ok {
			continue
		}
		totals[day] += v
	}

	if len(totals) == 0 {
		return nil, ErrEmptyDataset
	}

	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	sums := make([]float64, len(days))
	for i, day := range days {
		sums[i] = totals[day]
	}

	series, err := timeseries.NewWithTimestamps(days, sums)
	if err != nil {
		return nil, err
	}
	series.Name = valueField
	return series, nil
}

// InvalidValues counts non-empty cells of field that are not numbers.
func (t *Table) InvalidValues(field string) int {
	col, err := t.Column(field)
	if err != nil {
		return 0
	}
	n := 0
	for _, cell := range col {
		if isMissing(cell) {
			continue
		}
		if _, ok := parseAmount(cell); !ok {
			n++
		}
	}
	return n
}

func isMissing(cell string) bool {
	switch strings.ToLower(strings.TrimSpace(cell)) {
	case "", "na", "n/a", "nan", "null", "none":
		return true
	}
	return false
}

// parseAmount accepts plain numbers and thousands-separated amounts such
// as "1,234.50", "1_000" or "$99".
func parseAmount(cell string) (float64, bool) {
	if isMissing(cell) {
		return 0, false
	}
	cell = strings.TrimSpace(cell)
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		cleaned := strings.NewReplacer(",", "", "_", "", "$", "", " ", "").Replace(cell)
		v, err = strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
