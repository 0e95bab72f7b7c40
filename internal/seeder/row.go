package seeder

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Row exposes typed access to one worksheet row keyed by normalized header.
// Blank cells and NaN artifacts left by upstream exports read as absent.
type Row struct {
	columns map[string]string
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"02-Jan-06",
	"2-Jan-06",
	time.RFC3339,
}

func (r Row) raw(key string) (string, bool) {
	value, ok := r.columns[normalizeKey(key)]
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "nan") {
		return "", false
	}
	return value, true
}

// String returns the raw cell value.
func (r Row) String(key string) (string, bool) {
	return r.raw(key)
}

// TrimString returns the cell value with surrounding whitespace removed.
func (r Row) TrimString(key string) (string, bool) {
	value, ok := r.raw(key)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

// Int parses the cell as an integer, tolerating float-formatted exports
// such as "42.0".
func (r Row) Int(key string) (int, bool) {
	value, ok := r.Int64(key)
	return int(value), ok
}

func (r Row) Int64(key string) (int64, bool) {
	value, ok := r.TrimString(key)
	if !ok {
		return 0, false
	}
	if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
		return parsed, true
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil {
		return int64(parsed), true
	}
	return 0, false
}

func (r Row) Float(key string) (float64, bool) {
	value, ok := r.TrimString(key)
	if !ok {
		return 0, false
	}
	parsed, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Decimal parses the cell as an exact money amount. Currency symbols and
// thousands separators are stripped first.
func (r Row) Decimal(key string) (decimal.Decimal, bool) {
	value, ok := r.TrimString(key)
	if !ok {
		return decimal.Zero, false
	}
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)
	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return parsed, true
}

// Date parses the cell against the accepted layouts, falling back to Excel
// serial date numbers.
func (r Row) Date(key string) (time.Time, bool) {
	value, ok := r.TrimString(key)
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 59 {
		if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// Bool reads Y/Yes/True/1 style flags.
func (r Row) Bool(key string) (bool, bool) {
	value, ok := r.TrimString(key)
	if !ok {
		return false, false
	}
	switch strings.ToLower(value) {
	case "y", "yes", "true", "1":
		return true, true
	case "n", "no", "false", "0":
		return false, true
	}
	return false, false
}
