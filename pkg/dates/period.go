package dates

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Granularity is a calendar bucketing unit identified by its short code.
type Granularity string

const (
	None      Granularity = ""
	Year      Granularity = "Y"
	HalfYear  Granularity = "H"
	Quarter   Granularity = "Q"
	Month     Granularity = "M"
	HalfMonth Granularity = "HM"
	Day       Granularity = "D"
)

// Granularities lists the supported codes from coarsest to finest.
var Granularities = []Granularity{Year, HalfYear, Quarter, Month, HalfMonth, Day}

var descriptions = map[Granularity]string{
	Year:      "year",
	HalfYear:  "half-year",
	Quarter:   "quarter",
	Month:     "month",
	HalfMonth: "half-month",
	Day:       "day",
}

// ErrInvalidGranularity is returned for codes outside Y, H, Q, M, HM, D.
var ErrInvalidGranularity = errors.New("invalid time period")

// ParseGranularity accepts a code case-insensitively. Blank input means no
// time bucketing.
func ParseGranularity(code string) (Granularity, error) {
	c := Granularity(strings.ToUpper(strings.TrimSpace(code)))
	if c == None {
		return None, nil
	}
	if _, ok := descriptions[c]; !ok {
		return None, fmt.Errorf("%w %q (want one of %s)", ErrInvalidGranularity, code, Codes())
	}
	return c, nil
}

// Codes renders the supported codes with their meaning, e.g. "Y=year, H=half-year".
func Codes() string {
	parts := make([]string, len(Granularities))
	for i, g := range Granularities {
		parts[i] = string(g) + "=" + descriptions[g]
	}
	return strings.Join(parts, ", ")
}

func (g Granularity) String() string { return string(g) }

// Description is the human name of the unit, or the code itself if unknown.
func (g Granularity) Description() string {
	if d, ok := descriptions[g]; ok {
		return d
	}
	return string(g)
}

// Label maps t onto the canonical period label for g:
//
//	Y  2024          H  2024-H1      Q 2024-Q3
//	M  2024-07       HM 2024-07-HM2  D 2024-07-21
func Label(t time.Time, g Granularity) string {
	year, month, day := t.Date()
	switch g {
	case Year:
		return fmt.Sprintf("%d", year)
	case HalfYear:
		if month <= 6 {
			return fmt.Sprintf("%d-H1", year)
		}
		return fmt.Sprintf("%d-H2", year)
	case Quarter:
		return fmt.Sprintf("%d-Q%d", year, (int(month)-1)/3+1)
	case Month:
		return fmt.Sprintf("%d-%02d", year, int(month))
	case HalfMonth:
		if day <= 15 {
			return fmt.Sprintf("%d-%02d-HM1", year, int(month))
		}
		return fmt.Sprintf("%d-%02d-HM2", year, int(month))
	case Day:
		return fmt.Sprintf("%d-%02d-%02d", year, int(month), day)
	}
	return t.Format("20060102")
}

// PeriodKeys parses a column and labels every row. ok[i] is false for rows
// whose value is null or unparseable; those rows have an empty key.
func PeriodKeys(values []string, nulls []bool, g Granularity) (keys []string, ok []bool) {
	p := ParseColumn(values, nulls)
	keys = make([]string, len(values))
	for i, valid := range p.OK {
		if valid {
			keys[i] = Label(p.Times[i], g)
		}
	}
	return keys, p.OK
}
