package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string // empty means no match
	}{
		{"202401", "yyyyMM"},
		{"190001", "yyyyMM"},
		{"300001", "yyyyMM"},
		{"189912", ""},
		{"310001", ""},
		{"202400", ""},
		{"202413", ""},
		{"20240", ""},
		{"2024-01", "yyyy-MM"},
		{"3000-01", "yyyy-MM"},
		{"1899-12", ""},
		{"2024-13", ""},
		{"20240115", "yyyyMMdd"},
		{"30001231", "yyyyMMdd"},
		{"20240230", "yyyyMMdd"}, // no calendar check
		{"20240132", ""},
		{"2024-01-15", "yyyy-MM-dd"},
		{"2024/01/15", "yyyy/MM/dd"},
		{"2024-1-15", ""},
		{"20240115 14:30:00", "yyyyMMdd HH:mm:ss"},
		{"2024-01-15 23:59:59", "yyyy-MM-dd HH:mm:ss"},
		{"2024/01/15 00:00:00", "yyyy/MM/dd HH:mm:ss"},
		{"2024-01-15 24:00:00", ""},
		{"2024-01-15 9:00:00", ""},
		{" 2024-01-15 ", "yyyy-MM-dd"},
		{"2024-01-15x", ""},
		{"GD", ""},
		{"", ""},
	}
	for _, c := range cases {
		got, ok := DetectFormat(c.in)
		if c.want == "" {
			assert.False(t, ok, "%q should not match, got %s", c.in, got)
			continue
		}
		assert.True(t, ok, "%q should match %s", c.in, c.want)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestCatalogIsExclusive(t *testing.T) {
	samples := []string{"202401", "2024-01", "20240115", "2024-01-15", "2024/01/15",
		"20240115 01:02:03", "2024-01-15 01:02:03", "2024/01/15 01:02:03"}
	for i, s := range samples {
		hits := 0
		for _, f := range Catalog {
			if f.Match(s) {
				hits++
				assert.Equal(t, Catalog[i].Name, f.Name)
			}
		}
		assert.Equal(t, 1, hits, s)
	}
}

func TestLabel(t *testing.T) {
	d := func(y int, m time.Month, day int) time.Time { return time.Date(y, m, day, 0, 0, 0, 0, time.UTC) }
	cases := []struct {
		t    time.Time
		g    Granularity
		want string
	}{
		{d(2024, 1, 15), Year, "2024"},
		{d(2024, 6, 30), HalfYear, "2024-H1"},
		{d(2024, 7, 1), HalfYear, "2024-H2"},
		{d(2024, 3, 31), Quarter, "2024-Q1"},
		{d(2024, 4, 1), Quarter, "2024-Q2"},
		{d(2024, 12, 1), Quarter, "2024-Q4"},
		{d(2024, 2, 9), Month, "2024-02"},
		{d(2024, 2, 15), HalfMonth, "2024-02-HM1"},
		{d(2024, 2, 16), HalfMonth, "2024-02-HM2"},
		{d(2024, 2, 9), Day, "2024-02-09"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Label(c.t, c.g), "%s %s", c.t.Format("2006-01-02"), c.g)
	}
}

func TestParseGranularity(t *testing.T) {
	g, err := ParseGranularity(" hm ")
	require.NoError(t, err)
	assert.Equal(t, HalfMonth, g)

	g, err = ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, None, g)

	_, err = ParseGranularity("W")
	assert.True(t, errors.Is(err, ErrInvalidGranularity))
}

func TestParseColumnStrictLayout(t *testing.T) {
	p := ParseColumn([]string{"20240115", "20240615", "", "20241215"}, []bool{false, false, true, false})
	assert.Equal(t, "20060102", p.Layout)
	assert.Equal(t, 3, p.Valid())
	assert.False(t, p.OK[2])
	assert.Equal(t, time.June, p.Times[1].Month())
}

func TestParseColumnFallback(t *testing.T) {
	p := ParseColumn([]string{"2024-01-15", "2024/02/20", "unknown"}, nil)
	assert.Empty(t, p.Layout)
	assert.Equal(t, []bool{true, true, false}, p.OK)
	assert.Equal(t, time.February, p.Times[1].Month())
}

func TestParseColumnCalendarInvalid(t *testing.T) {
	// detected as a date but not a real day
	p := ParseColumn([]string{"2024-02-30", "2024-02-01"}, nil)
	assert.Equal(t, []bool{false, true}, p.OK)
}

func TestPeriodKeys(t *testing.T) {
	keys, ok := PeriodKeys([]string{"20240115", "20240615", "20240715", "20241215"}, nil, HalfYear)
	assert.Equal(t, []string{"2024-H1", "2024-H1", "2024-H2", "2024-H2"}, keys)
	assert.Equal(t, []bool{true, true, true, true}, ok)
}

func TestGranularityDescription(t *testing.T) {
	assert.Equal(t, "half-year", HalfYear.Description())
	assert.Equal(t, "half-month", HalfMonth.Description())
	assert.Equal(t, "W", Granularity("W").Description())
	assert.Contains(t, Codes(), "HM=half-month")
}

func TestParseValueRejectsPlainNumbers(t *testing.T) {
	for _, v := range []string{"1700000000", "1234", "42", "3.5"} {
		_, ok := ParseValue(v)
		assert.False(t, ok, v)
	}
	got, ok := ParseValue("20240115")
	require.True(t, ok)
	assert.Equal(t, time.January, got.Month())

	keys, valid := PeriodKeys([]string{"2024-01-15", "1234", "2024/03/02", "1700000000"}, nil, Year)
	assert.Equal(t, []bool{true, false, true, false}, valid)
	assert.Equal(t, []string{"2024", "", "2024", ""}, keys)
}
