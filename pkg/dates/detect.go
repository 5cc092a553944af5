// Package dates recognises the textual date formats found in CSV exports,
// parses date columns and maps dates onto calendar period labels.
package dates

import (
	"regexp"
	"strings"
)

const (
	yearRe  = `(19\d{2}|2\d{3}|3000)`
	monthRe = `(0[1-9]|1[0-2])`
	// day is range-checked only; Feb 30 matches.
	dayRe  = `(0[1-9]|[12]\d|3[01])`
	timeRe = `([01]\d|2[0-3]):[0-5]\d:[0-5]\d`
)

// Format is one entry of the date catalog.
type Format struct {
	Name    string
	Layout  string // time.Parse layout
	pattern *regexp.Regexp
}

// Match reports whether v is written in this format.
func (f Format) Match(v string) bool { return f.pattern.MatchString(v) }

func newFormat(name, layout, re string) Format {
	return Format{Name: name, Layout: layout, pattern: regexp.MustCompile(`^` + re + `$`)}
}

// Catalog lists the recognised formats in detection order.
var Catalog = []Format{
	newFormat("yyyyMM", "200601", yearRe+monthRe),
	newFormat("yyyy-MM", "2006-01", yearRe+`-`+monthRe),
	newFormat("yyyyMMdd", "20060102", yearRe+monthRe+dayRe),
	newFormat("yyyy-MM-dd", "2006-01-02", yearRe+`-`+monthRe+`-`+dayRe),
	newFormat("yyyy/MM/dd", "2006/01/02", yearRe+`/`+monthRe+`/`+dayRe),
	newFormat("yyyyMMdd HH:mm:ss", "20060102 15:04:05", yearRe+monthRe+dayRe+` `+timeRe),
	newFormat("yyyy-MM-dd HH:mm:ss", "2006-01-02 15:04:05", yearRe+`-`+monthRe+`-`+dayRe+` `+timeRe),
	newFormat("yyyy/MM/dd HH:mm:ss", "2006/01/02 15:04:05", yearRe+`/`+monthRe+`/`+dayRe+` `+timeRe),
}

// DetectFormat returns the name of the first catalog format matching v after
// trimming surrounding space, or ok=false.
func DetectFormat(v string) (name string, ok bool) {
	v = strings.TrimSpace(v)
	for _, f := range Catalog {
		if f.Match(v) {
			return f.Name, true
		}
	}
	return "", false
}

// IsDate reports whether v matches any catalog format.
func IsDate(v string) bool {
	_, ok := DetectFormat(v)
	return ok
}
