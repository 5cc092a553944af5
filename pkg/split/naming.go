package split

import (
	"strconv"
	"strings"
)

// MaxTokenLength caps every suffix token taken from data.
const MaxTokenLength = 100

// NullToken names the bucket of rows whose date failed to parse.
const NullToken = "NULL"

var unsafeChars = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// SafeName turns a grouping value into a filename token: surrounding space
// is trimmed, characters illegal in file names become '_' and the result is
// cut to MaxTokenLength characters.
func SafeName(v string) string {
	return capLength(unsafeChars.Replace(strings.TrimSpace(v)))
}

func capLength(s string) string {
	r := []rune(s)
	if len(r) <= MaxTokenLength {
		return s
	}
	return string(r[:MaxTokenLength])
}

// fileName assembles {base}{suffix}[_part{n}].{ext}; part < 1 omits the part.
func fileName(base, suffix string, part int, ext string) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString(suffix)
	if part > 0 {
		b.WriteString("_part")
		b.WriteString(strconv.Itoa(part))
	}
	b.WriteString(".")
	b.WriteString(ext)
	return b.String()
}
