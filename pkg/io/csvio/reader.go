package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
	iox "github.com/junstudys/split-csv-by-field/pkg/io/ioutils"
)

// EncodingAuto picks UTF-8 when the leading bytes decode cleanly, UTF-16 when
// a UTF-16 BOM is present and GB18030 otherwise.
const EncodingAuto = "auto"

const sniffBytes = 64 << 10

type ReaderOptions struct {
	Delimiter  rune     // 0 = sniff from the header line, default ','
	Encoding   string   // "" or "auto" = detect; otherwise a WHATWG label such as "gbk"
	NullValues []string // extra tokens read as null on top of the defaults
	Strict     bool     // if true, error on short/long records
	MaxRows    int      // stop after this many data rows; 0 = read everything
}

type Reader struct {
	r        *csv.Reader
	opt      ReaderOptions
	closer   io.Closer
	encoding string
	// repair/warning counters
	shortRecords int
	longRecords  int
}

// Open opens a CSV file (optionally gzip compressed) and returns a Reader.
// The caller must Close it.
func Open(path string, opt ReaderOptions) (*Reader, error) {
	rc, err := iox.OpenMaybeCompressed(path)
	if err != nil {
		return nil, err
	}
	r, err := NewReaderFrom(rc, opt)
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	r.closer = rc
	return r, nil
}

// NewReaderFrom constructs a Reader from an arbitrary io.Reader (stdin, pipe).
func NewReaderFrom(src io.Reader, opt ReaderOptions) (*Reader, error) {
	decoded, name, err := decode(src, opt.Encoding)
	if err != nil {
		return nil, err
	}
	br := bufio.NewReaderSize(decoded, sniffBytes)
	rr := csv.NewReader(br)
	rr.FieldsPerRecord = -1
	if opt.Delimiter == 0 {
		sample, _ := br.Peek(sniffBytes)
		d, lazy := sniffDelimiterAndQuotes(sample)
		rr.Comma = d
		rr.LazyQuotes = lazy
	} else {
		rr.Comma = opt.Delimiter
	}
	return &Reader{r: rr, opt: opt, encoding: name}, nil
}

// Encoding reports the text encoding the reader decodes from.
func (r *Reader) Encoding() string { return r.encoding }

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadAll reads the header and the data rows into a Frame. Every cell is kept
// as text; null tokens become nulls.
func (r *Reader) ReadAll() (*frame.Frame, error) {
	hdr, err := r.r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("csv: empty input, no header row")
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, len(hdr))
	for i := range hdr {
		names[i] = strings.TrimSpace(strings.ToValidUTF8(hdr[i], "?"))
	}
	// strip BOM on first header cell if present
	if len(names) > 0 {
		names[0] = strings.TrimPrefix(names[0], "\ufeff")
	}
	nulls := frame.DefaultNulls().With(r.opt.NullValues...)
	f := frame.NewFrame(frame.SchemaOf(names...)).WithNulls(nulls)

	for r.opt.MaxRows <= 0 || f.Rows() < r.opt.MaxRows {
		rec, err := r.r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch {
		case len(rec) < len(names):
			if isBlank(rec) {
				continue
			}
			r.shortRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv short record at row %d: need %d fields, got %d", f.Rows()+1, len(names), len(rec))
			}
		case len(rec) > len(names):
			r.longRecords++
			if r.opt.Strict {
				return nil, fmt.Errorf("csv long record at row %d: need %d fields, got %d", f.Rows()+1, len(names), len(rec))
			}
		}
		f.AppendRecord(rec)
	}
	return f, nil
}

// Warnings returns a summary string of any repairs/mismatches encountered.
func (r *Reader) Warnings() string {
	if r.shortRecords == 0 && r.longRecords == 0 {
		return ""
	}
	parts := []string{}
	if r.shortRecords > 0 {
		parts = append(parts, fmt.Sprintf("short_records=%d", r.shortRecords))
	}
	if r.longRecords > 0 {
		parts = append(parts, fmt.Sprintf("long_records=%d", r.longRecords))
	}
	return strings.Join(parts, ", ")
}

// ReadFile is Open + ReadAll + Close. The second result carries the reader's
// repair warnings and detected encoding for logging.
func ReadFile(path string, opt ReaderOptions) (*frame.Frame, Info, error) {
	r, err := Open(path, opt)
	if err != nil {
		return nil, Info{}, err
	}
	defer func() { _ = r.Close() }()
	f, err := r.ReadAll()
	if err != nil {
		return nil, Info{}, err
	}
	return f, Info{Encoding: r.Encoding(), Warnings: r.Warnings()}, nil
}

// Info describes how a file was read.
type Info struct {
	Encoding string
	Warnings string
}

// a record of one empty cell is how encoding/csv reports a whitespace-only line
func isBlank(rec []string) bool {
	return len(rec) == 1 && strings.TrimSpace(rec[0]) == ""
}

func decode(src io.Reader, label string) (io.Reader, string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", EncodingAuto:
		br := bufio.NewReaderSize(src, sniffBytes)
		sample, err := br.Peek(sniffBytes)
		truncated := err == nil
		switch {
		case bytes.HasPrefix(sample, []byte{0xff, 0xfe}), bytes.HasPrefix(sample, []byte{0xfe, 0xff}):
			dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
			return transform.NewReader(br, dec), "utf-16", nil
		case looksUTF8(sample, truncated):
			return br, "utf-8", nil
		default:
			return transform.NewReader(br, simplifiedchinese.GB18030.NewDecoder()), "gb18030", nil
		}
	case "utf-8", "utf8", "utf-8-sig":
		return src, "utf-8", nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("unsupported encoding %q", label)
	}
	name, _ := htmlindex.Name(enc)
	return transform.NewReader(src, enc.NewDecoder()), name, nil
}

// looksUTF8 reports whether b is valid UTF-8. A rune cut off by the end of a
// truncated sample does not count against it.
func looksUTF8(b []byte, truncated bool) bool {
	for len(b) > 0 {
		c, size := utf8.DecodeRune(b)
		if c == utf8.RuneError && size <= 1 {
			return truncated && !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}

// sniffDelimiterAndQuotes picks the candidate delimiter seen most often on
// the header line. LazyQuotes is enabled when the quotes there are unbalanced.
func sniffDelimiterAndQuotes(sample []byte) (rune, bool) {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	if len(sample) == 0 {
		return ',', false
	}
	candidates := []byte{',', '\t', ';', '|'}
	best := byte(',')
	bestCount := 0
	for _, c := range candidates {
		if cnt := bytes.Count(sample, []byte{c}); cnt > bestCount {
			bestCount = cnt
			best = c
		}
	}
	lazy := bytes.Count(sample, []byte{'"'})%2 != 0
	return rune(best), lazy
}
