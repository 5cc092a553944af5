package frame

import "strings"

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name string
}

// Names returns the column names in schema order.
func (s Schema) Names() []string {
	out := make([]string, len(s.Columns))
	for i, cs := range s.Columns {
		out[i] = cs.Name
	}
	return out
}

// SchemaOf builds a Schema from an ordered list of column names.
func SchemaOf(names ...string) Schema {
	s := Schema{Columns: make([]ColumnSchema, len(names))}
	for i, n := range names {
		s.Columns[i] = ColumnSchema{Name: n}
	}
	return s
}

// Column is a nullable column of raw cell text.
type Column struct {
	name  string
	data  []string
	nulls []bool
}

func NewColumn(name string, n int) *Column {
	return &Column{name: name, data: make([]string, n), nulls: make([]bool, n)}
}
func (c *Column) Name() string             { return c.name }
func (c *Column) Len() int                 { return len(c.data) }
func (c *Column) IsNull(i int) bool        { return c.nulls[i] }
func (c *Column) Get(i int) (string, bool) { return c.data[i], !c.nulls[i] }
func (c *Column) AppendNull()              { c.data = append(c.data, ""); c.nulls = append(c.nulls, true) }
func (c *Column) Append(v string)          { c.data = append(c.data, v); c.nulls = append(c.nulls, false) }

// NonNull counts the non-null cells.
func (c *Column) NonNull() int {
	n := 0
	for _, null := range c.nulls {
		if !null {
			n++
		}
	}
	return n
}

// Frame is a columnar container for tabular data. Frames handed to the
// splitter are treated as read-only: subsets are new frames built by Take or
// Slice, never in-place edits.
type Frame struct {
	schema Schema
	cols   []*Column
	index  map[string]int // name -> col index
	nrows  int
	nulls  NullSet
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]*Column, len(s.Columns)), index: make(map[string]int), nulls: DefaultNulls()}
	for i, cs := range s.Columns {
		f.cols[i] = NewColumn(cs.Name, 0)
		// first occurrence wins for duplicate headers
		if _, dup := f.index[cs.Name]; !dup {
			f.index[cs.Name] = i
		}
	}
	return f
}

// WithNulls replaces the set of tokens treated as null by AppendRecord.
func (f *Frame) WithNulls(ns NullSet) *Frame {
	f.nulls = ns
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) Column(i int) *Column { return f.cols[i] }

func (f *Frame) ColumnByName(name string) (*Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AppendRecord appends one raw record. Cells beyond the schema are dropped,
// missing trailing cells and null tokens become nulls.
func (f *Frame) AppendRecord(rec []string) {
	for i, c := range f.cols {
		if i >= len(rec) {
			c.AppendNull()
			continue
		}
		v := strings.ToValidUTF8(rec[i], "?")
		if f.nulls.IsNull(v) {
			c.AppendNull()
			continue
		}
		c.Append(v)
	}
	f.nrows++
}

// Record returns row i as cell text in schema order; nulls are empty.
func (f *Frame) Record(i int) []string {
	rec := make([]string, len(f.cols))
	for c, col := range f.cols {
		rec[c], _ = col.Get(i)
	}
	return rec
}

// Take returns a new frame holding the given rows, in the order given.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{schema: f.schema, cols: make([]*Column, len(f.cols)), index: f.index, nrows: len(rows), nulls: f.nulls}
	for c, col := range f.cols {
		nc := NewColumn(col.name, len(rows))
		for k, r := range rows {
			nc.data[k] = col.data[r]
			nc.nulls[k] = col.nulls[r]
		}
		out.cols[c] = nc
	}
	return out
}

// Slice returns the contiguous rows [lo, hi) as a new frame.
func (f *Frame) Slice(lo, hi int) *Frame {
	if lo < 0 {
		lo = 0
	}
	if hi > f.nrows {
		hi = f.nrows
	}
	if hi < lo {
		hi = lo
	}
	out := &Frame{schema: f.schema, cols: make([]*Column, len(f.cols)), index: f.index, nrows: hi - lo, nulls: f.nulls}
	for c, col := range f.cols {
		nc := NewColumn(col.name, hi-lo)
		copy(nc.data, col.data[lo:hi])
		copy(nc.nulls, col.nulls[lo:hi])
		out.cols[c] = nc
	}
	return out
}
