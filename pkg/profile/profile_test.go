package profile

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junstudys/split-csv-by-field/pkg/classify"
	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

func sample() *frame.Frame {
	f := frame.NewFrame(frame.SchemaOf("city", "order_date", "note"))
	f.AppendRecord([]string{"GZ", "", ""})
	f.AppendRecord([]string{"SZ", "2024-01-05", ""})
	f.AppendRecord([]string{"GZ", "2024-02-05", "x"})
	return f
}

func TestBuild(t *testing.T) {
	p := Build(sample(), classify.Classifier{})
	require.Len(t, p.Columns, 3)
	assert.Equal(t, []string{"city", "order_date", "note"}, p.Fields())

	city := p.Columns[0]
	assert.Equal(t, 1, city.Index)
	assert.Equal(t, "CATEGORICAL", city.Class)
	assert.Equal(t, 2, city.Distinct)
	assert.Equal(t, "GZ", city.Sample)
	assert.Empty(t, city.Format)

	date := p.Columns[1]
	assert.Equal(t, "DATE", date.Class)
	assert.Equal(t, "yyyy-MM-dd", date.Format)
	assert.Equal(t, 1, date.Nulls)
	assert.Equal(t, "2024-01-05", date.Sample)

	assert.Equal(t, 2, p.Columns[2].Nulls)
}

func TestReports(t *testing.T) {
	p := Build(sample(), classify.Classifier{})
	txt := p.ReportText()
	assert.Contains(t, txt, "2. order_date [DATE] format=yyyy-MM-dd")
	assert.Contains(t, txt, `sample="GZ"`)

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"class":"DATE"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "广东...", truncate("广东省", 2))
}
