package parquetio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

func TestWriteReadRoundTrip(t *testing.T) {
	f := frame.NewFrame(frame.SchemaOf("province", "order_date", "amount"))
	f.AppendRecord([]string{"GD", "2024-01-15", "1.5"})
	f.AppendRecord([]string{"ZJ", "", "2"})
	f.AppendRecord([]string{"GD", "2024-02-01", "NULL"})

	path := filepath.Join(t.TempDir(), "parts", "out.parquet")
	require.NoError(t, Sink{}.WriteFile(path, f))

	back, err := ReadFile(path, frame.DefaultNulls(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"province", "order_date", "amount"}, back.Schema().Names())
	require.Equal(t, 3, back.Rows())
	for i := 0; i < f.Rows(); i++ {
		assert.Equal(t, f.Record(i), back.Record(i))
	}
	date, _ := back.ColumnByName("order_date")
	assert.True(t, date.IsNull(1))

	head, err := ReadFile(path, frame.DefaultNulls(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, head.Rows())
}

func TestSchemaEscapesTagSeparators(t *testing.T) {
	doc, err := parquetSchemaJSON(frame.SchemaOf("a,b", "k=v", " "))
	require.NoError(t, err)
	assert.Contains(t, doc, "name=a_b, inname=C0")
	assert.Contains(t, doc, "name=k_v, inname=C1")
	assert.Contains(t, doc, "name=column_2, inname=C2")
}
