package xlsxio

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

func TestRoundTripKeepsText(t *testing.T) {
	f := frame.NewFrame(frame.SchemaOf("id", "city", "order_date"))
	f.AppendRecord([]string{"007", "广州", "20240105"})
	f.AppendRecord([]string{"008", "", "2024-01-06"})

	path := filepath.Join(t.TempDir(), "out", "part.xlsx")
	require.NoError(t, Sink{}.WriteFile(path, f))

	back, err := ReadFile(path, frame.DefaultNulls(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "city", "order_date"}, back.Schema().Names())
	require.Equal(t, 2, back.Rows())
	assert.Equal(t, []string{"007", "广州", "20240105"}, back.Record(0))
	city, _ := back.ColumnByName("city")
	assert.True(t, city.IsNull(1))

	head, err := ReadFile(path, frame.DefaultNulls(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, head.Rows())
}

func TestSinkExt(t *testing.T) {
	assert.Equal(t, "xlsx", Sink{}.Ext())
}
