package jsonlio

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junstudys/split-csv-by-field/pkg/frame"
)

func TestWriteKeepsColumnOrder(t *testing.T) {
	f := frame.NewFrame(frame.SchemaOf("z", "a", "quote"))
	f.AppendRecord([]string{"1", "", `say "hi"`})

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f))
	assert.Equal(t, `{"z":"1","a":null,"quote":"say \"hi\""}`+"\n", buf.String())
}

func TestSinkWritesFile(t *testing.T) {
	f := frame.NewFrame(frame.SchemaOf("city"))
	f.AppendRecord([]string{"广州"})
	f.AppendRecord([]string{"深圳"})

	path := filepath.Join(t.TempDir(), "city.jsonl")
	require.NoError(t, Sink{}.WriteFile(path, f))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	var row map[string]*string
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &row))
	assert.Equal(t, "深圳", *row["city"])
}
