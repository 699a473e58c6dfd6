package dbx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCSVQuotesAndPads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := ToCSV(
		[]string{"name", "count"},
		[][]any{
			{"alice", `say "hi"`, "bob"},
			{3, 1.5},
		},
		path,
	)
	require.NoError(t, err)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "\"name\"\t\"count\"\n" +
		"\"alice\"\t3\n" +
		"\"say \"\"hi\"\"\"\t1.5\n" +
		"\"bob\"\t\"\"\n"
	assert.Equal(t, want, string(contents))
}

func TestFormatField(t *testing.T) {
	assert.Equal(t, "42", formatField(42))
	assert.Equal(t, "1.5", formatField(1.5))
	assert.Equal(t, `""`, formatField(nil))
	assert.Equal(t, `"raw"`, formatField([]byte("raw")))
	assert.Equal(t, `"text"`, formatField("text"))
}
