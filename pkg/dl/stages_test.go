package dl_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapipes/downpipe/pkg/dl"
	"github.com/datapipes/downpipe/pkg/pipe"
)

func writeFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestDownloadOverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a,b\n1,2\n"))
	}))
	defer srv.Close()

	out := dl.Download(context.Background(), nil).
		Then(dl.ParseCSV(',')).
		Apply(srv.URL + "/rows.csv")

	require.Equal(t, pipe.KindSeq, out.Kind())
	items := out.Items()
	require.Len(t, items, 1)
	row, ok := items[0].Get("a")
	require.True(t, ok)
	assert.True(t, row.Equal(pipe.Scalar("1")))
}

type fakeRemote struct {
	files map[string]string
}

func (f *fakeRemote) Download(_ context.Context, name string) (string, error) {
	dir, err := os.MkdirTemp("", "fake-remote")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(name))
	return path, os.WriteFile(path, []byte(f.files[name]), 0o644)
}

func (f *fakeRemote) Contents(_ context.Context, _ string) ([]string, error) {
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	return names, nil
}

func TestDownloadFromRemote(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{"report.json": `{"total": 3}`}}

	out := dl.Download(context.Background(), remote).
		Then(dl.ParseJSON()).
		Apply("report.json")

	require.Equal(t, pipe.KindMap, out.Kind())
	total, ok := out.Get("total")
	require.True(t, ok)
	assert.True(t, total.Equal(pipe.Scalar(3)))
}

func TestContentsRequiresRemote(t *testing.T) {
	warns := pipe.NewWarnings(nil)
	out := dl.Contents(context.Background(), nil, pipe.WithWarnings(warns)).Apply("/incoming")
	assert.True(t, out.IsNil())
	assert.Equal(t, 1, warns.Count())
}

func TestContentsListsRemote(t *testing.T) {
	remote := &fakeRemote{files: map[string]string{"x.csv": ""}}
	out := dl.Contents(context.Background(), remote).Apply("/incoming")
	require.Equal(t, 1, out.Len())
	assert.True(t, out.Items()[0].Equal(pipe.Scalar("x.csv")))
}

func TestParseXMLStage(t *testing.T) {
	path := writeFile(t, "items.xml",
		`<root><item><id>1</id></item><item><id>2</id></item></root>`)

	out := dl.ParseXML("item").Apply(path)
	require.Equal(t, pipe.KindSeq, out.Kind())
	assert.Equal(t, 2, out.Len())
}

func TestStringStages(t *testing.T) {
	out := dl.Strip("x+").
		Then(dl.Capitalize()).
		Apply("xxhello worldxx")
	s, ok := out.Str()
	require.True(t, ok)
	assert.Equal(t, "Hello World", s)
}

func TestSplitThenConcatFlattensWords(t *testing.T) {
	lines := []string{"one two", "three four"}
	out := pipe.MapPipe(dl.Split("")).
		Then(pipe.Concat(nil)).
		Apply(lines)

	require.Equal(t, pipe.KindSeq, out.Kind())
	words := make([]string, 0, out.Len())
	for _, item := range out.Items() {
		s, ok := item.Str()
		require.True(t, ok)
		words = append(words, s)
	}
	assert.Equal(t, []string{"one", "two", "three", "four"}, words)
}

func TestDateRoundTrip(t *testing.T) {
	out := dl.DateFromString("2006-01-02").Apply("2024-03-05 extra noise")
	when, ok := out.Time()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), when)

	rendered := dl.StringFromDate("02/01/2006").Apply(when)
	s, ok := rendered.Str()
	require.True(t, ok)
	assert.Equal(t, "05/03/2024", s)
}

func TestStageRejectsWrongShape(t *testing.T) {
	warns := pipe.NewWarnings(nil)
	out := dl.ParseCSV(',', pipe.WithWarnings(warns)).Apply([]int{1, 2, 3})
	assert.True(t, out.IsNil())
	assert.Equal(t, 1, warns.Count())
}
