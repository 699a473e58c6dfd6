package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXMLFindsTagAtFirstDepth(t *testing.T) {
	path := writeFile(t, "data.xml", `
<root>
  <items>
    <item><id>1</id><name>one</name></item>
    <item><id>2</id><name>two</name></item>
  </items>
</root>`)
	matched, err := XML(path, "item")
	require.NoError(t, err)
	require.Len(t, matched, 2)

	first, ok := matched[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, "one", first["name"])
}

func TestXMLTextOnlyElement(t *testing.T) {
	path := writeFile(t, "data.xml", `<root><name>solo</name></root>`)
	matched, err := XML(path, "name")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, "solo", matched[0])
}

func TestXMLCollapsesSameTagSiblings(t *testing.T) {
	path := writeFile(t, "data.xml", `
<root>
  <list>
    <v>1</v><v>2</v><v>3</v>
  </list>
</root>`)
	matched, err := XML(path, "list")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	m, ok := matched[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"1", "2", "3"}, m["v"])
}

func TestXMLMissingTag(t *testing.T) {
	path := writeFile(t, "data.xml", `<root><a>1</a></root>`)
	matched, err := XML(path, "nope")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestXMLToMap(t *testing.T) {
	path := writeFile(t, "data.xml", `<config><host>h</host><port>21</port></config>`)
	v, err := XMLToMap(path)
	require.NoError(t, err)
	m, ok := v.(map[string]any)
	require.True(t, ok)
	inner, ok := m["config"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "h", inner["host"])
	assert.Equal(t, "21", inner["port"])
}

func TestXMLMalformed(t *testing.T) {
	path := writeFile(t, "bad.xml", `<root><unclosed>`)
	_, err := XML(path, "x")
	assert.Error(t, err)
}
