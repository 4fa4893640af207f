package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/user/retroboard/internal/types"
)

func TestNewExporter(t *testing.T) {
	for format, want := range map[string]string{
		"json":     "retrospective.json",
		"jira":     "retrospective-jira.txt",
		"yaml":     "retrospective.yaml",
		"markdown": "retrospective.md",
	} {
		exp, err := NewExporter(format)
		require.NoError(t, err, format)
		assert.Equal(t, want, exp.Filename())
	}

	_, err := NewExporter("csv")
	assert.Error(t, err)
}

func TestJSONExporterPassthrough(t *testing.T) {
	created := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	items := []*types.Item{
		{ID: 2, Category: types.Ideas, Text: "second", Votes: 3, CreatedAt: created},
		{ID: 1, Category: types.WentWell, Text: "first", CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(items, &buf))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, float64(2), got[0]["id"])
	assert.Equal(t, "ideas", got[0]["category"])
	assert.Equal(t, float64(3), got[0]["votes"])
	assert.Equal(t, "2025-03-14T09:00:00Z", got[0]["createdAt"])
	assert.Equal(t, "first", got[1]["text"])
}

func TestJSONExporterEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&JSONExporter{}).Export(nil, &buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLExporterGroups(t *testing.T) {
	items := []*types.Item{
		{ID: 1, Category: types.WentWell, Text: "A"},
		{ID: 2, Category: types.ActionItems, Text: "C"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&YAMLExporter{}).Export(items, &buf))

	var got map[string][]map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got["went-well"], 1)
	assert.Equal(t, "A", got["went-well"][0]["text"])
	assert.Empty(t, got["ideas"])
	require.Len(t, got["action-items"], 1)
}

func TestMarkdownExporter(t *testing.T) {
	items := []*types.Item{
		{ID: 1, Category: types.WentWell, Text: "A", Votes: 2},
		{ID: 2, Category: types.Ideas, Text: "B"},
	}

	var buf bytes.Buffer
	require.NoError(t, (&MarkdownExporter{}).Export(items, &buf))
	out := buf.String()
	assert.Contains(t, out, "## Went Well\n\n- A (+2)\n")
	assert.Contains(t, out, "## Didn't Go Well\n\n_Nothing recorded._\n")
	assert.Contains(t, out, "## Ideas\n\n- B\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestExportersReturnWriteErrors(t *testing.T) {
	items := []*types.Item{
		{ID: 1, Category: types.WentWell, Text: "demo", Votes: 1},
		{ID: 2, Category: types.ActionItems, Text: "fix ci"},
	}
	for _, format := range []string{"json", "jira", "yaml", "markdown"} {
		t.Run(format, func(t *testing.T) {
			exp, err := NewExporter(format)
			require.NoError(t, err)
			assert.ErrorContains(t, exp.Export(items, failingWriter{}), "disk full")
		})
	}
}
