package tourguide_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/livetemplate/tourguide"
	"github.com/livetemplate/tourguide/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExampleLanding(t *testing.T) {
	page, err := tourguide.ParseFile(filepath.Join("examples", "landing", "index.md"))
	require.NoError(t, err)

	assert.Equal(t, "Acme Analytics", page.Title)
	assert.Equal(t, "index.md", page.ID)
	require.Len(t, page.Steps, 4)
	assert.Equal(t, tourguide.PositionRight, page.Steps[1].Position)
	assert.Equal(t, tourguide.DefaultHighlightClass, page.Tour.HighlightClass)

	doc, err := dom.ParseString(page.StaticHTML)
	require.NoError(t, err)
	for _, step := range page.Steps {
		el, err := doc.Query(step.Target)
		require.NoError(t, err)
		assert.NotNil(t, el, "step %d target %s should exist in the page", step.StepIndex, step.Target)
	}
}

func TestParseStringDefaults(t *testing.T) {
	page, err := tourguide.ParseString("---\ntitle: Hi\ntour:\n  auto_start: true\n  highlight_class: glow\n  steps:\n    - step: 0\n      target: \"#a\"\n      title: A\n---\n\n<div id=\"a\">A</div>\n")
	require.NoError(t, err)

	assert.True(t, page.Tour.AutoStart)
	assert.Equal(t, "glow", page.Tour.HighlightClass)
	require.Len(t, page.Steps, 1)
	assert.Equal(t, tourguide.PositionBottom, page.Steps[0].Position)
	assert.Contains(t, page.StaticHTML, `<div id="a">A</div>`)
}

func TestParseWithoutFrontmatter(t *testing.T) {
	page, err := tourguide.ParseString("# Plain page\n")
	require.NoError(t, err)
	assert.Empty(t, page.Steps)
	assert.Contains(t, page.StaticHTML, `<h1 id="plain-page">Plain page</h1>`)
}

func TestParseUnclosedFrontmatter(t *testing.T) {
	_, err := tourguide.ParseString("---\ntitle: broken\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unclosed frontmatter")
}

func TestParseRejectsUnknownPosition(t *testing.T) {
	path := writePage(t, "---\ntitle: X\ntour:\n  steps:\n    - step: 0\n      target: \"#a\"\n      position: middle\n---\n")

	_, err := tourguide.ParseFile(path)
	require.Error(t, err)

	var perr *tourguide.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 5, perr.Line)
	assert.Contains(t, perr.Message, `unknown position "middle"`)
	assert.Contains(t, perr.Hint, "top, bottom, left, right, center")
}

func TestParseRejectsDuplicateStep(t *testing.T) {
	path := writePage(t, "---\ntour:\n  steps:\n    - step: 0\n      target: \"#a\"\n    - step: 0\n      target: \"#b\"\n---\n")

	_, err := tourguide.ParseFile(path)
	var perr *tourguide.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 6, perr.Line)
	assert.Contains(t, perr.Message, "Duplicate step index 0")
	assert.Contains(t, perr.Related, "line 4")
}

func TestParseRejectsMissingTarget(t *testing.T) {
	_, err := tourguide.ParseString("---\ntour:\n  steps:\n    - step: 0\n      title: nowhere\n---\n")
	var perr *tourguide.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "no target selector")
}

func TestRenderStepContent(t *testing.T) {
	out, err := tourguide.RenderStepContent("Use `acme login` then *relax*.")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<code>acme login</code>")
	assert.Contains(t, string(out), "<em>relax</em>")
}

func writePage(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
