package dom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const landing = `<section id="hero" class="hero"><h1>Ship faster</h1></section>
<section id="features"><ul><li class="feature">One</li><li class="feature">Two</li></ul></section>
<a id="cta" class="btn btn-primary" href="/signup">Sign up</a>`

func TestQueryFindsElement(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	el, err := doc.Query("#hero")
	require.NoError(t, err)
	require.NotNil(t, el)

	n, err := doc.Count(".feature")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestQueryMissingReturnsNilInterface(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	el, err := doc.Query("#pricing")
	require.NoError(t, err)
	// A typed nil would make el != nil.
	assert.True(t, el == nil)
}

func TestQueryInvalidSelector(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	_, err = doc.Query("#hero[")
	assert.Error(t, err)
}

func TestAddRemoveClass(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	cta, err := doc.Find("#cta")
	require.NoError(t, err)

	cta.AddClass("tour-highlight")
	cta.AddClass("tour-highlight")
	assert.Equal(t, "btn btn-primary tour-highlight", cta.Attr("class"))

	cta.RemoveClass("tour-highlight")
	assert.Equal(t, "btn btn-primary", cta.Attr("class"))
	assert.False(t, cta.HasClass("tour-highlight"))
}

func TestRemoveClassDropsEmptyAttribute(t *testing.T) {
	doc, err := ParseString(`<div id="plain"></div>`)
	require.NoError(t, err)

	el, err := doc.Find("#plain")
	require.NoError(t, err)
	el.AddClass("tour-highlight")
	el.RemoveClass("tour-highlight")

	body, err := doc.BodyHTML()
	require.NoError(t, err)
	assert.Equal(t, `<div id="plain"></div>`, body)
}

func TestStaleHandleIsHarmless(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	hero, err := doc.Find("#hero")
	require.NoError(t, err)
	hero.AddClass("tour-highlight")

	removed, err := doc.Remove("#hero")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, hero.Attached())

	assert.NotPanics(t, func() { hero.RemoveClass("tour-highlight") })
	assert.False(t, hero.HasClass("tour-highlight"))

	again, err := doc.Query("#hero")
	require.NoError(t, err)
	assert.True(t, again == nil)
}

func TestBodyHTMLReflectsHighlight(t *testing.T) {
	doc, err := ParseString(landing)
	require.NoError(t, err)

	el, err := doc.Find("#features")
	require.NoError(t, err)
	el.AddClass("tour-highlight")

	body, err := doc.BodyHTML()
	require.NoError(t, err)
	assert.Contains(t, body, `<section id="features" class="tour-highlight">`)
}
