package feed

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Indentation(t *testing.T) {
	root := NewElement("feed").SetAttr("xmlns:g", GoogleNamespace)
	root.AddText("title", "Smith & Sons")
	root.AddChild("link").SetAttr("href", "https://example.com").SetAttr("rel", "self")
	fulfillment := root.AddChild("g:vehicle_fulfillment")
	fulfillment.AddText("g:option", "in_store")

	out, err := Render(root)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns:g="http://base.google.com/ns/1.0">
  <title>Smith &amp; Sons</title>
  <link href="https://example.com" rel="self"/>
  <g:vehicle_fulfillment>
    <g:option>in_store</g:option>
  </g:vehicle_fulfillment>
</feed>
`
	assert.Equal(t, want, string(out))
}

func TestRender_EscapesOnlyMarkup(t *testing.T) {
	root := NewElement("listing")
	root.AddText("title", `2024 Honda Civic Driver's "Ed" <LX> & more`)
	root.AddChild("image").SetAttr("tag", `say "hi" & <go>`)
	root.AddText("description", "bell\x07")

	out, err := Render(root)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<listing>
  <title>2024 Honda Civic Driver's "Ed" &lt;LX&gt; &amp; more</title>
  <image tag="say &quot;hi&quot; &amp; &lt;go&gt;"/>
` + "  <description>bell\uFFFD</description>\n</listing>\n"
	assert.Equal(t, want, string(out))

	parsed, err := Parse(strings.NewReader(string(out)))
	require.NoError(t, err)
	assert.Equal(t, `2024 Honda Civic Driver's "Ed" <LX> & more`, parsed.ChildText("title"))

	tag, ok := parsed.Find("image").Attr("tag")
	require.True(t, ok)
	assert.Equal(t, `say "hi" & <go>`, tag)
}

func TestRender_Nil(t *testing.T) {
	_, err := Render(nil)
	assert.True(t, errors.Is(err, ErrEmptyDocument))
}

func TestParse_RoundTrip(t *testing.T) {
	root := NewElement("feed").SetAttr("xmlns", AtomNamespace).SetAttr("xmlns:g", GoogleNamespace)
	entry := root.AddChild("entry")
	entry.AddText("g:price", "100.00 USD")
	entry.AddText("title", "Tom's <Car>")

	out, err := Render(root)
	require.NoError(t, err)

	parsed, err := Parse(strings.NewReader(string(out)))
	require.NoError(t, err)

	assert.Equal(t, "feed", parsed.Name)
	ns, ok := parsed.Attr("xmlns:g")
	require.True(t, ok)
	assert.Equal(t, GoogleNamespace, ns)

	entries := parsed.FindAll("entry")
	require.Len(t, entries, 1)
	assert.Equal(t, "100.00 USD", entries[0].ChildText("g:price"))
	assert.Equal(t, "Tom's <Car>", entries[0].ChildText("title"))
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmptyDocument))

	_, err = Parse(strings.NewReader("<a><b></a"))
	assert.Error(t, err)
}

func TestElement_Lookups(t *testing.T) {
	root := NewElement("listing")
	root.AddText("image", "1")
	root.AddText("image", "2")
	root.AddTextIf("trim", "  ")

	assert.Len(t, root.FindAll("image"), 2)
	assert.Equal(t, "1", root.ChildText("image"))
	assert.Nil(t, root.Find("trim"))
	assert.Equal(t, "", root.ChildText("missing"))

	_, ok := root.Attr("format")
	assert.False(t, ok)
}
