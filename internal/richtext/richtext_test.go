package richtext

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBody = `[
  {"type":"paragraph","text":"Hello bold world","spans":[{"start":6,"end":10,"type":"strong"}]},
  {"type":"list-item","text":"one","spans":[]},
  {"type":"list-item","text":"two","spans":[]},
  {"type":"o-list-item","text":"first","spans":[]},
  {"type":"heading2","text":"Sub","spans":[]},
  {"type":"image","url":"https://images.prismic.io/a.png","alt":"banner","dimensions":{"width":10,"height":10}},
  {"type":"paragraph","text":"see docs","spans":[{"start":4,"end":8,"type":"hyperlink","data":{"link_type":"Web","url":"https://example.com"}}]},
  {"type":"mystery","text":"ignored"}
]`

func decode(t *testing.T, data string) Blocks {
	t.Helper()
	var b Blocks
	require.NoError(t, json.Unmarshal([]byte(data), &b))
	return b
}

func TestUnmarshal_TaggedVariant(t *testing.T) {
	b := decode(t, sampleBody)
	require.Len(t, b, 8)

	assert.Equal(t, KindParagraph, b[0].Kind)
	require.Len(t, b[0].Spans, 1)
	assert.Equal(t, SpanStrong, b[0].Spans[0].Kind)

	assert.Equal(t, KindImage, b[5].Kind)
	require.NotNil(t, b[5].Image)
	assert.Equal(t, "banner", b[5].Image.Alt)
	assert.Empty(t, b[5].PlainText())

	assert.Equal(t, SpanHyperlink, b[6].Spans[0].Kind)
	assert.Equal(t, "https://example.com", b[6].Spans[0].URL)

	assert.Equal(t, KindUnknown, b[7].Kind)
	assert.Empty(t, b[7].PlainText())
}

func TestBlocks_Text(t *testing.T) {
	b := decode(t, `[{"type":"paragraph","text":"one two"},{"type":"image","url":"x"},{"type":"paragraph","text":"three"}]`)
	assert.Equal(t, "one two\nthree", b.Text())
	assert.Empty(t, Blocks(nil).Text())
}

func TestHTMLRenderer_AsHTML(t *testing.T) {
	out := string(NewHTMLRenderer().AsHTML(decode(t, sampleBody)))

	assert.Contains(t, out, "<p>Hello <strong>bold</strong> world</p>")
	assert.Contains(t, out, "<ul><li>one</li><li>two</li></ul>")
	assert.Contains(t, out, "<ol><li>first</li></ol>")
	assert.Contains(t, out, "<h2>Sub</h2>")
	assert.Contains(t, out, `src="https://images.prismic.io/a.png"`)
	assert.Contains(t, out, `href="https://example.com"`)
	assert.Contains(t, out, "nofollow")
	assert.NotContains(t, out, "ignored")
}

func TestHTMLRenderer_EscapesAndSanitizes(t *testing.T) {
	b := Blocks{
		{Kind: KindParagraph, Text: "<script>alert(1)</script>"},
		{Kind: KindEmbed, Embed: &Embed{HTML: `<script>alert(2)</script><p>video</p>`}},
	}
	out := string(NewHTMLRenderer().AsHTML(b))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.Contains(t, out, "<p>video</p>")
}

func TestInline_NestedAndOutOfRangeSpans(t *testing.T) {
	n := Node{
		Kind: KindParagraph,
		Text: "abcdef",
		Spans: []Span{
			{Start: 0, End: 4, Kind: SpanStrong},
			{Start: 2, End: 99, Kind: SpanEm},
			{Start: 5, End: 3, Kind: SpanStrong},
		},
	}
	assert.Equal(t, "<strong>ab</strong><strong><em>cd</em></strong><em>ef</em>", inline(n))
}

func TestInline_UnicodeOffsets(t *testing.T) {
	n := Node{Kind: KindParagraph, Text: "ação rápida", Spans: []Span{{Start: 5, End: 11, Kind: SpanEm}}}
	assert.Equal(t, "ação <em>rápida</em>", inline(n))
}

func TestInline_Newlines(t *testing.T) {
	assert.Equal(t, "a<br />b", inline(Node{Kind: KindParagraph, Text: "a\nb"}))
}
