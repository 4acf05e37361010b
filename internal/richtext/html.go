package richtext

import (
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// リッチテキストを表示用 HTML に変換するインターフェース
type Renderer interface {
	AsHTML(blocks Blocks) template.HTML
}

// サニタイズ済み HTML を生成するレンダラー
type HTMLRenderer struct {
	policy *bluemonday.Policy
}

func NewHTMLRenderer() *HTMLRenderer {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	p.AllowAttrs("class").OnElements("span", "div", "p")
	p.AllowElements("iframe")
	p.AllowAttrs("src", "width", "height", "title", "allowfullscreen").OnElements("iframe")

	return &HTMLRenderer{policy: p}
}

func (r *HTMLRenderer) AsHTML(blocks Blocks) template.HTML {
	var sb strings.Builder

	for i := 0; i < len(blocks); i++ {
		n := blocks[i]
		if n.Kind == KindListItem || n.Kind == KindOrderedListItem {
			tag := "ul"
			if n.Kind == KindOrderedListItem {
				tag = "ol"
			}
			sb.WriteString("<" + tag + ">")
			for ; i < len(blocks) && blocks[i].Kind == n.Kind; i++ {
				sb.WriteString("<li>" + inline(blocks[i]) + "</li>")
			}
			sb.WriteString("</" + tag + ">")
			i--
			continue
		}
		sb.WriteString(block(n))
	}

	return template.HTML(r.policy.Sanitize(sb.String()))
}

func block(n Node) string {
	switch n.Kind {
	case KindParagraph:
		return "<p>" + inline(n) + "</p>"
	case KindHeading1, KindHeading2, KindHeading3, KindHeading4, KindHeading5, KindHeading6:
		level := int(n.Kind-KindHeading1) + 1
		return fmt.Sprintf("<h%d>%s</h%d>", level, inline(n), level)
	case KindPreformatted:
		return "<pre>" + inline(n) + "</pre>"
	case KindImage:
		if n.Image == nil || n.Image.URL == "" {
			return ""
		}
		return fmt.Sprintf(`<p class="block-img"><img src="%s" alt="%s" /></p>`,
			html.EscapeString(n.Image.URL), html.EscapeString(n.Image.Alt))
	case KindEmbed:
		if n.Embed == nil || n.Embed.HTML == "" {
			return ""
		}
		return `<div class="embed">` + n.Embed.HTML + "</div>"
	}
	return ""
}

// span を適用したインライン HTML
func inline(n Node) string {
	runes := []rune(n.Text)
	size := len(runes)

	cuts := map[int]struct{}{0: {}, size: {}}
	spans := make([]Span, 0, len(n.Spans))
	for _, s := range n.Spans {
		s.Start, s.End = clamp(s.Start, size), clamp(s.End, size)
		if s.Start >= s.End {
			continue
		}
		spans = append(spans, s)
		cuts[s.Start] = struct{}{}
		cuts[s.End] = struct{}{}
	}

	points := make([]int, 0, len(cuts))
	for p := range cuts {
		points = append(points, p)
	}
	sort.Ints(points)

	var sb strings.Builder
	for i := 0; i+1 < len(points); i++ {
		from, to := points[i], points[i+1]
		segment := escape(string(runes[from:to]))

		var open, closing []string
		for _, s := range spans {
			if s.Start <= from && s.End >= to {
				o, c := tags(s)
				open = append(open, o)
				closing = append([]string{c}, closing...)
			}
		}
		sb.WriteString(strings.Join(open, ""))
		sb.WriteString(segment)
		sb.WriteString(strings.Join(closing, ""))
	}
	return sb.String()
}

func tags(s Span) (string, string) {
	switch s.Kind {
	case SpanStrong:
		return "<strong>", "</strong>"
	case SpanEm:
		return "<em>", "</em>"
	case SpanHyperlink:
		return `<a href="` + html.EscapeString(s.URL) + `">`, "</a>"
	case SpanLabel:
		return `<span class="` + html.EscapeString(s.Label) + `">`, "</span>"
	}
	return "", ""
}

func escape(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br />")
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v > size {
		return size
	}
	return v
}
