// richtext は Prismic のリッチテキスト (構造化テキスト) を扱う。
//
// ノードは種別 (Kind) とペイロードを持つタグ付きバリアントとして表現する。
// ノードの中身を知るのはこのパッケージだけで、他のパッケージは
// Renderer と Text/PlainText を通してのみ利用する。
package richtext

import (
	"encoding/json"
	"strings"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindParagraph
	KindHeading1
	KindHeading2
	KindHeading3
	KindHeading4
	KindHeading5
	KindHeading6
	KindPreformatted
	KindListItem
	KindOrderedListItem
	KindImage
	KindEmbed
)

var kindNames = map[string]Kind{
	"paragraph":    KindParagraph,
	"heading1":     KindHeading1,
	"heading2":     KindHeading2,
	"heading3":     KindHeading3,
	"heading4":     KindHeading4,
	"heading5":     KindHeading5,
	"heading6":     KindHeading6,
	"preformatted": KindPreformatted,
	"list-item":    KindListItem,
	"o-list-item":  KindOrderedListItem,
	"image":        KindImage,
	"embed":        KindEmbed,
}

func (k Kind) String() string {
	for name, v := range kindNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

type SpanKind int

const (
	SpanUnknown SpanKind = iota
	SpanStrong
	SpanEm
	SpanHyperlink
	SpanLabel
)

// テキスト中の装飾範囲 ([Start, End) はルーン単位)
type Span struct {
	Start int
	End   int
	Kind  SpanKind
	URL   string
	Label string
}

type Image struct {
	URL string
	Alt string
}

type Embed struct {
	HTML     string
	Provider string
}

// リッチテキストの 1 ブロック
type Node struct {
	Kind  Kind
	Text  string
	Spans []Span
	Image *Image
	Embed *Embed
}

// ブロックの並び
type Blocks []Node

// ノードのプレーンテキスト (画像・埋め込みは空)
func (n Node) PlainText() string {
	switch n.Kind {
	case KindImage, KindEmbed, KindUnknown:
		return ""
	}
	return n.Text
}

// 全ブロックのプレーンテキストを改行で連結
func (b Blocks) Text() string {
	parts := make([]string, 0, len(b))
	for _, n := range b {
		if t := n.PlainText(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

type rawSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Type  string `json:"type"`
	Data  struct {
		URL   string `json:"url"`
		Label string `json:"label"`
	} `json:"data"`
}

type rawNode struct {
	Type   string    `json:"type"`
	Text   string    `json:"text"`
	Spans  []rawSpan `json:"spans"`
	URL    string    `json:"url"`
	Alt    string    `json:"alt"`
	OEmbed *struct {
		HTML         string `json:"html"`
		ProviderName string `json:"provider_name"`
	} `json:"oembed"`
}

func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*n = Node{Kind: kindNames[raw.Type], Text: raw.Text}

	switch n.Kind {
	case KindImage:
		n.Text = ""
		n.Image = &Image{URL: raw.URL, Alt: raw.Alt}
	case KindEmbed:
		n.Text = ""
		n.Embed = &Embed{}
		if raw.OEmbed != nil {
			n.Embed.HTML = raw.OEmbed.HTML
			n.Embed.Provider = raw.OEmbed.ProviderName
		}
	}

	for _, s := range raw.Spans {
		span := Span{Start: s.Start, End: s.End}
		switch s.Type {
		case "strong":
			span.Kind = SpanStrong
		case "em":
			span.Kind = SpanEm
		case "hyperlink":
			span.Kind = SpanHyperlink
			span.URL = s.Data.URL
		case "label":
			span.Kind = SpanLabel
			span.Label = s.Data.Label
		default:
			continue
		}
		n.Spans = append(n.Spans, span)
	}
	return nil
}
