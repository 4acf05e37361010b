package post

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/internal/prismic"
	"spacetraveling/internal/richtext"
)

type fakeGateway struct {
	docs    map[string]string
	uids    []string
	listErr error
	types   []string
}

func (g *fakeGateway) QueryAllIdentifiers(_ context.Context, documentType string) ([]string, error) {
	g.types = append(g.types, documentType)
	return g.uids, g.listErr
}

func (g *fakeGateway) GetByIdentifier(_ context.Context, documentType, uid string) (*prismic.Document, error) {
	g.types = append(g.types, documentType)
	raw, ok := g.docs[uid]
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", documentType, uid, prismic.ErrNotFound)
	}
	var d prismic.Document
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// 本文ブロックのテキストをそのまま返すレンダラー
type textRenderer struct{}

func (textRenderer) AsHTML(b richtext.Blocks) template.HTML {
	return template.HTML(template.HTMLEscapeString(b.Text()))
}

const introPost = `{
  "uid": "intro", "first_publication_date": "2021-03-25T19:25:28+0000",
  "data": {
    "title": "Intro post", "author": "Ana",
    "content": [{"heading": "Intro", "body": [{"type":"paragraph","text":"one two three","spans":[]}]}]
  }
}`

func TestPaths(t *testing.T) {
	g := &fakeGateway{uids: []string{"a", "b"}}
	paths, err := New(g, textRenderer{}).Paths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, paths)
	assert.Equal(t, []string{DocumentType}, g.types)

	g.listErr = errors.New("down")
	_, err = New(g, textRenderer{}).Paths(context.Background())
	require.Error(t, err)
}

func TestGet_ReadingTimeAndSections(t *testing.T) {
	g := &fakeGateway{docs: map[string]string{"intro": introPost}}

	page, err := New(g, textRenderer{}).Get(context.Background(), "intro")
	require.NoError(t, err)

	assert.Equal(t, 1, page.ReadingTime)
	assert.Equal(t, 4, page.Post.WordCount())
	assert.Equal(t, "Intro post", page.Post.Data.Title)
	assert.Empty(t, page.Post.Data.Banner.URL)
	require.Len(t, page.Sections, 1)
	assert.Equal(t, "Intro", page.Sections[0].Heading)
	assert.Equal(t, template.HTML("one two three"), page.Sections[0].Body)
}

func TestGet_WithHTMLRenderer(t *testing.T) {
	g := &fakeGateway{docs: map[string]string{"intro": introPost}}

	page, err := New(g, richtext.NewHTMLRenderer()).Get(context.Background(), "intro")
	require.NoError(t, err)
	assert.Equal(t, template.HTML("<p>one two three</p>"), page.Sections[0].Body)
}

func TestGet_NotFound(t *testing.T) {
	g := &fakeGateway{docs: map[string]string{}}

	_, err := New(g, textRenderer{}).Get(context.Background(), "missing")
	require.ErrorIs(t, err, prismic.ErrNotFound)
}

func TestGet_BadData(t *testing.T) {
	g := &fakeGateway{docs: map[string]string{"broken": `{"uid":"broken","data":{"content":"nope"}}`}}

	_, err := New(g, textRenderer{}).Get(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, prismic.ErrNotFound)
}
