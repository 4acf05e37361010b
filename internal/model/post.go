package model

import (
	"time"

	"spacetraveling/internal/richtext"
)

// 一覧に表示する記事の要約
type PostSummary struct {
	UID                  string          `json:"uid"`
	FirstPublicationDate *time.Time      `json:"first_publication_date"`
	Data                 PostSummaryData `json:"data"`
}

type PostSummaryData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
}

// 一覧のページネーション (NextPage が空なら終端)
type PostPagination struct {
	NextPage string        `json:"next_page"`
	Results  []PostSummary `json:"results"`
}

// 続きがあるか
func (p *PostPagination) HasMore() bool {
	return p != nil && p.NextPage != ""
}

// 記事詳細
type PostDetail struct {
	UID                  string         `json:"uid"`
	FirstPublicationDate *time.Time     `json:"first_publication_date"`
	Data                 PostDetailData `json:"data"`
}

type PostDetailData struct {
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Author   string    `json:"author"`
	Banner   Banner    `json:"banner"`
	Content  []Section `json:"content"`
}

type Banner struct {
	URL string `json:"url"`
}

// 見出しと本文ブロックの組
type Section struct {
	Heading string          `json:"heading"`
	Body    richtext.Blocks `json:"body"`
}
