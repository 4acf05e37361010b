package model

import (
	"fmt"

	"spacetraveling/internal/prismic"
	"spacetraveling/internal/richtext"
)

// posts 型ドキュメントの data
type rawPostData struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Author   string `json:"author"`
	Banner   *struct {
		URL string `json:"url"`
	} `json:"banner"`
	Content []struct {
		Heading string          `json:"heading"`
		Body    richtext.Blocks `json:"body"`
	} `json:"content"`
}

// ドキュメントを要約に変換
func SummaryFromDocument(doc prismic.Document) (PostSummary, error) {
	var data rawPostData
	if err := doc.DecodeData(&data); err != nil {
		return PostSummary{}, err
	}

	return PostSummary{
		UID:                  doc.UID,
		FirstPublicationDate: doc.FirstPublicationDate.Time,
		Data: PostSummaryData{
			Title:    data.Title,
			Subtitle: data.Subtitle,
			Author:   data.Author,
		},
	}, nil
}

// 検索結果を一覧に変換
func PaginationFromResponse(resp *prismic.Response) (*PostPagination, error) {
	if resp == nil {
		return nil, fmt.Errorf("empty response")
	}

	posts := make([]PostSummary, 0, len(resp.Results))
	for _, doc := range resp.Results {
		post, err := SummaryFromDocument(doc)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	return &PostPagination{NextPage: resp.Cursor(), Results: posts}, nil
}

// ドキュメントを記事詳細に変換 (バナー無しは空の URL)
func DetailFromDocument(doc prismic.Document) (*PostDetail, error) {
	var data rawPostData
	if err := doc.DecodeData(&data); err != nil {
		return nil, err
	}

	post := &PostDetail{
		UID:                  doc.UID,
		FirstPublicationDate: doc.FirstPublicationDate.Time,
		Data: PostDetailData{
			Title:    data.Title,
			Subtitle: data.Subtitle,
			Author:   data.Author,
			Content:  make([]Section, 0, len(data.Content)),
		},
	}
	if data.Banner != nil {
		post.Data.Banner.URL = data.Banner.URL
	}
	for _, c := range data.Content {
		post.Data.Content = append(post.Data.Content, Section{Heading: c.Heading, Body: c.Body})
	}

	return post, nil
}
