package prismic

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
)

// 検索 API のレスポンス
type Response struct {
	Page             int        `json:"page"`
	ResultsPerPage   int        `json:"results_per_page"`
	TotalResultsSize int        `json:"total_results_size"`
	TotalPages       int        `json:"total_pages"`
	NextPage         *string    `json:"next_page"`
	PrevPage         *string    `json:"prev_page"`
	Results          []Document `json:"results"`
}

// 次ページのカーソル (無ければ空文字)
func (r *Response) Cursor() string {
	if r == nil || r.NextPage == nil {
		return ""
	}
	return *r.NextPage
}

// Prismic ドキュメント (data はドキュメント型ごとに解釈する)
type Document struct {
	ID                   string          `json:"id"`
	UID                  string          `json:"uid"`
	Type                 string          `json:"type"`
	Href                 string          `json:"href"`
	Tags                 []string        `json:"tags"`
	Lang                 string          `json:"lang"`
	FirstPublicationDate Timestamp       `json:"first_publication_date"`
	LastPublicationDate  Timestamp       `json:"last_publication_date"`
	Data                 json.RawMessage `json:"data"`
}

// data を v にデコード
func (d *Document) DecodeData(v any) error {
	if len(d.Data) == 0 {
		return fmt.Errorf("document %q has no data", d.ID)
	}
	if err := json.Unmarshal(d.Data, v); err != nil {
		return fmt.Errorf("failed to decode data of document %q: %w", d.ID, err)
	}
	return nil
}

// null 許容の公開日時 ("2021-03-25T19:25:28+0000" 形式)
type Timestamp struct {
	Time *time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil || *s == "" {
		t.Time = nil
		return nil
	}

	parsed, err := dateparse.ParseStrict(*s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", *s, err)
	}
	parsed = parsed.UTC()
	t.Time = &parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.Time == nil {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

// API ルートのレスポンス (ref の解決に使う)
type apiRoot struct {
	Refs []struct {
		ID          string `json:"id"`
		Ref         string `json:"ref"`
		Label       string `json:"label"`
		IsMasterRef bool   `json:"isMasterRef"`
	} `json:"refs"`
}
