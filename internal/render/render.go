// render はページの HTML と「もっと読む」の JSON を組み立てる。
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"spacetraveling/internal/model"
	"spacetraveling/internal/post"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"home", "post", "fallback", "notfound", "error"}

type Options struct {
	SiteTitle string
	Locale    string
	Location  *time.Location
}

type Renderer struct {
	opts      Options
	templates map[string]*template.Template
}

func New(opts Options) (*Renderer, error) {
	if opts.SiteTitle == "" {
		opts.SiteTitle = "spacetraveling"
	}
	if opts.Locale == "" {
		opts.Locale = "pt-BR"
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}

	base, err := template.ParseFS(templateFS, "templates/layout.html", "templates/summary.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layout: %w", err)
	}

	r := &Renderer{opts: opts, templates: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.Must(base.Clone()).ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// 一覧の 1 件 (表示用の日付付き)
type SummaryView struct {
	UID                  string                `json:"uid"`
	FirstPublicationDate *time.Time            `json:"first_publication_date"`
	Date                 string                `json:"date"`
	Data                 model.PostSummaryData `json:"data"`
}

// /api/posts のレスポンス
type LoadMoreResponse struct {
	Results  []SummaryView `json:"results"`
	NextPage *string       `json:"next_page"`
}

type layoutView struct {
	Lang      string
	SiteTitle string
	PageTitle string
}

type homeView struct {
	layoutView
	Posts    []SummaryView
	NextPage string
}

type postView struct {
	layoutView
	Title       string
	Author      string
	Date        string
	BannerURL   string
	ReadingTime int
	Sections    []post.Section
}

func (r *Renderer) layout(title string) layoutView {
	return layoutView{Lang: r.opts.Locale, SiteTitle: r.opts.SiteTitle, PageTitle: title}
}

func (r *Renderer) summaries(posts []model.PostSummary) []SummaryView {
	views := make([]SummaryView, 0, len(posts))
	for _, p := range posts {
		views = append(views, SummaryView{
			UID:                  p.UID,
			FirstPublicationDate: p.FirstPublicationDate,
			Date:                 r.Date(p.FirstPublicationDate),
			Data:                 p.Data,
		})
	}
	return views
}

// 設定のロケールで日付を整形
func (r *Renderer) Date(t *time.Time) string {
	return FormatDate(t, r.opts.Locale, r.opts.Location)
}

// トップページ
func (r *Renderer) Home(page *model.PostPagination) ([]byte, error) {
	if page == nil {
		page = &model.PostPagination{}
	}
	return r.execute("home", homeView{
		layoutView: r.layout("Home"),
		Posts:      r.summaries(page.Results),
		NextPage:   page.NextPage,
	})
}

// 記事ページ
func (r *Renderer) Post(page *post.Page) ([]byte, error) {
	if page == nil || page.Post == nil {
		return nil, fmt.Errorf("empty post page")
	}
	p := page.Post
	return r.execute("post", postView{
		layoutView:  r.layout(p.Data.Title),
		Title:       p.Data.Title,
		Author:      p.Data.Author,
		Date:        r.Date(p.FirstPublicationDate),
		BannerURL:   p.Data.Banner.URL,
		ReadingTime: page.ReadingTime,
		Sections:    page.Sections,
	})
}

// 生成中のプレースホルダー
func (r *Renderer) Fallback() ([]byte, error) {
	return r.execute("fallback", r.layout("Carregando"))
}

func (r *Renderer) NotFound() ([]byte, error) {
	return r.execute("notfound", r.layout("Não encontrado"))
}

func (r *Renderer) Error() ([]byte, error) {
	return r.execute("error", r.layout("Erro"))
}

// 「もっと読む」の JSON 本体
func (r *Renderer) LoadMore(page *model.PostPagination) LoadMoreResponse {
	resp := LoadMoreResponse{Results: r.summaries(page.Results)}
	if page.HasMore() {
		next := page.NextPage
		resp.NextPage = &next
	}
	return resp
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return []byte(strings.TrimSpace(buf.String()) + "\n"), nil
}
