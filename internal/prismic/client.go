// prismic は Prismic REST API v2 のクライアント (コンテンツゲートウェイ)。
package prismic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"spacetraveling/internal/metrics"
	"spacetraveling/pkg/logger"
)

const (
	defaultOrdering = "[document.first_publication_date desc]"
	maxPageSize     = 100
	maxErrorBody    = 512
)

type Options struct {
	Endpoint    string
	AccessToken string
	HTTPClient  *http.Client
	// 0 以下なら無制限
	RequestsPerSecond float64
}

// コンテンツゲートウェイ
type Client struct {
	endpoint *url.URL
	token    string
	http     *http.Client
	limiter  *rate.Limiter
}

// クライアントを生成 (エンドポイント・トークン不備は ErrConfiguration)
func New(opts Options) (*Client, error) {
	if opts.Endpoint == "" || opts.AccessToken == "" {
		return nil, fmt.Errorf("%w: endpoint and access token are required", ErrConfiguration)
	}

	u, err := url.Parse(strings.TrimRight(opts.Endpoint, "/"))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid endpoint %q", ErrConfiguration, opts.Endpoint)
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	return &Client{endpoint: u, token: opts.AccessToken, http: hc, limiter: limiter}, nil
}

// 検索条件
type Query struct {
	Predicates []string
	PageSize   int
	Orderings  string
}

// document.type 完全一致の述語
func AtDocumentType(documentType string) string {
	return fmt.Sprintf(`[at(document.type,%s)]`, strconv.Quote(documentType))
}

// my.{type}.uid 完全一致の述語
func AtUID(documentType, uid string) string {
	return fmt.Sprintf(`[at(my.%s.uid,%s)]`, documentType, strconv.Quote(uid))
}

// 全ドキュメントの先頭ページを取得
func (c *Client) QueryList(ctx context.Context, pageSize int) (*Response, error) {
	return c.Query(ctx, Query{PageSize: pageSize, Orderings: defaultOrdering})
}

// next_page の URL から続きを取得
func (c *Client) FetchByCursor(ctx context.Context, cursor string) (*Response, error) {
	u, err := c.cursorURL(cursor)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := c.get(ctx, "fetch_by_cursor", u, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// 指定型の全 UID を列挙
func (c *Client) QueryAllIdentifiers(ctx context.Context, documentType string) ([]string, error) {
	resp, err := c.Query(ctx, Query{
		Predicates: []string{AtDocumentType(documentType)},
		PageSize:   maxPageSize,
		Orderings:  defaultOrdering,
	})
	if err != nil {
		return nil, err
	}

	var uids []string
	for {
		for _, doc := range resp.Results {
			if doc.UID != "" {
				uids = append(uids, doc.UID)
			}
		}
		next := resp.Cursor()
		if next == "" {
			break
		}
		if resp, err = c.FetchByCursor(ctx, next); err != nil {
			return nil, err
		}
	}

	logger.Info("listed document identifiers", "type", documentType, "count", len(uids))
	return uids, nil
}

// UID でドキュメントを取得 (なければ ErrNotFound)
func (c *Client) GetByIdentifier(ctx context.Context, documentType, uid string) (*Document, error) {
	resp, err := c.Query(ctx, Query{Predicates: []string{AtUID(documentType, uid)}, PageSize: 1})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, fmt.Errorf("%s %q: %w", documentType, uid, ErrNotFound)
	}
	return &resp.Results[0], nil
}

// master ref を解決して検索
func (c *Client) Query(ctx context.Context, q Query) (*Response, error) {
	ref, err := c.masterRef(ctx)
	if err != nil {
		return nil, err
	}

	u := *c.endpoint
	u.Path += "/documents/search"
	params := url.Values{}
	params.Set("ref", ref)
	if len(q.Predicates) > 0 {
		params.Set("q", "["+strings.Join(q.Predicates, "")+"]")
	}
	if q.PageSize > 0 {
		params.Set("pageSize", strconv.Itoa(min(q.PageSize, maxPageSize)))
	}
	if q.Orderings != "" {
		params.Set("orderings", q.Orderings)
	}
	params.Set("access_token", c.token)
	u.RawQuery = params.Encode()

	var resp Response
	if err := c.get(ctx, "query", &u, &resp); err != nil {
		return nil, err
	}
	logger.Debug("prismic query served", "predicates", q.Predicates, "results", len(resp.Results), "next_page", resp.Cursor())
	return &resp, nil
}

func (c *Client) masterRef(ctx context.Context) (string, error) {
	u := *c.endpoint
	u.RawQuery = url.Values{"access_token": {c.token}}.Encode()

	var root apiRoot
	if err := c.get(ctx, "api", &u, &root); err != nil {
		return "", err
	}
	for _, r := range root.Refs {
		if r.IsMasterRef {
			return r.Ref, nil
		}
	}
	return "", &TransportError{Op: "api", Err: fmt.Errorf("master ref not found")}
}

// カーソルはエンドポイントと同じホストに限る
func (c *Client) cursorURL(cursor string) (*url.URL, error) {
	u, err := url.Parse(cursor)
	if err != nil || !u.IsAbs() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	if u.Scheme != c.endpoint.Scheme || u.Host != c.endpoint.Host {
		return nil, fmt.Errorf("%w: host %q does not match endpoint", ErrInvalidCursor, u.Host)
	}

	params := u.Query()
	if params.Get("access_token") == "" {
		params.Set("access_token", c.token)
		u.RawQuery = params.Encode()
	}
	return u, nil
}

func (c *Client) get(ctx context.Context, op string, u *url.URL, out any) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveContentRequest(op, err, time.Since(start)) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Op: op, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Error("prismic request failed", "op", op, "host", u.Host, "error", err)
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		logger.Error("prismic returned error status", "op", op, "status", resp.StatusCode)
		return &SourceError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
