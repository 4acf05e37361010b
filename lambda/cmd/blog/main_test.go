package main

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/internal/site"
	"spacetraveling/internal/site/sitetest"
)

const nextCursor = "https://spacetraveling.cdn.prismic.io/api/v2/documents/search?page=2"

func newHandler(t *testing.T) *handler {
	t.Helper()
	src := sitetest.NewSource()
	src.AddPost("como-utilizar-hooks", "Como utilizar Hooks", "Pensando em sincronização")
	src.AddPost("criando-um-app", "Criando um app CRA do zero", "Tudo sobre como criar")
	src.AddPost("mais-um-post", "Mais um post", "Texto")
	src.AddCursor(nextCursor, "", "mais-um-post")

	pub, _ := sitetest.NewPublisher(t, src, site.Options{CacheTTL: 24 * time.Hour})
	return &handler{pub: pub}
}

func get(t *testing.T, h *handler, path string, query map[string]string) events.APIGatewayProxyResponse {
	t.Helper()
	resp, err := h.handleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod:            http.MethodGet,
		Path:                  path,
		QueryStringParameters: query,
	})
	require.NoError(t, err)
	return resp
}

func TestHandleRequest_Home(t *testing.T) {
	resp := get(t, newHandler(t), "/", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", resp.Headers["Content-Type"])
	assert.Equal(t, "public, s-maxage=86400, stale-while-revalidate", resp.Headers["Cache-Control"])
	assert.Contains(t, resp.Body, "Como utilizar Hooks")
	assert.Contains(t, resp.Body, "Carregar mais posts")
}

func TestHandleRequest_Post(t *testing.T) {
	h := newHandler(t)

	resp := get(t, h, "/post/criando-um-app", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, "Criando um app CRA do zero")

	resp = get(t, h, "/post/nao-existe", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Body, "Post não encontrado")
	assert.Equal(t, "no-store", resp.Headers["Cache-Control"])
}

func TestHandleRequest_LoadMore(t *testing.T) {
	h := newHandler(t)

	resp := get(t, h, "/api/posts", map[string]string{"cursor": nextCursor})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])

	var body struct {
		Results []struct {
			UID  string `json:"uid"`
			Date string `json:"date"`
		} `json:"results"`
		NextPage *string `json:"next_page"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	require.Len(t, body.Results, 1)
	assert.Equal(t, "mais-um-post", body.Results[0].UID)
	assert.Nil(t, body.NextPage)

	resp = get(t, h, "/api/posts", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"error":"invalid cursor"}`, resp.Body)
}

func TestHandleRequest_UnknownRoute(t *testing.T) {
	resp := get(t, newHandler(t), "/about", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandleRequest_MethodNotAllowed(t *testing.T) {
	resp, err := newHandler(t).handleRequest(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: http.MethodPost,
		Path:       "/",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
