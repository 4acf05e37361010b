package main

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/internal/repository"
	"spacetraveling/internal/site"
	"spacetraveling/internal/site/sitetest"
)

func TestHandleEvent(t *testing.T) {
	src := sitetest.NewSource()
	src.AddPost("como-utilizar-hooks", "Como utilizar Hooks", "Texto")
	pub, store := sitetest.NewPublisher(t, src, site.Options{})

	report, err := (&handler{pub: pub}).handleEvent(context.Background(), events.CloudWatchEvent{ID: "evt-1"})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Pages)

	_, err = store.Get(context.Background(), repository.PostKey("como-utilizar-hooks"))
	assert.NoError(t, err)
}

func TestHandleEvent_Failure(t *testing.T) {
	src := sitetest.NewSource()
	src.ListErr = errors.New("prismic down")
	pub, _ := sitetest.NewPublisher(t, src, site.Options{})

	_, err := (&handler{pub: pub}).handleEvent(context.Background(), events.CloudWatchEvent{})
	assert.Error(t, err)
}
