package repository

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostKey(t *testing.T) {
	assert.Equal(t, "post/hello/index.html", PostKey("hello"))
	assert.NoError(t, validateKey(PostKey("hello")))
	assert.NoError(t, validateKey(HomeKey))

	for _, k := range []string{"", "/index.html", "../etc/passwd", "post//x", PostKey("../../x")} {
		assert.Error(t, validateKey(k), k)
	}
}

func TestFSStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s, err := NewFSStore(filepath.Join(root, "public"))
	require.NoError(t, err)

	_, err = s.Get(context.Background(), HomeKey)
	require.ErrorIs(t, err, ErrPageNotFound)

	at := time.Date(2021, 3, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(context.Background(), &Page{Key: PostKey("a"), Body: []byte("<h1>a</h1>"), GeneratedAt: at}))

	got, err := s.Get(context.Background(), PostKey("a"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>a</h1>", string(got.Body))
	assert.True(t, got.GeneratedAt.Equal(at))

	data, err := os.ReadFile(filepath.Join(root, "public", "post", "a", "index.html"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>a</h1>", string(data))

	require.Error(t, s.Put(context.Background(), &Page{Key: "../x"}))
}

type fakeS3 struct {
	objects map[string]*s3.PutObjectInput
	getErr  error
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	body, _ := io.ReadAll(obj.Body)
	obj.Body = bytes.NewReader(body)
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(body)),
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata,
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.objects[aws.ToString(in.Key)] = in
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_RoundTrip(t *testing.T) {
	fake := &fakeS3{objects: map[string]*s3.PutObjectInput{}}
	s := NewS3StoreWithClient(fake, "pages", "/site/")

	_, err := s.Get(context.Background(), HomeKey)
	require.ErrorIs(t, err, ErrPageNotFound)

	at := time.Date(2021, 3, 25, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Put(context.Background(), &Page{Key: HomeKey, Body: []byte("home"), GeneratedAt: at}))

	obj, ok := fake.objects["site/index.html"]
	require.True(t, ok)
	assert.Equal(t, "pages", aws.ToString(obj.Bucket))
	assert.Equal(t, htmlContentType, aws.ToString(obj.ContentType))

	got, err := s.Get(context.Background(), HomeKey)
	require.NoError(t, err)
	assert.Equal(t, "home", string(got.Body))
	assert.True(t, got.GeneratedAt.Equal(at))
}

func TestS3Store_GetError(t *testing.T) {
	fake := &fakeS3{getErr: errors.New("access denied")}
	_, err := NewS3StoreWithClient(fake, "pages", "").Get(context.Background(), HomeKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPageNotFound)
}
