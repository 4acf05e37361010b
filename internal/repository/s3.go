package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"spacetraveling/pkg/logger"
)

// 生成日時を保持するオブジェクトメタデータ
const generatedAtMeta = "generated-at"

// S3 に必要な操作
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 ベースのページストア
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// デフォルト設定で S3 ストアを生成
func NewS3Store(ctx context.Context, bucket, prefix string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, prefix), nil
}

func NewS3StoreWithClient(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// 404 エラーの判定
func isNotFoundError(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return err != nil && (errors.As(err, &noSuchKey) || errors.As(err, &notFound))
}

func (s *S3Store) objectKey(key string) string {
	if s.prefix == "" {
		return key
	}
	return s.prefix + "/" + key
}

// ページを取得
func (s *S3Store) Get(ctx context.Context, key string) (*Page, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	objectKey := s.objectKey(key)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("%s: %w", key, ErrPageNotFound)
		}
		logger.Error("failed to get page", "key", objectKey, "error", err)
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read page body: %w", err)
	}

	page := &Page{Key: key, Body: body, ContentType: aws.ToString(out.ContentType)}
	if v, ok := out.Metadata[generatedAtMeta]; ok {
		page.GeneratedAt, _ = time.Parse(time.RFC3339Nano, v)
	}
	if page.GeneratedAt.IsZero() && out.LastModified != nil {
		page.GeneratedAt = *out.LastModified
	}
	return page, nil
}

// ページを保存
func (s *S3Store) Put(ctx context.Context, page *Page) error {
	if err := validateKey(page.Key); err != nil {
		return err
	}

	contentType := page.ContentType
	if contentType == "" {
		contentType = htmlContentType
	}

	objectKey := s.objectKey(page.Key)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(page.Body),
		ContentType: aws.String(contentType),
		Metadata:    map[string]string{generatedAtMeta: page.GeneratedAt.UTC().Format(time.RFC3339Nano)},
	})
	if err != nil {
		logger.Error("failed to save page", "key", objectKey, "error", err)
		return fmt.Errorf("failed to save page: %w", err)
	}

	logger.Info("successfully saved page", "key", objectKey, "bytes", len(page.Body))
	return nil
}
