package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"spacetraveling/pkg/logger"
)

// ディレクトリに書き出すページストア (静的ビルドの出力先)
type FSStore struct {
	root string
}

func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", root, err)
	}
	return &FSStore{root: root}, nil
}

func (s *FSStore) Root() string { return s.root }

func (s *FSStore) Get(_ context.Context, key string) (*Page, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	p := filepath.Join(s.root, filepath.FromSlash(key))
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", key, ErrPageNotFound)
		}
		return nil, fmt.Errorf("failed to stat page: %w", err)
	}

	body, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	return &Page{Key: key, Body: body, ContentType: htmlContentType, GeneratedAt: info.ModTime()}, nil
}

// 一時ファイルに書いてから rename する
func (s *FSStore) Put(_ context.Context, page *Page) error {
	if err := validateKey(page.Key); err != nil {
		return err
	}

	p := filepath.Join(s.root, filepath.FromSlash(page.Key))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("failed to create page directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p), ".page-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(page.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close page: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("failed to chmod page: %w", err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		return fmt.Errorf("failed to move page into place: %w", err)
	}
	if !page.GeneratedAt.IsZero() {
		if err := os.Chtimes(p, page.GeneratedAt, page.GeneratedAt); err != nil {
			return fmt.Errorf("failed to set page time: %w", err)
		}
	}

	logger.Info("successfully saved page", "path", p, "bytes", len(page.Body))
	return nil
}
