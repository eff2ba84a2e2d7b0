package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrFileTooLarge = errors.New("file exceeds the upload limit")
)

// Upload describes a stored file
type Upload struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FileStore persists uploaded attachments and returns a retrievable URL
type FileStore interface {
	Upload(ctx context.Context, folder, fileName string, content io.Reader) (*Upload, error)
}

// LocalFileStore writes files below Dir and serves them from BaseURL
type LocalFileStore struct {
	dir     string
	baseURL string
	maxSize int64
}

func NewLocalFileStore(dir, baseURL string, maxSize int64) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalFileStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: maxSize,
	}, nil
}

// Dir is the root directory the store writes to
func (s *LocalFileStore) Dir() string {
	return s.dir
}

func (s *LocalFileStore) Upload(ctx context.Context, folder, fileName string, content io.Reader) (*Upload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := sanitizeName(fileName)
	storedName := uuid.NewString() + path.Ext(name)
	folder = sanitizeName(folder)

	targetDir := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create folder: %w", err)
	}

	target := filepath.Join(targetDir, storedName)
	file, err := os.Create(target)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	reader := content
	if s.maxSize > 0 {
		reader = io.LimitReader(content, s.maxSize+1)
	}
	size, copyErr := io.Copy(file, reader)
	closeErr := file.Close()

	switch {
	case copyErr != nil:
		err = fmt.Errorf("failed to write file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("failed to close file: %w", closeErr)
	case size == 0:
		err = ErrEmptyFile
	case s.maxSize > 0 && size > s.maxSize:
		err = ErrFileTooLarge
	}
	if err != nil {
		_ = os.Remove(target)
		return nil, err
	}

	return &Upload{
		URL:  s.baseURL + "/" + url.PathEscape(folder) + "/" + storedName,
		Name: name,
		Size: size,
	}, nil
}

// sanitizeName keeps the last path element and drops anything that could escape the folder
func sanitizeName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "file"
	}
	return name
}
