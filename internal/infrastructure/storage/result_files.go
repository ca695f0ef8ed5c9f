package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"porosity-bot/internal/domain/port"
)

const resultSuffix = "_analysis"

// FileResultStore складывает размеченные изображения в каталог результатов.
type FileResultStore struct {
	dir string
}

// NewFileResultStore создаёт хранилище и сам каталог, если его нет.
func NewFileResultStore(dir string) (*FileResultStore, error) {
	if dir == "" {
		return nil, errors.New("results directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &FileResultStore{dir: dir}, nil
}

// Dir возвращает каталог результатов
func (s *FileResultStore) Dir() string {
	return s.dir
}

// Save пишет data в <dir>/<stem>_analysis<ext> и возвращает путь.
func (s *FileResultStore) Save(ctx context.Context, sourceName string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := ResultName(sourceName)
	if name == "" {
		return "", errors.New("source name is empty")
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write result: %w", err)
	}
	return path, nil
}

// ResultName строит имя файла результата по имени исходника.
func ResultName(sourceName string) string {
	base := filepath.Base(sourceName)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return stem + resultSuffix + ext
}

var _ port.ResultStore = (*FileResultStore)(nil)
