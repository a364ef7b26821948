// Package io loads documents from the local filesystem.
package io

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/loader"
)

// FileLoader reads documents from disk with caching. Sources may carry a
// "file://" prefix.
type FileLoader struct {
	cache *loader.Cache
}

func NewFileLoader() *FileLoader {
	return &FileLoader{cache: loader.NewCache()}
}

func (l *FileLoader) Load(ctx context.Context, source string) ([]byte, error) {
	path := strings.TrimPrefix(source, "file://")
	return l.cache.Do(path, func() ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", loader.ErrNotFound, err)
		}
		return data, err
	})
}
