// Package doc extracts text from Word documents fetched by another loader.
package doc

import (
	"context"
	"net/url"
	"path"
	"strings"

	"github.com/OFFIS-RIT/docvis/pkg/loader"
)

// DocLoader wraps a loader and turns .docx sources into plain text. Other
// sources pass through untouched.
type DocLoader struct {
	loader loader.DocumentLoader
	cache  *loader.Cache
}

func NewDocLoader(inner loader.DocumentLoader) *DocLoader {
	return &DocLoader{
		loader: inner,
		cache:  loader.NewCache(),
	}
}

// IsDocx reports whether source names a .docx file. Query strings and
// fragments of URLs are ignored.
func IsDocx(source string) bool {
	p := source
	if u, err := url.Parse(source); err == nil && u.Scheme != "" && u.Path != "" {
		p = u.Path
	}
	return strings.EqualFold(path.Ext(p), ".docx")
}

func (l *DocLoader) Load(ctx context.Context, source string) ([]byte, error) {
	if !IsDocx(source) {
		return l.loader.Load(ctx, source)
	}
	return l.cache.Do(source, func() ([]byte, error) {
		content, err := l.loader.Load(ctx, source)
		if err != nil {
			return nil, err
		}
		return ExtractText(content)
	})
}
