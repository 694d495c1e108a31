package scan

import (
	"bytes"
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/meigma/reasset/pak"
)

// PathHit is a path string found inside some entry.
type PathHit struct {
	Path string

	// Index is the entry the path resolves to; valid only when Found.
	Index pak.Index
	Found bool
}

// String formats the hit as "path $ index", or "path $ -" when the path
// does not resolve.
func (h PathHit) String() string {
	if !h.Found {
		return h.Path + " $ -"
	}
	return fmt.Sprintf("%s $ %d", h.Path, h.Index)
}

// Paths searches every entry for UTF-16 strings that end in one of the
// configured extensions followed by a terminator, and resolves each with
// Find. The string is taken to start after the nearest preceding unit that
// is not printable ASCII. Results are deduplicated and sorted by path.
func Paths(ctx context.Context, a Archive, opts ...Option) ([]PathHit, error) {
	cfg := newConfig(opts)
	patterns := make([][]byte, len(cfg.extensions))
	for i, ext := range cfg.extensions {
		patterns[i] = utf16Suffix(ext)
	}

	var mu sync.Mutex
	found := make(map[string]struct{})
	err := forEach(ctx, a, cfg, StagePaths, func(_ int, data []byte) error {
		var local []string
		for _, p := range patterns {
			local = append(local, searchSuffix(data, p)...)
		}
		mu.Lock()
		defer mu.Unlock()
		for _, s := range local {
			found[s] = struct{}{}
		}
		return nil
	}, func(int, error) {})
	if err != nil {
		return nil, err
	}

	hits := make([]PathHit, 0, len(found))
	for path := range found {
		hit := PathHit{Path: path}
		index, _, err := a.Find(path)
		switch {
		case err == nil:
			hit.Index, hit.Found = index, true
		case !errors.Is(err, pak.ErrNotFound):
			return nil, fmt.Errorf("scan: resolving %q: %w", path, err)
		}
		hits = append(hits, hit)
	}
	slices.SortFunc(hits, func(x, y PathHit) int { return cmp.Compare(x.Path, y.Path) })
	cfg.log().Info("path search complete", "paths", len(hits))
	return hits, nil
}

// utf16Suffix encodes "." + ext + NUL as UTF-16LE. ext is ASCII.
func utf16Suffix(ext string) []byte {
	s := "." + strings.ToLower(ext)
	out := make([]byte, 0, (len(s)+1)*2)
	for i := range len(s) {
		out = append(out, s[i], 0)
	}
	return append(out, 0, 0)
}

// searchSuffix returns every path in data that ends with suffix.
func searchSuffix(data, suffix []byte) []string {
	var out []string
	for from := 0; ; {
		i := bytes.Index(data[from:], suffix)
		if i < 0 {
			return out
		}
		pos := from + i
		end := pos + len(suffix) - 2
		begin := pos
		for begin >= 2 && isGraphic(data[begin-2]) && data[begin-1] == 0 {
			begin -= 2
		}
		var b strings.Builder
		for j := begin; j < end; j += 2 {
			b.WriteByte(data[j])
		}
		out = append(out, b.String())
		from = pos + 1
	}
}

func isGraphic(c byte) bool { return c > ' ' && c < 0x7F }
