package scan

import (
	"context"
	"regexp"
	"slices"
	"sync"
)

// Grep returns the indices of the entries whose decompressed content
// matches re, in index order. Compile re without Unicode classes to match
// raw bytes. Entries that cannot be read are logged and skipped.
func Grep(ctx context.Context, a Archive, re *regexp.Regexp, opts ...Option) ([]int, error) {
	cfg := newConfig(opts)
	cfg.log().Info("searching entries", "pattern", re.String())

	var mu sync.Mutex
	var matched []int
	err := forEach(ctx, a, cfg, StageGrep, func(index int, data []byte) error {
		if !re.Match(data) {
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		matched = append(matched, index)
		return nil
	}, func(int, error) {})
	if err != nil {
		return nil, err
	}
	slices.Sort(matched)
	return matched, nil
}
