package scan

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/meigma/reasset/format"
	"github.com/meigma/reasset/rcol"
)

// CollisionReport summarizes a collision sweep.
type CollisionReport struct {
	// Files is the number of collision files found.
	Files int

	// Colliders is the total number of colliders in the files that parsed.
	Colliders int

	// Failed lists the entries that could not be read or parsed, in index
	// order.
	Failed []*EntryError
}

// Collisions parses every collision file in a. With WithRegistry the user
// data is decoded and claimed as well. Failures are logged and collected in
// the report; the sweep itself only fails on cancellation.
func Collisions(ctx context.Context, a Archive, opts ...Option) (*CollisionReport, error) {
	cfg := newConfig(opts)
	report := &CollisionReport{}
	var mu sync.Mutex
	fail := func(index int, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Failed = append(report.Failed, &EntryError{Index: index, Err: err})
	}

	parseOpts := []rcol.Option{rcol.WithUserData(cfg.registry != nil), rcol.WithRegistry(cfg.registry)}
	err := forEach(ctx, a, cfg, StageCollisions, func(index int, data []byte) error {
		if format.Sniff(data) != format.KindRcol {
			return nil
		}
		f, err := rcol.Parse(data, parseOpts...)

		mu.Lock()
		report.Files++
		mu.Unlock()
		if err != nil {
			cfg.log().Warn("collision parse failed", "index", index, "error", err)
			fail(index, err)
			return nil
		}

		n := 0
		for _, g := range f.Groups {
			n += len(g.Colliders)
		}
		mu.Lock()
		report.Colliders += n
		mu.Unlock()
		return nil
	}, fail)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(report.Failed, func(x, y *EntryError) int { return cmp.Compare(x.Index, y.Index) })
	cfg.log().Info("collision scan complete",
		"files", report.Files, "colliders", report.Colliders, "failed", len(report.Failed))
	return report, nil
}
