package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/meigma/reasset/pak"
)

// Archive is the read side of an archive. *pak.Reader implements it; reads
// must be safe for concurrent use.
type Archive interface {
	FileCount() uint32
	ReadFileAt(index pak.Index) ([]byte, error)
	Find(path string) (pak.Index, string, error)
}

// forEach reads every entry with up to cfg.workers goroutines and hands the
// content to fn. Entries that cannot be read are logged and passed to
// failed; fn errors abort the pass.
func forEach(ctx context.Context, a Archive, cfg *config, stage ProgressStage,
	fn func(index int, data []byte) error, failed func(index int, err error),
) error {
	total := int(a.FileCount())
	var done atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i := range total {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := a.ReadFileAt(pak.Index(i)) //nolint:gosec // bounded by FileCount
			if err != nil {
				cfg.log().Warn("read failed", "stage", stage.String(), "index", i, "error", err)
				failed(i, err)
			} else if err := fn(i, data); err != nil {
				return err
			}
			if cfg.progress != nil {
				cfg.progress(ProgressEvent{Stage: stage, FilesDone: int(done.Add(1)), FilesTotal: total})
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
