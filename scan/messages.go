package scan

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/meigma/reasset/format"
)

// MessageTable is a text table found in the archive.
type MessageTable struct {
	Index int
	Msg   *format.Msg
}

// MessageReport is the result of a text table sweep.
type MessageReport struct {
	// Tables holds the parsed tables in index order.
	Tables []MessageTable

	// Failed lists the entries that could not be read or parsed, in index
	// order.
	Failed []*EntryError
}

// Messages parses every text table in a. Failures are logged and collected
// in the report; the sweep itself only fails on cancellation.
func Messages(ctx context.Context, a Archive, opts ...Option) (*MessageReport, error) {
	cfg := newConfig(opts)
	report := &MessageReport{}
	var mu sync.Mutex
	fail := func(index int, err error) {
		mu.Lock()
		defer mu.Unlock()
		report.Failed = append(report.Failed, &EntryError{Index: index, Err: err})
	}

	err := forEach(ctx, a, cfg, StageMessages, func(index int, data []byte) error {
		if format.Sniff(data) != format.KindMsg {
			return nil
		}
		m, err := format.ParseMsg(data)
		if err != nil {
			cfg.log().Warn("text table parse failed", "index", index, "error", err)
			fail(index, err)
			return nil
		}
		mu.Lock()
		defer mu.Unlock()
		report.Tables = append(report.Tables, MessageTable{Index: index, Msg: m})
		return nil
	}, fail)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(report.Tables, func(x, y MessageTable) int { return cmp.Compare(x.Index, y.Index) })
	slices.SortFunc(report.Failed, func(x, y *EntryError) int { return cmp.Compare(x.Index, y.Index) })
	cfg.log().Info("text table scan complete", "tables", len(report.Tables), "failed", len(report.Failed))
	return report, nil
}
