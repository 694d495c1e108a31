// Package scan runs whole-archive passes: the resource dependency forest,
// the bulk collision sweep and the UTF-16 path search.
//
// Every pass reads entries concurrently through an [Archive] (satisfied by
// *pak.Reader). A failure confined to one entry is logged with its index and
// the pass moves on; only cancellation or a failed archive lookup aborts it.
//
// Basic usage:
//
//	g, err := scan.Dependencies(ctx, archive, scan.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	if err := g.Print(os.Stdout); err != nil {
//		return err // errors.Is(err, scan.ErrCycleDetected)
//	}
package scan
