package pak

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// UnknownDir is the directory under which entries with no known path are written.
const UnknownDir = "_unknown"

// ExtractStats summarizes an ExtractTree run.
type ExtractStats struct {
	// Named is the number of entries written under a recovered path.
	Named int

	// Unnamed is the number of entries written under UnknownDir.
	Unnamed int

	// Missing is the number of listed paths with no matching entry.
	Missing int

	// TotalBytes is the total number of content bytes written.
	TotalBytes uint64
}

// ExtractTree writes the whole archive below destDir.
//
// Every path in paths that resolves through Find is written at that path
// (relative to destDir); every remaining entry is written to
// UnknownDir/<index>. Paths that do not resolve are counted as missing and
// skipped. The first read or write error aborts the extraction.
func (r *Reader) ExtractTree(destDir string, paths []string) (ExtractStats, error) {
	var stats ExtractStats
	written := make([]bool, len(r.entries))

	for _, p := range paths {
		index, _, err := r.Find(p)
		if errors.Is(err, ErrNotFound) {
			stats.Missing++
			continue
		}
		if err != nil {
			return stats, err
		}
		rel := normalizePath(p)
		if !fs.ValidPath(rel) {
			return stats, &fs.PathError{Op: "extract", Path: p, Err: fs.ErrInvalid}
		}
		n, err := r.extractEntry(index, filepath.Join(destDir, filepath.FromSlash(rel)))
		if err != nil {
			return stats, err
		}
		if !written[index] {
			stats.Named++
		}
		written[index] = true
		stats.TotalBytes += n
	}

	for i, done := range written {
		if done {
			continue
		}
		dest := filepath.Join(destDir, UnknownDir, strconv.Itoa(i))
		n, err := r.extractEntry(Index(i), dest) //nolint:gosec // bounded by FileCount
		if err != nil {
			return stats, err
		}
		stats.Unnamed++
		stats.TotalBytes += n
	}

	r.log().Info("archive extracted",
		"named", stats.Named, "unnamed", stats.Unnamed, "missing", stats.Missing)
	return stats, nil
}

// extractEntry writes entry index to dest atomically using a temp file.
func (r *Reader) extractEntry(index Index, dest string) (uint64, error) {
	content, err := r.ReadFileAt(index)
	if err != nil {
		return 0, err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".pak-")
	if err != nil {
		return 0, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return 0, fmt.Errorf("writing content: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return 0, fmt.Errorf("renaming to destination: %w", err)
	}
	success = true
	return uint64(len(content)), nil
}
