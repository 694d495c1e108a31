package reasset

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/meigma/reasset/pak"
	"github.com/meigma/reasset/rcol"
	"github.com/meigma/reasset/scan"
)

// DumpResult describes an entry written by Dump or DumpIndex.
type DumpResult struct {
	// Index is the archive index of the entry.
	Index Index

	// Path is the canonical archive path the name resolved to. DumpIndex
	// leaves it empty.
	Path string

	// Size is the decompressed size in bytes.
	Size int
}

// Dump resolves name in the archive at pakPath and writes the decompressed
// entry to output.
func Dump(pakPath, name, output string, opts ...Option) (DumpResult, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return DumpResult{}, err
	}
	defer r.Close()

	index, full, err := r.Find(name)
	if err != nil {
		return DumpResult{}, err
	}
	content, err := r.ReadFile(index)
	if err != nil {
		return DumpResult{}, err
	}
	if err := os.WriteFile(output, content, 0o644); err != nil { //nolint:gosec // extracted assets are not secret
		return DumpResult{}, fmt.Errorf("writing %s: %w", output, err)
	}
	cfg.log().Info("entry dumped", "path", full, "index", index.Raw(), "size", humanize.IBytes(uint64(len(content))))
	return DumpResult{Index: index, Path: full, Size: len(content)}, nil
}

// DumpIndex writes the decompressed entry at index of the archive at
// pakPath to output.
func DumpIndex(pakPath string, index uint32, output string, opts ...Option) (DumpResult, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return DumpResult{}, err
	}
	defer r.Close()

	content, err := r.ReadFileAt(pak.Index(index))
	if err != nil {
		return DumpResult{}, err
	}
	if err := os.WriteFile(output, content, 0o644); err != nil { //nolint:gosec // extracted assets are not secret
		return DumpResult{}, fmt.Errorf("writing %s: %w", output, err)
	}
	return DumpResult{Index: pak.Index(index), Size: len(content)}, nil
}

// Scan builds the dependency graph of the archive at pakPath and prints its
// forest to w. When the graph contains a cycle the graph is returned along
// with an error matching ErrCycleDetected.
func Scan(ctx context.Context, pakPath string, w io.Writer, opts ...Option) (*scan.Graph, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	g, err := scan.Dependencies(ctx, r, cfg.scanOptions()...)
	if err != nil {
		return nil, err
	}
	return g, g.Print(w)
}

// ScanRCOL parses every collision file in the archive at pakPath. Files
// that fail are logged and listed in the report.
func ScanRCOL(ctx context.Context, pakPath string, opts ...Option) (*scan.CollisionReport, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return scan.Collisions(ctx, r, cfg.scanOptions()...)
}

// SearchPaths lists the path strings embedded in the entries of the archive
// at pakPath and writes one "path $ index" line per distinct path to w.
func SearchPaths(ctx context.Context, pakPath string, w io.Writer, opts ...Option) ([]scan.PathHit, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	hits, err := scan.Paths(ctx, r, cfg.scanOptions()...)
	if err != nil {
		return nil, err
	}
	bw := bufio.NewWriter(w)
	for _, h := range hits {
		fmt.Fprintln(bw, h.String())
	}
	return hits, bw.Flush()
}

// DumpRCOL parses the collision file at path, decoding its user data, and
// writes the human readable dump to w.
func DumpRCOL(path string, w io.Writer, opts ...Option) (*rcol.File, error) {
	cfg := newConfig(opts)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := rcol.Parse(data, rcol.WithUserData(true), rcol.WithRegistry(cfg.registry))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, f.Dump(w)
}

// ExtractTree writes the archive at pakPath below outDir. listFile names
// the known paths, one per line; only the text before the first space is
// used and blank lines are skipped. Entries no listed path resolves to go
// to the pak.UnknownDir directory under their index.
func ExtractTree(pakPath, listFile, outDir string, opts ...Option) (ExtractStats, error) {
	cfg := newConfig(opts)
	paths, err := readList(listFile)
	if err != nil {
		return ExtractStats{}, err
	}
	r, err := cfg.open(pakPath)
	if err != nil {
		return ExtractStats{}, err
	}
	defer r.Close()

	return r.ExtractTree(outDir, paths)
}

func readList(listFile string) ([]string, error) {
	f, err := os.Open(listFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseList(f)
}

// parseList returns the first space-separated field of every non-blank line.
func parseList(r io.Reader) ([]string, error) {
	var paths []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		path, _, _ := strings.Cut(line, " ")
		if path == "" {
			continue
		}
		paths = append(paths, path)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading list: %w", err)
	}
	return paths, nil
}
