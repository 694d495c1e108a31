package reasset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/meigma/reasset/format"
	"github.com/meigma/reasset/scan"
)

// ReadMsg parses the text table at path and writes it to w as indented
// JSON.
func ReadMsg(path string, w io.Writer) (*format.Msg, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := format.ParseMsg(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	out, err := marshalMsg(m)
	if err != nil {
		return nil, err
	}
	_, err = w.Write(out)
	return m, err
}

// ScanMsg parses every text table in the archive at pakPath and writes each
// one as indented JSON to outDir/<index>.txt. Tables that fail to parse are
// logged and listed in the report.
func ScanMsg(ctx context.Context, pakPath, outDir string, opts ...Option) (*scan.MessageReport, error) {
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	report, err := scan.Messages(ctx, r, cfg.scanOptions()...)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}
	for _, t := range report.Tables {
		out, err := marshalMsg(t.Msg)
		if err != nil {
			return nil, err
		}
		dest := filepath.Join(outDir, strconv.Itoa(t.Index)+".txt")
		if err := os.WriteFile(dest, out, 0o644); err != nil { //nolint:gosec // extracted text is not secret
			return nil, fmt.Errorf("writing %s: %w", dest, err)
		}
	}
	return report, nil
}

// Grep searches the decompressed content of every entry in the archive at
// pakPath for pattern and writes one "Matched @ <index>" line per match to
// w.
func Grep(ctx context.Context, pakPath, pattern string, w io.Writer, opts ...Option) ([]int, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern: %w", err)
	}
	cfg := newConfig(opts)
	r, err := cfg.open(pakPath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	matched, err := scan.Grep(ctx, r, re, cfg.scanOptions()...)
	if err != nil {
		return nil, err
	}
	for _, i := range matched {
		if _, err := fmt.Fprintf(w, "Matched @ %d\n", i); err != nil {
			return nil, err
		}
	}
	return matched, nil
}

func marshalMsg(m *format.Msg) ([]byte, error) {
	out, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding text table: %w", err)
	}
	return append(out, '\n'), nil
}
