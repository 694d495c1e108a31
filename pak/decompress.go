package pak

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zstd"

	"github.com/meigma/reasset/internal/errdefs"
	"github.com/meigma/reasset/internal/sizing"
)

// decompressPool manages reusable zstd decoders to reduce allocation overhead.
type decompressPool struct {
	pool               *sync.Pool
	maxDecoderMemory   uint64
	decoderConcurrency int
	decoderLowmem      bool
}

// newDecompressPool creates a pool of zstd decoders.
// If maxMemory is 0, no memory limit is applied to decoders.
func newDecompressPool(maxMemory uint64, concurrency int, lowmem bool) *decompressPool {
	p := &decompressPool{
		maxDecoderMemory:   maxMemory,
		decoderConcurrency: concurrency,
		decoderLowmem:      lowmem,
	}
	p.pool = &sync.Pool{
		New: func() any {
			dec, err := p.newDecoder(nil)
			if err != nil {
				return nil
			}
			return dec
		},
	}
	return p
}

// get returns a decoder configured to read from r.
// The caller must call the returned release function when done.
func (p *decompressPool) get(r io.Reader) (*zstd.Decoder, func(), error) {
	dec, ok := p.pool.Get().(*zstd.Decoder)
	if !ok || dec == nil {
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	if err := dec.Reset(r); err != nil {
		dec.Close()
		newDec, err := p.newDecoder(r)
		if err != nil {
			return nil, nil, err
		}
		return newDec, newDec.Close, nil
	}

	return dec, func() {
		_ = dec.Reset(nil) //nolint:errcheck // clearing state before pool return
		p.pool.Put(dec)
	}, nil
}

// newDecoder creates a new zstd decoder with the configured limits.
func (p *decompressPool) newDecoder(r io.Reader) (*zstd.Decoder, error) {
	opts := []zstd.DOption{
		zstd.WithDecoderConcurrency(p.decoderConcurrency),
		zstd.WithDecoderLowmem(p.decoderLowmem),
	}
	if p.maxDecoderMemory != 0 {
		opts = append(opts, zstd.WithDecoderMaxMemory(p.maxDecoderMemory))
	}
	return zstd.NewReader(r, opts...)
}

// decompress expands raw according to e's compression and verifies the
// result has exactly e.UncompressedSize bytes.
func (p *decompressPool) decompress(e *Entry, raw []byte) ([]byte, error) {
	size, err := sizing.ToInt(e.UncompressedSize)
	if err != nil {
		return nil, err
	}

	switch e.Compression() {
	case CompressionNone:
		if e.CompressedSize != e.UncompressedSize {
			return nil, fmt.Errorf("%w: stored entry has size %d but declares %d",
				errdefs.ErrCorruptData, e.CompressedSize, e.UncompressedSize)
		}
		return raw, nil
	case CompressionDeflate:
		fr := flate.NewReader(bytes.NewReader(raw))
		defer fr.Close()
		return readExact(fr, size)
	case CompressionZstd:
		dec, release, err := p.get(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", errdefs.ErrCorruptData, err)
		}
		defer release()
		return readExact(dec, size)
	default:
		return nil, fmt.Errorf("%w: unknown compression %s", errdefs.ErrCorruptData, e.Compression())
	}
}

// readExact reads exactly size bytes from r and fails if more are available.
func readExact(r io.Reader, size int) ([]byte, error) {
	content := make([]byte, size)
	n, err := io.ReadFull(r, content)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: decompressed %d of %d bytes", errdefs.ErrCorruptData, n, size)
		}
		return nil, fmt.Errorf("%w: %v", errdefs.ErrCorruptData, err)
	}
	if err := ensureNoExtra(r); err != nil {
		return nil, err
	}
	return content, nil
}

// ensureNoExtra verifies the stream holds no bytes beyond the declared size.
func ensureNoExtra(r io.Reader) error {
	var probe [1]byte
	for {
		n, err := r.Read(probe[:])
		if n > 0 {
			return fmt.Errorf("%w: decompressed content exceeds declared size", errdefs.ErrCorruptData)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", errdefs.ErrCorruptData, err)
		}
	}
}
