// Package pak reads KPKA game archives.
//
// A KPKA archive is a flat blob store: a fixed header, a table of 48-byte
// entries, and the entry payloads. Entries carry no plaintext path. Each is
// keyed by two MurmurHash3 values of its full path (lower and upper case,
// hashed as UTF-16LE), so a path can be checked for membership but an
// entry's path cannot be recovered from the archive alone.
//
// Payloads are stored raw, as raw deflate streams, or as zstd frames.
//
// A Reader is safe for concurrent use. Decompression runs independently per
// call; zstd decoders are pooled.
package pak
