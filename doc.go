// Package reasset reads RE Engine asset archives and the resource formats
// stored in them.
//
// The package offers single-call entry points over the lower-level
// packages:
//
//   - [Dump] and [DumpIndex] extract one archive entry to a file.
//   - [ExtractTree] writes a whole archive to a directory, using a list
//     file for the names the archive does not store.
//   - [Scan] builds the dependency forest of an archive and prints it.
//   - [ScanRCOL] parses every collision file and [SearchPaths] lists the
//     path strings embedded in entries.
//   - [DumpRCOL] prints a collision file in human readable form.
//   - [ReadMsg] and [ScanMsg] export text tables as JSON, and [Grep]
//     lists the entries whose content matches a pattern.
//
// For finer control use the subpackages directly: [pak] for archives,
// [rsz] for object-graph deserialization, [format] and [rcol] for file
// formats, and [scan] for bulk passes.
//
// # Quick Start
//
// Print the dependency forest of an archive:
//
//	g, err := reasset.Scan(ctx, "re_chunk_000.pak", os.Stdout,
//	    reasset.WithLogger(slog.Default()),
//	)
//	if errors.Is(err, reasset.ErrCycleDetected) {
//	    // the forest is in g, but some entries reference each other
//	}
//
// Extract one file:
//
//	res, err := reasset.Dump("re_chunk_000.pak", "enemy/em001/em001.rcol", "em001.rcol")
package reasset
