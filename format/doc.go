// Package format recognizes the resource formats that reference other
// archive entries by name and extracts those names.
//
// USER, PFB and SCN files each carry a child list, a resource name list and
// one embedded RSZ block. The parsers here read the tables and validate the
// RSZ header without decoding instances; decode a block with
// [rsz.Block.Deserialize] or, for USER files, [DecodeUser].
//
// Basic usage:
//
//	if format.Sniff(data).HasChildren() {
//		names, err := format.ExtractChildren(data)
//		...
//	}
package format
