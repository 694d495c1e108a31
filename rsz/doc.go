// Package rsz decodes RSZ blocks, the engine's reflection-style object
// serialization.
//
// An RSZ block lists instances tagged only by a 64-bit type hash. The bytes
// of an instance are meaningless without its class layout, so decoding is
// driven by a Registry of TypeDescriptors built from declarative field lists.
// Instances may reference earlier instances by index. Each referenced
// instance is owned by exactly one field, and whatever is not owned by a
// field is a root.
//
// Deserialize returns the roots in file order. Other formats refer to them by
// position ("root K"), and a Roots arena enforces that each is claimed once:
//
//	block, err := rsz.Parse(buf, 0)
//	if err != nil {
//		return err
//	}
//	insts, err := block.Deserialize(registry)
//	if err != nil {
//		return err
//	}
//	roots := rsz.NewRoots(insts)
//	ref := rsz.RootRef(0)
//	if err := ref.Resolve(roots); err != nil {
//		return err
//	}
//	if err := roots.Verify(); err != nil {
//		return err
//	}
//
// Decoding is atomic: any out-of-bounds read, enum value outside its set, or
// unknown flag bit fails the whole block.
package rsz
