// Package rcol parses RCOL collision files.
//
// An RCOL file holds named collider groups, each a list of colliders with a
// sphere or capsule shape in bone-local space, plus group attachments,
// attribute names and request sets. Every collider and attachment carries a
// reference to a root of the file's embedded RSZ block; with WithUserData
// the block is decoded and every root is claimed by exactly one reference.
//
// Basic usage:
//
//	f, err := rcol.Parse(data, rcol.WithUserData(true))
//	if err != nil {
//		return err
//	}
//	if err := f.BindSkeleton(bones); err != nil {
//		return err
//	}
//	a, err := f.ClassifyVertex(p, f.AttributeMask(rcol.RideAttribute))
package rcol
