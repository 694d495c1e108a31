package rcol

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/meigma/reasset/rsz"
	"github.com/meigma/reasset/rsz/classes"
)

// MaxOwnerDistance is the normalized distance beyond which a point has no
// plausible owning collider.
const MaxOwnerDistance = 1.5

// RideAttribute is the attribute marking the extra hitboxes active while a
// monster can be ridden. Classification usually excludes them.
const RideAttribute = "操獣受付中の追加アタリ"

// Unassigned marks an Assignment field with no value.
const Unassigned = -1

// Assignment is the result of classifying one point.
type Assignment struct {
	// Meat is the meat id of the owning collider, or Unassigned.
	Meat int

	// PartsGroup is the parts group of the owning collider's group, or
	// Unassigned when the point has no owner or the group has no damage
	// attachment.
	PartsGroup int

	// Distance is the normalized distance to the nearest candidate.
	Distance float32
}

// Assigned reports whether the point has an owning collider.
func (a Assignment) Assigned() bool { return a.Meat != Unassigned }

// AttributeMask returns the bit of the named attribute, or 0 when the file
// has no such attribute.
func (f *File) AttributeMask(name string) uint32 {
	for i, attr := range f.Attributes {
		if attr == name && i < 32 {
			return 1 << i
		}
	}
	return 0
}

// ClassifyVertex finds the hitbox nearest to p.
//
// Only colliders whose user data is an EmHitDamageShapeData and whose
// attribute bits do not intersect exclude are candidates. The candidate
// with the smallest normalized distance wins; ties keep the earlier one.
// If that distance exceeds MaxOwnerDistance the point is unassigned.
func (f *File) ClassifyVertex(p mgl32.Vec3, exclude uint32) (Assignment, error) {
	if !f.decoded {
		return Assignment{}, ErrUserDataNotDecoded
	}
	return f.classify(p, exclude, f.partsGroups())
}

// ClassifyVertices classifies every point of points.
func (f *File) ClassifyVertices(points []mgl32.Vec3, exclude uint32) ([]Assignment, error) {
	if !f.decoded {
		return nil, ErrUserDataNotDecoded
	}
	groups := f.partsGroups()
	out := make([]Assignment, len(points))
	for i, p := range points {
		a, err := f.classify(p, exclude, groups)
		if err != nil {
			return nil, err
		}
		out[i] = a
	}
	return out, nil
}

// partsGroups returns the parts group of every collider group; the last
// damage attachment naming a group wins.
func (f *File) partsGroups() []int {
	out := make([]int, len(f.Groups))
	for i := range out {
		out[i] = Unassigned
	}
	for i := range f.Attachments {
		a := &f.Attachments[i]
		if rs, ok := rsz.RefAs[*classes.EmHitDamageRSData](&a.UserData); ok {
			out[a.Group] = int(rs.PartsGroup)
		}
	}
	return out
}

func (f *File) classify(p mgl32.Vec3, exclude uint32, partsGroups []int) (Assignment, error) {
	best := Assignment{Meat: Unassigned, PartsGroup: Unassigned, Distance: math.MaxFloat32}
	for gi := range f.Groups {
		for ci := range f.Groups[gi].Colliders {
			c := &f.Groups[gi].Colliders[ci]
			if c.AttributeBits&exclude != 0 {
				continue
			}
			data, ok := rsz.RefAs[*classes.EmHitDamageShapeData](&c.UserData)
			if !ok {
				continue
			}
			d, err := c.Shape.Distance(p)
			if err != nil {
				return Assignment{}, err
			}
			if d < best.Distance {
				best = Assignment{Meat: int(data.Meat), PartsGroup: partsGroups[gi], Distance: d}
			}
		}
	}
	if best.Distance > MaxOwnerDistance {
		best.Meat = Unassigned
		best.PartsGroup = Unassigned
	}
	return best, nil
}
