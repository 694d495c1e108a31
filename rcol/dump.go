package rcol

import (
	"bufio"
	"fmt"
	"io"

	"github.com/meigma/reasset/rsz"
	"github.com/meigma/reasset/rsz/classes"
)

// Dump writes a human-readable listing of the file to w: groups with their
// colliders and shapes, attributes, attachments and request sets. Recognized
// damage user data is printed below its owner when decoded.
func (f *File) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i := range f.Groups {
		g := &f.Groups[i]
		fmt.Fprintf(bw, "[%d] %s\n", i, g.Name)
		for ci := range g.Colliders {
			c := &g.Colliders[ci]
			fmt.Fprintf(bw, " - %s, %s, %s, /** %d **/\n", c.Name, c.BoneA, c.BoneB, c.AttributeBits)
			dumpUserData(bw, &c.UserData)
			fmt.Fprintf(bw, "   %s\n", c.Shape)
		}
	}
	for _, attr := range f.Attributes {
		fmt.Fprintf(bw, "* %s\n", attr)
	}
	for i := range f.Attachments {
		a := &f.Attachments[i]
		fmt.Fprintf(bw, ">>>->[%d] %s, %s, %d, %d\n", a.Group, a.Name, a.NameB, a.P, a.R)
		dumpUserData(bw, &a.UserData)
	}
	for _, rs := range f.RequestSets {
		fmt.Fprintf(bw, "##> %s\n", rs.Name)
	}
	return bw.Flush()
}

func dumpUserData(w io.Writer, ref *rsz.UserDataRef) {
	if d, ok := rsz.RefAs[*classes.EmHitDamageShapeData](ref); ok {
		fmt.Fprintf(w, "   %+v\n", *d)
	} else if d, ok := rsz.RefAs[*classes.EmHitDamageRSData](ref); ok {
		fmt.Fprintf(w, "   %+v\n", *d)
	}
}
