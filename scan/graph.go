package scan

import (
	"bufio"
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/meigma/reasset/format"
	"github.com/meigma/reasset/pak"
)

// lockStripes is the number of mutexes guarding the node arena.
const lockStripes = 64

// Node is the dependency record of one archive entry.
type Node struct {
	// Parsed is set when the entry decoded as a format with a child list.
	Parsed bool

	// Kind is the sniffed format of the entry.
	Kind format.Kind

	// Name is the path under which some parent references the entry, or ""
	// when no parent does. With several parents the one with the lowest
	// index wins.
	Name string

	// HasParent is set once any parsed entry references this one.
	HasParent bool

	// Children are the indices of the entries this one references, in
	// reference order.
	Children []int

	nameFrom int
}

// Graph is the dependency structure of an archive: one Node per entry,
// linked by index.
type Graph struct {
	Nodes []Node

	// Missing counts referenced names that matched no entry.
	Missing int

	// Failed lists the entries that could not be read or parsed.
	Failed []*EntryError
}

type builder struct {
	g      *Graph
	a      Archive
	cfg    *config
	stripe [lockStripes]sync.Mutex
	mu     sync.Mutex // Missing and Failed
}

func (b *builder) lock(i int) *sync.Mutex { return &b.stripe[i%lockStripes] }

// Dependencies builds the dependency graph of a.
//
// Every entry is sniffed; USER, PFB and SCN files are parsed for the names
// they reference, and each name is resolved with Find. A resolved child
// records the name and gains a parent; an unresolved name is logged and
// counted. Entries that fail to read or parse are logged and recorded in
// Graph.Failed. The returned graph is complete only after all entries have
// been processed; call Print or Verify on it afterwards.
func Dependencies(ctx context.Context, a Archive, opts ...Option) (*Graph, error) {
	cfg := newConfig(opts)
	g := &Graph{Nodes: make([]Node, a.FileCount())}
	for i := range g.Nodes {
		g.Nodes[i].nameFrom = -1
	}
	b := &builder{g: g, a: a, cfg: cfg}

	err := forEach(ctx, a, cfg, StageDependencies, b.visit, b.fail)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(g.Failed, func(x, y *EntryError) int { return cmp.Compare(x.Index, y.Index) })
	cfg.log().Info("dependency scan complete",
		"entries", len(g.Nodes), "named_ratio", g.NamedRatio(),
		"missing", g.Missing, "failed", len(g.Failed))
	return g, nil
}

func (b *builder) fail(index int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.g.Failed = append(b.g.Failed, &EntryError{Index: index, Err: err})
}

func (b *builder) visit(index int, data []byte) error {
	kind := format.Sniff(data)
	if !kind.HasChildren() {
		b.setKind(index, kind, false, nil)
		return nil
	}
	names, err := format.ExtractChildren(data)
	if err != nil {
		b.cfg.log().Warn("parse failed", "index", index, "kind", kind.String(), "error", err)
		b.fail(index, err)
		b.setKind(index, kind, false, nil)
		return nil
	}

	children := make([]int, 0, len(names))
	for _, name := range names {
		child, _, err := b.a.Find(name)
		if errors.Is(err, pak.ErrNotFound) {
			b.cfg.log().Info("missing", "name", name, "parent", index)
			b.mu.Lock()
			b.g.Missing++
			b.mu.Unlock()
			continue
		}
		if err != nil {
			return fmt.Errorf("scan: resolving %q from entry %d: %w", name, index, err)
		}
		ci := int(child)
		b.adopt(ci, index, name)
		children = append(children, ci)
	}
	b.setKind(index, kind, true, children)
	return nil
}

func (b *builder) setKind(index int, kind format.Kind, parsed bool, children []int) {
	mu := b.lock(index)
	mu.Lock()
	defer mu.Unlock()
	n := &b.g.Nodes[index]
	n.Kind = kind
	n.Parsed = parsed
	n.Children = children
}

func (b *builder) adopt(child, parent int, name string) {
	mu := b.lock(child)
	mu.Lock()
	defer mu.Unlock()
	n := &b.g.Nodes[child]
	n.HasParent = true
	if n.nameFrom < 0 || parent < n.nameFrom {
		n.Name = name
		n.nameFrom = parent
	}
}

// NamedRatio returns the fraction of entries with a recovered name.
func (g *Graph) NamedRatio() float64 {
	if len(g.Nodes) == 0 {
		return 0
	}
	named := 0
	for i := range g.Nodes {
		if g.Nodes[i].Name != "" {
			named++
		}
	}
	return float64(named) / float64(len(g.Nodes))
}

// Roots returns the parsed entries no other entry references, in index
// order.
func (g *Graph) Roots() []int {
	var out []int
	for i := range g.Nodes {
		if g.Nodes[i].Parsed && !g.Nodes[i].HasParent {
			out = append(out, i)
		}
	}
	return out
}

// Print writes the forest to w, one line per visit ("- name", or the index
// when no name is known, indented four spaces per level), followed by the
// named file ratio. It then writes "Done", or returns a *CycleError when a
// parsed entry was never reached from a root or a path loops back on
// itself.
func (g *Graph) Print(w io.Writer) error {
	bw := bufio.NewWriter(w)
	cycle := g.walk(bw)
	fmt.Fprintf(bw, "Named file ratio = %s\n", strconv.FormatFloat(g.NamedRatio(), 'f', -1, 64))
	if cycle == nil {
		fmt.Fprintln(bw, "Done")
	}
	if err := bw.Flush(); err != nil {
		return err
	}
	if cycle != nil {
		return cycle
	}
	return nil
}

// Verify checks that the graph is a forest without printing it.
func (g *Graph) Verify() error {
	if cycle := g.walk(bufio.NewWriter(io.Discard)); cycle != nil {
		return cycle
	}
	return nil
}

// walk prints every tree and returns the cycle found, if any.
func (g *Graph) walk(w *bufio.Writer) *CycleError {
	t := &traversal{
		g:       g,
		w:       w,
		visited: make([]bool, len(g.Nodes)),
		active:  make([]bool, len(g.Nodes)),
	}
	for _, root := range g.Roots() {
		t.visit(root, 0)
	}

	looped := make(map[int]bool, len(t.loops))
	for _, i := range t.loops {
		looped[i] = true
	}
	var nodes []int
	for i := range g.Nodes {
		if looped[i] || (g.Nodes[i].Parsed && !t.visited[i]) {
			nodes = append(nodes, i)
		}
	}
	if len(nodes) == 0 {
		return nil
	}
	return &CycleError{Nodes: nodes}
}

type traversal struct {
	g       *Graph
	w       *bufio.Writer
	visited []bool
	active  []bool
	loops   []int
}

func (t *traversal) visit(i, depth int) {
	n := &t.g.Nodes[i]
	t.w.WriteString(strings.Repeat("    ", depth))
	if n.Name != "" {
		fmt.Fprintf(t.w, "- %s\n", n.Name)
	} else {
		fmt.Fprintf(t.w, "- %d\n", i)
	}
	if t.active[i] {
		t.loops = append(t.loops, i)
		return
	}
	t.active[i] = true
	for _, child := range n.Children {
		t.visit(child, depth+1)
	}
	t.active[i] = false
	t.visited[i] = true
}
