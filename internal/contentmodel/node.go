package contentmodel

// node is a syntax tree node of the regular expression a particle denotes.
type node interface {
	nullable() bool
	firstPos() *bitset
	lastPos() *bitset
}

type leafNode struct {
	first *bitset
}

func newLeaf(pos, size int) *leafNode {
	set := newBitset(size)
	set.set(pos)
	return &leafNode{first: set}
}

func (n *leafNode) nullable() bool    { return false }
func (n *leafNode) firstPos() *bitset { return n.first }
func (n *leafNode) lastPos() *bitset  { return n.first }

type seqNode struct {
	left, right node
	first, last *bitset
	null        bool
}

func newSeq(left, right node) *seqNode {
	first := left.firstPos().clone()
	if left.nullable() {
		first.or(right.firstPos())
	}
	last := right.lastPos().clone()
	if right.nullable() {
		last.or(left.lastPos())
	}
	return &seqNode{left: left, right: right, first: first, last: last, null: left.nullable() && right.nullable()}
}

func (n *seqNode) nullable() bool    { return n.null }
func (n *seqNode) firstPos() *bitset { return n.first }
func (n *seqNode) lastPos() *bitset  { return n.last }

type altNode struct {
	left, right node
	first, last *bitset
	null        bool
}

func newAlt(left, right node) *altNode {
	first := left.firstPos().clone()
	first.or(right.firstPos())
	last := left.lastPos().clone()
	last.or(right.lastPos())
	return &altNode{left: left, right: right, first: first, last: last, null: left.nullable() || right.nullable()}
}

func (n *altNode) nullable() bool    { return n.null }
func (n *altNode) firstPos() *bitset { return n.first }
func (n *altNode) lastPos() *bitset  { return n.last }

// repeatNode covers star (nullable) and plus (not nullable) closure.
type repeatNode struct {
	child node
	star  bool
}

func (n *repeatNode) nullable() bool    { return n.star || n.child.nullable() }
func (n *repeatNode) firstPos() *bitset { return n.child.firstPos() }
func (n *repeatNode) lastPos() *bitset  { return n.child.lastPos() }

type optNode struct {
	child node
}

func (n *optNode) nullable() bool    { return true }
func (n *optNode) firstPos() *bitset { return n.child.firstPos() }
func (n *optNode) lastPos() *bitset  { return n.child.lastPos() }
