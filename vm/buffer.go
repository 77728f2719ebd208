package vm

// ---------------------------------------------------------------------------
// BufferSet: lockstep-growing workspace buffers
// ---------------------------------------------------------------------------

// BufKind names one of the engine's workspace buffers.
type BufKind uint8

const (
	BufEx      BufKind = iota // expression workspace
	BufOut                    // output accumulator
	BufSv                     // name-token byte storage
	BufNameSep                // separator preceding each name token
	numBufs
)

// BufferSet is a family of byte buffers that share one capacity. All of
// them grow together whenever any single one would overflow, so an offset
// computed before a grow must be re-fetched afterwards.
type BufferSet struct {
	bufs    [numBufs][]byte
	length  int
	offset  [numBufs]int
	initLen [numBufs]int
	nameTok []int
}

// NewBufferSet creates a buffer set with the given starting capacity.
func NewBufferSet(capacity int) *BufferSet {
	b := &BufferSet{length: capacity}
	for k := range b.bufs {
		b.bufs[k] = make([]byte, capacity)
	}
	return b
}

// Len returns the shared capacity.
func (b *BufferSet) Len() int { return b.length }

// GrowAll doubles the capacity of every buffer, preserving contents.
func (b *BufferSet) GrowAll() {
	b.length *= 2
	for k := range b.bufs {
		grown := make([]byte, b.length)
		copy(grown, b.bufs[k])
		b.bufs[k] = grown
	}
}

// Ensure grows the set until the shared capacity is at least n.
func (b *BufferSet) Ensure(n int) {
	for b.length < n {
		b.GrowAll()
	}
}

// At returns byte i of buffer k.
func (b *BufferSet) At(k BufKind, i int) byte { return b.bufs[k][i] }

// SetAt stores a byte at position i of buffer k.
func (b *BufferSet) SetAt(k BufKind, i int, c byte) { b.bufs[k][i] = c }

// Offset returns the cursor of buffer k.
func (b *BufferSet) Offset(k BufKind) int { return b.offset[k] }

// SetOffset moves the cursor of buffer k.
func (b *BufferSet) SetOffset(k BufKind, n int) { b.offset[k] = n }

// Init returns the initialized length of buffer k.
func (b *BufferSet) Init(k BufKind) int { return b.initLen[k] }

// SetInit records the initialized length of buffer k.
func (b *BufferSet) SetInit(k BufKind, n int) { b.initLen[k] = n }

// Buffer returns the raw backing bytes of buffer k.
func (b *BufferSet) Buffer(k BufKind) []byte { return b.bufs[k] }

// CopyFrom copies src into buffer k starting at pos. The caller has grown
// the set first.
func (b *BufferSet) CopyFrom(k BufKind, pos int, src []byte) {
	copy(b.bufs[k][pos:], src)
}

// CopyWithin copies n bytes from srcPos of buffer src to dstPos of buffer
// dst. Overlapping ranges within one buffer are handled.
func (b *BufferSet) CopyWithin(src, dst BufKind, srcPos, dstPos, n int) {
	copy(b.bufs[dst][dstPos:dstPos+n], b.bufs[src][srcPos:srcPos+n])
}

// NameTok returns the Sv-buffer start offset of name token i.
func (b *BufferSet) NameTok(i int) int { return b.nameTok[i] }

// SetNameTok records the Sv-buffer start offset of name token i.
func (b *BufferSet) SetNameTok(i, pos int) {
	for len(b.nameTok) <= i {
		b.nameTok = append(b.nameTok, 0)
	}
	b.nameTok[i] = pos
}
