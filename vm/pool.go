package vm

// ---------------------------------------------------------------------------
// StringPool: append-only byte arena with a LIFO scratch tail
// ---------------------------------------------------------------------------

// Checkpoint marks a pool boundary captured at function-invocation start.
// Strings below it are permanent; strings at or above it are scratch and
// reclaimable in LIFO order.
type Checkpoint struct {
	str StrNumber
}

// IsScratch reports whether s lies above the checkpoint, i.e. was added
// after it was captured.
func (c Checkpoint) IsScratch(s StrNumber) bool {
	return s >= c.str
}

// StringPool is a single growable byte arena. Strings are (offset, length)
// pairs addressed by a dense StrNumber. Removing the top string only moves
// the logical top; the bytes survive until overwritten, which is what makes
// the in-place scratch tricks in the concatenation and substring builtins
// safe.
type StringPool struct {
	data   []byte
	starts []int // starts[i] = offset of string i; starts[count] = arena top
	count  int
}

// NewStringPool creates an empty pool.
func NewStringPool() *StringPool {
	return &StringPool{starts: []int{0}}
}

// Count returns the number of live strings.
func (p *StringPool) Count() int { return p.count }

// Checkpoint captures the current top of the pool.
func (p *StringPool) Checkpoint() Checkpoint {
	return Checkpoint{str: StrNumber(p.count)}
}

// IsAt reports whether the pool top still matches c.
func (p *StringPool) IsAt(c Checkpoint) bool {
	return StrNumber(p.count) == c.str
}

// GetStr returns a read-only view of string s. The view stays valid for a
// removed string until the arena tail is rewritten.
func (p *StringPool) GetStr(s StrNumber) []byte {
	return p.data[p.starts[s]:p.starts[s+1]]
}

func (p *StringPool) top() int { return p.starts[p.count] }

func (p *StringPool) commit(end int) StrNumber {
	if len(p.starts) > p.count+1 {
		p.starts[p.count+1] = end
	} else {
		p.starts = append(p.starts, end)
	}
	p.count++
	return StrNumber(p.count - 1)
}

// ensure makes the backing array at least n bytes long, preserving content.
func (p *StringPool) ensure(n int) {
	if n <= len(p.data) {
		return
	}
	grown := make([]byte, n+n/2+64)
	copy(grown, p.data)
	p.data = grown[:n]
}

// AddString appends a new string holding a copy of b and returns its id.
// Whether the string is permanent or scratch depends only on its position
// relative to the active checkpoint.
func (p *StringPool) AddString(b []byte) StrNumber {
	top := p.top()
	p.ensure(top + len(b))
	copy(p.data[top:], b)
	return p.commit(top + len(b))
}

// RemoveLastStr removes string s if it is the top of the pool, returning
// false otherwise. The bytes are left in place.
func (p *StringPool) RemoveLastStr(s StrNumber) bool {
	if p.count == 0 || StrNumber(p.count-1) != s {
		return false
	}
	p.count--
	return true
}

// StrCursor incrementally builds the string at the top of the arena during
// WriteStr.
type StrCursor struct {
	pool  *StringPool
	start int
	end   int
}

// Extend lengthens the string under construction by n bytes without writing
// them. The bytes already present past the arena tail (from strings removed
// in LIFO order) are adopted as-is.
func (c *StrCursor) Extend(n int) {
	c.end += n
	c.pool.ensure(c.end)
}

// AppendByte appends a single byte.
func (c *StrCursor) AppendByte(b byte) {
	c.pool.ensure(c.end + 1)
	c.pool.data[c.end] = b
	c.end++
}

// AppendStr appends a copy of an existing pool string.
func (c *StrCursor) AppendStr(s StrNumber) {
	str := c.pool.GetStr(s)
	c.pool.ensure(c.end + len(str))
	copy(c.pool.data[c.end:], str)
	c.end += len(str)
}

// AppendSubstr appends bytes [from, to) of an existing pool string.
func (c *StrCursor) AppendSubstr(s StrNumber, from, to int) {
	str := c.pool.GetStr(s)[from:to]
	c.pool.ensure(c.end + len(str))
	copy(c.pool.data[c.end:], str)
	c.end += len(str)
}

// InsertStr writes the bytes of an existing pool string at offset at within
// the string under construction. The caller has already made room with
// Extend; nothing is shifted.
func (c *StrCursor) InsertStr(s StrNumber, at int) {
	copy(c.pool.data[c.start+at:], c.pool.GetStr(s))
}

// Truncate shortens the string under construction to n bytes.
func (c *StrCursor) Truncate(n int) {
	c.end = c.start + n
}

// Bytes returns a mutable view of the string under construction.
func (c *StrCursor) Bytes() []byte {
	return c.pool.data[c.start:c.end]
}

// WriteStr appends a new string whose content is produced incrementally by
// build, returning its id.
func (p *StringPool) WriteStr(build func(*StrCursor)) StrNumber {
	cur := StrCursor{pool: p, start: p.top(), end: p.top()}
	build(&cur)
	return p.commit(cur.end)
}
