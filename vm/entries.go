package vm

// ---------------------------------------------------------------------------
// Citation cursor and per-run variable storage
// ---------------------------------------------------------------------------

// CiteInfo is the citation list and its cursor. The engine reads it; only
// the host mutates the list.
type CiteInfo struct {
	keys  []StrNumber
	types []FnRef
	ptr   int
}

// Num returns the number of citations.
func (c *CiteInfo) Num() int { return len(c.keys) }

// Ptr returns the citation cursor.
func (c *CiteInfo) Ptr() int { return c.ptr }

// SetPtr moves the citation cursor.
func (c *CiteInfo) SetPtr(i int) { c.ptr = i }

// GetCite returns the citation key string of citation i.
func (c *CiteInfo) GetCite(i int) StrNumber { return c.keys[i] }

// GetType returns the resolved entry-type function of citation i.
func (c *CiteInfo) GetType(i int) FnRef { return c.types[i] }

// SetType overrides the resolved entry-type function of citation i.
func (c *CiteInfo) SetType(i int, ty FnRef) { c.types[i] = ty }

// EntryData holds the per-citation integer and string variable slots,
// cite-major.
type EntryData struct {
	numInts int
	numStrs int
	ints    []int64
	strs    [][]byte
}

// Int returns entry-int slot (cite, slot).
func (e *EntryData) Int(cite, slot int) int64 { return e.ints[cite*e.numInts+slot] }

// SetInt stores entry-int slot (cite, slot).
func (e *EntryData) SetInt(cite, slot int, v int64) { e.ints[cite*e.numInts+slot] = v }

// Str returns entry-string slot (cite, slot).
func (e *EntryData) Str(cite, slot int) []byte { return e.strs[cite*e.numStrs+slot] }

// SetStr stores a copy of b in entry-string slot (cite, slot).
func (e *EntryData) SetStr(cite, slot int, b []byte) {
	e.strs[cite*e.numStrs+slot] = append([]byte(nil), b...)
}

func (e *EntryData) addCite() {
	e.ints = append(e.ints, make([]int64, e.numInts)...)
	e.strs = append(e.strs, make([][]byte, e.numStrs)...)
}

// addIntSlot widens every existing citation's row by one integer slot.
func (e *EntryData) addIntSlot(cites int) int {
	slot := e.numInts
	e.numInts++
	if cites > 0 {
		grown := make([]int64, cites*e.numInts)
		for c := 0; c < cites; c++ {
			copy(grown[c*e.numInts:], e.ints[c*slot:(c+1)*slot])
		}
		e.ints = grown
	}
	return slot
}

// addStrSlot widens every existing citation's row by one string slot.
func (e *EntryData) addStrSlot(cites int) int {
	slot := e.numStrs
	e.numStrs++
	if cites > 0 {
		grown := make([][]byte, cites*e.numStrs)
		for c := 0; c < cites; c++ {
			copy(grown[c*e.numStrs:], e.strs[c*slot:(c+1)*slot])
		}
		e.strs = grown
	}
	return slot
}

// GlobalData holds the string global variable slots. A slot references a
// permanent pool string directly, or carries an inline copy (capped at the
// configured size) when the assigned string was scratch. Integer globals
// live in their FnInfo.
type GlobalData struct {
	strPtrs []StrNumber
	strs    [][]byte
}

// StrPtr returns the pool reference of global slot i, or InvalidStr.
func (g *GlobalData) StrPtr(i int) StrNumber { return g.strPtrs[i] }

// SetStrPtr points global slot i at a pool string.
func (g *GlobalData) SetStrPtr(i int, s StrNumber) { g.strPtrs[i] = s }

// Str returns the inline copy held by global slot i.
func (g *GlobalData) Str(i int) []byte { return g.strs[i] }

// SetStr stores an inline copy of b in global slot i.
func (g *GlobalData) SetStr(i int, b []byte) {
	g.strs[i] = append(g.strs[i][:0], b...)
}

func (g *GlobalData) addSlot() int {
	g.strPtrs = append(g.strPtrs, InvalidStr)
	g.strs = append(g.strs, nil)
	return len(g.strPtrs) - 1
}

// FieldData is the flat field table, cite-major; InvalidStr marks a missing
// field.
type FieldData struct {
	numFields int
	fields    []StrNumber
}

// MaxFields returns the allocated extent of the field table.
func (f *FieldData) MaxFields() int { return len(f.fields) }

// Field returns the raw entry at flat index i.
func (f *FieldData) Field(i int) StrNumber { return f.fields[i] }

func (f *FieldData) addCite() {
	row := make([]StrNumber, f.numFields)
	for i := range row {
		row[i] = InvalidStr
	}
	f.fields = append(f.fields, row...)
}

// addField widens every existing citation's row by one field, marked
// missing.
func (f *FieldData) addField(cites int) int {
	slot := f.numFields
	f.numFields++
	if cites > 0 {
		grown := make([]StrNumber, cites*f.numFields)
		for c := 0; c < cites; c++ {
			copy(grown[c*f.numFields:], f.fields[c*slot:(c+1)*slot])
			grown[c*f.numFields+slot] = InvalidStr
		}
		f.fields = grown
	}
	return slot
}

// BibData carries the bibliography-side values the engine consumes: the
// concatenated preamble pieces.
type BibData struct {
	preamble []StrNumber
}

// Preamble returns the preamble strings in input order.
func (b *BibData) Preamble() []StrNumber { return b.preamble }
