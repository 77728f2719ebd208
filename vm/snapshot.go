package vm

// ---------------------------------------------------------------------------
// Engine state capture
// ---------------------------------------------------------------------------

// Snapshot is a self-contained copy of everything an engine needs to resume
// processing: the string pool, the identifier table with its wizard bodies,
// the citation list and all variable storage. The wire encoding lives in
// the image package.
type Snapshot struct {
	Config Config `cbor:"config"`

	PoolData   []byte `cbor:"pool-data"`
	PoolStarts []int  `cbor:"pool-starts"`
	PoolCount  int    `cbor:"pool-count"`

	Fns []FnInfo `cbor:"fns"`
	Wiz []FnRef  `cbor:"wiz"`

	CiteKeys  []StrNumber `cbor:"cite-keys"`
	CiteTypes []FnRef     `cbor:"cite-types"`

	NumEntInts int      `cbor:"num-ent-ints"`
	NumEntStrs int      `cbor:"num-ent-strs"`
	EntInts    []int64  `cbor:"ent-ints"`
	EntStrs    [][]byte `cbor:"ent-strs"`

	GlobPtrs []StrNumber `cbor:"glob-ptrs"`
	GlobStrs [][]byte    `cbor:"glob-strs"`

	NumFields int         `cbor:"num-fields"`
	Fields    []StrNumber `cbor:"fields"`

	Preamble []StrNumber `cbor:"preamble"`

	BstName     string `cbor:"bst-name"`
	BstLine     int    `cbor:"bst-line"`
	DefaultType FnRef  `cbor:"default-type"`
}

// Snapshot captures the engine's full state. The engine must be between
// commands: scratch strings are not captured.
func (e *Engine) Snapshot() *Snapshot {
	s := &Snapshot{
		Config:      e.cfg,
		PoolData:    append([]byte(nil), e.pool.data[:e.pool.top()]...),
		PoolStarts:  append([]int(nil), e.pool.starts[:e.pool.count+1]...),
		PoolCount:   e.pool.count,
		Fns:         append([]FnInfo(nil), e.prog.fns...),
		Wiz:         append([]FnRef(nil), e.prog.wiz...),
		CiteKeys:    append([]StrNumber(nil), e.cites.keys...),
		CiteTypes:   append([]FnRef(nil), e.cites.types...),
		NumEntInts:  e.entries.numInts,
		NumEntStrs:  e.entries.numStrs,
		EntInts:     append([]int64(nil), e.entries.ints...),
		GlobPtrs:    append([]StrNumber(nil), e.globals.strPtrs...),
		NumFields:   e.fields.numFields,
		Fields:      append([]StrNumber(nil), e.fields.fields...),
		Preamble:    append([]StrNumber(nil), e.bibs.preamble...),
		BstName:     e.bstName,
		BstLine:     e.bstLine,
		DefaultType: e.defaultType,
	}
	s.EntStrs = make([][]byte, len(e.entries.strs))
	for i, b := range e.entries.strs {
		s.EntStrs[i] = append([]byte(nil), b...)
	}
	s.GlobStrs = make([][]byte, len(e.globals.strs))
	for i, b := range e.globals.strs {
		s.GlobStrs[i] = append([]byte(nil), b...)
	}
	return s
}

// Restore builds a fresh engine from a snapshot.
func Restore(s *Snapshot) *Engine {
	e := &Engine{
		cfg:     s.Config.withDefaults(),
		buffers: NewBufferSet(s.Config.withDefaults().BufSize),
		prog:    newProgram(),
		cites:   &CiteInfo{},
		entries: &EntryData{},
		globals: &GlobalData{},
		fields:  &FieldData{},
		bibs:    &BibData{},
		diag:    NewDiagnostics(s.Config.withDefaults().LogName),
	}
	e.pool = &StringPool{
		data:   append([]byte(nil), s.PoolData...),
		starts: append([]int(nil), s.PoolStarts...),
		count:  s.PoolCount,
	}
	e.prog.fns = append([]FnInfo(nil), s.Fns...)
	for i, fn := range e.prog.fns {
		if fn.Name != "" {
			e.prog.byName[fn.Name] = FnRef(i)
		}
	}
	e.prog.wiz = append([]FnRef(nil), s.Wiz...)
	e.cites.keys = append([]StrNumber(nil), s.CiteKeys...)
	e.cites.types = append([]FnRef(nil), s.CiteTypes...)
	e.entries.numInts = s.NumEntInts
	e.entries.numStrs = s.NumEntStrs
	e.entries.ints = append([]int64(nil), s.EntInts...)
	e.entries.strs = make([][]byte, len(s.EntStrs))
	for i, b := range s.EntStrs {
		e.entries.strs[i] = append([]byte(nil), b...)
	}
	e.globals.strPtrs = append([]StrNumber(nil), s.GlobPtrs...)
	e.globals.strs = make([][]byte, len(s.GlobStrs))
	for i, b := range s.GlobStrs {
		e.globals.strs[i] = append([]byte(nil), b...)
	}
	e.fields.numFields = s.NumFields
	e.fields.fields = append([]StrNumber(nil), s.Fields...)
	e.bibs.preamble = append([]StrNumber(nil), s.Preamble...)
	e.bstName = s.BstName
	e.bstLine = s.BstLine
	e.defaultType = s.DefaultType
	e.sNull = 0 // New interns the empty string first
	e.ctx = ExecCtx{e: e}
	return e
}
