// Package vm implements the execution engine for a bibliography-style
// transformation language: a stack-based postfix virtual machine that reads
// per-citation bibliographic data and a compiled style program and emits
// formatted bibliography text.
package vm

import (
	"io"
	"strconv"
)

// Config carries the engine limits. The zero value selects the classic
// defaults.
type Config struct {
	// BufSize is the starting capacity of the workspace buffers.
	BufSize int `toml:"buf-size"`
	// EntStrSize caps string entry variables.
	EntStrSize int `toml:"ent-str-size"`
	// GlobStrSize caps inline copies held by string global variables.
	GlobStrSize int `toml:"glob-str-size"`
	// MaxPrintLine is the output wrap column.
	MaxPrintLine int `toml:"max-print-line"`
	// MinPrintLine is the minimum look-back column when wrapping.
	MinPrintLine int `toml:"min-print-line"`
	// MaxNestDepth bounds wizard/if$/while$ nesting.
	MaxNestDepth int `toml:"max-nest-depth"`
	// LogName is the commonlog logger name for diagnostics.
	LogName string `toml:"log-name"`
}

// withDefaults fills in unset limits.
func (c Config) withDefaults() Config {
	if c.BufSize <= 0 {
		c.BufSize = 256
	}
	if c.EntStrSize <= 0 {
		c.EntStrSize = 250
	}
	if c.GlobStrSize <= 0 {
		c.GlobStrSize = 20000
	}
	if c.MaxPrintLine <= 0 {
		c.MaxPrintLine = 79
	}
	if c.MinPrintLine <= 0 {
		c.MinPrintLine = 3
	}
	if c.MaxNestDepth <= 0 {
		c.MaxNestDepth = 4096
	}
	if c.LogName == "" {
		c.LogName = "bst.vm"
	}
	return c
}

// Engine owns every mutable resource of one interpreter instance: the
// string pool, the workspace buffers, the identifier table, the citation
// list and its variable storage, the diagnostics sink and the output
// accumulator. One engine processes one citation at a time; nothing here is
// safe for concurrent use.
type Engine struct {
	cfg     Config
	pool    *StringPool
	buffers *BufferSet
	prog    *Program
	cites   *CiteInfo
	entries *EntryData
	globals *GlobalData
	fields  *FieldData
	bibs    *BibData
	diag    *Diagnostics

	bbl    io.Writer
	bblErr error

	bstName string
	bstLine int

	sNull       StrNumber
	defaultType FnRef

	ctx ExecCtx
}

// New creates an engine with all builtins registered.
func New(cfg Config) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:         cfg,
		pool:        NewStringPool(),
		buffers:     NewBufferSet(cfg.BufSize),
		prog:        newProgram(),
		cites:       &CiteInfo{},
		entries:     &EntryData{},
		globals:     &GlobalData{},
		fields:      &FieldData{},
		bibs:        &BibData{},
		diag:        NewDiagnostics(cfg.LogName),
		defaultType: NoType,
	}
	e.sNull = e.pool.AddString(nil)
	for _, b := range builtinNames {
		e.prog.add(b.name, FnInfo{
			Class:   FnBuiltin,
			Text:    e.pool.AddString([]byte(b.name)),
			Builtin: b.fn,
		})
	}
	e.ctx = ExecCtx{e: e}
	return e
}

// Pool returns the engine's string pool.
func (e *Engine) Pool() *StringPool { return e.pool }

// Program returns the engine's identifier table.
func (e *Engine) Program() *Program { return e.prog }

// Cites returns the engine's citation list.
func (e *Engine) Cites() *CiteInfo { return e.cites }

// Diagnostics returns the engine's log sink.
func (e *Engine) Diagnostics() *Diagnostics { return e.diag }

// SetOutput directs formatted bibliography text to w.
func (e *Engine) SetOutput(w io.Writer) { e.bbl = w }

// OutputErr returns the first error hit while writing output, if any.
func (e *Engine) OutputErr() error { return e.bblErr }

// SetLocation records the style-program file name and line used in
// execution diagnostics.
func (e *Engine) SetLocation(name string, line int) {
	e.bstName = name
	e.bstLine = line
}

// SetDefaultType installs the function run by call.type$ for citations
// whose entry type is undefined.
func (e *Engine) SetDefaultType(fn FnRef) { e.defaultType = fn }

// ---------------------------------------------------------------------------
// Builder API: what the (external) style-program reader calls
// ---------------------------------------------------------------------------

// Resolve looks up an identifier by name.
func (e *Engine) Resolve(name string) (FnRef, bool) {
	return e.prog.Resolve(name)
}

func (e *Engine) internName(name string) StrNumber {
	return e.pool.AddString([]byte(name))
}

// InternText registers a string literal and returns its reference.
func (e *Engine) InternText(s string) FnRef {
	if ref, ok := e.prog.Resolve(s); ok && e.prog.Fn(ref).Class == FnTextLiteral {
		return ref
	}
	id := e.pool.AddString([]byte(s))
	return e.prog.add(s, FnInfo{Class: FnTextLiteral, Text: id})
}

// InternInteger registers an integer literal and returns its reference.
func (e *Engine) InternInteger(i int64) FnRef {
	name := "#" + strconv.FormatInt(i, 10)
	if ref, ok := e.prog.Resolve(name); ok {
		return ref
	}
	return e.prog.add(name, FnInfo{Class: FnIntLiteral, Int: i, Text: e.internName(name)})
}

// DefineField registers a field name. Citations added earlier hold the
// missing value for it.
func (e *Engine) DefineField(name string) FnRef {
	slot := e.fields.addField(e.cites.Num())
	return e.prog.add(name, FnInfo{Class: FnField, Slot: slot, Text: e.internName(name)})
}

// DefineIntEntry registers a per-entry integer variable.
func (e *Engine) DefineIntEntry(name string) FnRef {
	slot := e.entries.addIntSlot(e.cites.Num())
	return e.prog.add(name, FnInfo{Class: FnIntEntry, Slot: slot, Text: e.internName(name)})
}

// DefineStrEntry registers a per-entry string variable.
func (e *Engine) DefineStrEntry(name string) FnRef {
	slot := e.entries.addStrSlot(e.cites.Num())
	return e.prog.add(name, FnInfo{Class: FnStrEntry, Slot: slot, Text: e.internName(name)})
}

// DefineIntGlobal registers a global integer variable.
func (e *Engine) DefineIntGlobal(name string) FnRef {
	return e.prog.add(name, FnInfo{Class: FnIntGlobal, Text: e.internName(name)})
}

// DefineStrGlobal registers a global string variable.
func (e *Engine) DefineStrGlobal(name string) FnRef {
	slot := e.globals.addSlot()
	return e.prog.add(name, FnInfo{Class: FnStrGlobal, Slot: slot, Text: e.internName(name)})
}

// DefineWizard registers a user-defined function with the given body. The
// body is a sequence of references, with QuoteNext marking a reference to
// be pushed rather than executed; the end marker is appended here.
func (e *Engine) DefineWizard(name string, body []FnRef) FnRef {
	start := len(e.prog.wiz)
	e.prog.wiz = append(e.prog.wiz, body...)
	e.prog.wiz = append(e.prog.wiz, EndOfDef)
	return e.prog.add(name, FnInfo{Class: FnWizard, Body: start, Text: e.internName(name)})
}

// AddCitation appends a citation with the given key and resolved entry
// type (a wizard reference, NoType, or UndefinedType). Returns its index.
func (e *Engine) AddCitation(key string, entryType FnRef) int {
	e.cites.keys = append(e.cites.keys, e.pool.AddString([]byte(key)))
	e.cites.types = append(e.cites.types, entryType)
	e.entries.addCite()
	e.fields.addCite()
	return len(e.cites.keys) - 1
}

// SetField stores a field value for one citation.
func (e *Engine) SetField(cite int, field FnRef, value string) {
	info := e.prog.Fn(field)
	e.fields.fields[cite*e.fields.numFields+info.Slot] = e.pool.AddString([]byte(value))
}

// AddPreamble appends one preamble piece.
func (e *Engine) AddPreamble(s string) {
	e.bibs.preamble = append(e.bibs.preamble, e.pool.AddString([]byte(s)))
}
