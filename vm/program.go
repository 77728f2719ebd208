package vm

// ---------------------------------------------------------------------------
// Program: the identifier table and wizard-function bodies
// ---------------------------------------------------------------------------

// FnRef identifies a registered function. Negative values are markers that
// never name a real function.
type FnRef int32

const (
	// EndOfDef terminates a wizard-function body.
	EndOfDef FnRef = -1
	// QuoteNext makes the following reference in a wizard body be pushed
	// as a function value instead of executed.
	QuoteNext FnRef = -2
	// NoType marks a citation whose entry type resolved to nothing.
	NoType FnRef = -3
	// UndefinedType marks a citation whose entry type was never defined.
	UndefinedType FnRef = -4
)

// FnClass tags the role of a registered identifier. The set is closed at
// registration time.
type FnClass uint8

const (
	FnBuiltin FnClass = iota
	FnWizard
	FnField
	FnIntEntry
	FnStrEntry
	FnIntGlobal
	FnStrGlobal
	FnTextLiteral
	FnIntLiteral
)

// String returns the class name used in assignment diagnostics.
func (c FnClass) String() string {
	switch c {
	case FnBuiltin:
		return "a built-in function"
	case FnWizard:
		return "a wizard-defined function"
	case FnField:
		return "a field"
	case FnIntEntry:
		return "an integer entry variable"
	case FnStrEntry:
		return "a string entry variable"
	case FnIntGlobal:
		return "an integer global variable"
	case FnStrGlobal:
		return "a string global variable"
	case FnTextLiteral:
		return "a string literal"
	default:
		return "an integer literal"
	}
}

// Builtin enumerates the primitive style-language functions.
type Builtin uint8

const (
	BuiltinEq Builtin = iota
	BuiltinGt
	BuiltinLt
	BuiltinPlus
	BuiltinMinus
	BuiltinConcat
	BuiltinSet
	BuiltinAddPeriod
	BuiltinCallType
	BuiltinChangeCase
	BuiltinChrToInt
	BuiltinCite
	BuiltinDuplicate
	BuiltinEmpty
	BuiltinFormatName
	BuiltinIf
	BuiltinIntToChr
	BuiltinIntToStr
	BuiltinMissing
	BuiltinNewline
	BuiltinNumNames
	BuiltinPop
	BuiltinPreamble
	BuiltinPurify
	BuiltinQuote
	BuiltinSkip
	BuiltinStack
	BuiltinSubstring
	BuiltinSwap
	BuiltinTextLength
	BuiltinTextPrefix
	BuiltinTop
	BuiltinType
	BuiltinWarning
	BuiltinWhile
	BuiltinWidth
	BuiltinWrite
)

// builtinNames maps style-language names to builtins, in registration
// order.
var builtinNames = []struct {
	name string
	fn   Builtin
}{
	{"=", BuiltinEq},
	{">", BuiltinGt},
	{"<", BuiltinLt},
	{"+", BuiltinPlus},
	{"-", BuiltinMinus},
	{"*", BuiltinConcat},
	{":=", BuiltinSet},
	{"add.period$", BuiltinAddPeriod},
	{"call.type$", BuiltinCallType},
	{"change.case$", BuiltinChangeCase},
	{"chr.to.int$", BuiltinChrToInt},
	{"cite$", BuiltinCite},
	{"duplicate$", BuiltinDuplicate},
	{"empty$", BuiltinEmpty},
	{"format.name$", BuiltinFormatName},
	{"if$", BuiltinIf},
	{"int.to.chr$", BuiltinIntToChr},
	{"int.to.str$", BuiltinIntToStr},
	{"missing$", BuiltinMissing},
	{"newline$", BuiltinNewline},
	{"num.names$", BuiltinNumNames},
	{"pop$", BuiltinPop},
	{"preamble$", BuiltinPreamble},
	{"purify$", BuiltinPurify},
	{"quote$", BuiltinQuote},
	{"skip$", BuiltinSkip},
	{"stack$", BuiltinStack},
	{"substring$", BuiltinSubstring},
	{"swap$", BuiltinSwap},
	{"text.length$", BuiltinTextLength},
	{"text.prefix$", BuiltinTextPrefix},
	{"top$", BuiltinTop},
	{"type$", BuiltinType},
	{"warning$", BuiltinWarning},
	{"while$", BuiltinWhile},
	{"width$", BuiltinWidth},
	{"write$", BuiltinWrite},
}

// FnInfo describes one registered identifier.
type FnInfo struct {
	Class   FnClass
	Name    string
	Text    StrNumber // pool string of the name, or of the literal itself
	Builtin Builtin   // FnBuiltin only
	Body    int       // FnWizard: start index into the wizard sequence
	Slot    int       // variable classes: storage slot index
	Int     int64     // FnIntLiteral value; FnIntGlobal current value
}

// Program is the populated identifier table together with the flattened
// wizard-function bodies.
type Program struct {
	fns    []FnInfo
	byName map[string]FnRef
	wiz    []FnRef
}

func newProgram() *Program {
	return &Program{byName: make(map[string]FnRef)}
}

// Resolve looks up an identifier by its style-language name.
func (p *Program) Resolve(name string) (FnRef, bool) {
	ref, ok := p.byName[name]
	return ref, ok
}

// Fn returns the descriptor of ref.
func (p *Program) Fn(ref FnRef) *FnInfo { return &p.fns[ref] }

// NumFns returns the number of registered identifiers.
func (p *Program) NumFns() int { return len(p.fns) }

// WizFn returns entry i of the flattened wizard sequence.
func (p *Program) WizFn(i int) FnRef { return p.wiz[i] }

// WizSeq returns the whole flattened wizard sequence.
func (p *Program) WizSeq() []FnRef { return p.wiz }

func (p *Program) add(name string, info FnInfo) FnRef {
	ref := FnRef(len(p.fns))
	info.Name = name
	p.fns = append(p.fns, info)
	if name != "" {
		p.byName[name] = ref
	}
	return ref
}
