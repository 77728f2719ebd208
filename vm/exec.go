package vm

import (
	"errors"
	"fmt"
)

// ErrFatal reports an internal inconsistency the engine cannot recover
// from. Anything wrapping it means the run must be abandoned.
var ErrFatal = errors.New("fatal execution error")

type fatalError struct{ msg string }

// ExecCtx is the per-command execution state: the literal stack, the
// string-pool checkpoint separating permanent strings from this command's
// scratch strings, and the entry-access mode.
type ExecCtx struct {
	e               *Engine
	stack           []Value
	messWithEntries bool
	checkpoint      Checkpoint
	depth           int
}

// fatal aborts the whole command; Execute/Iterate/Reverse recover it into
// an ErrFatal-wrapped error.
func (ctx *ExecCtx) fatal(msg string) {
	panic(fatalError{msg})
}

// confusion reports an impossible internal state and aborts.
func (ctx *ExecCtx) confusion(msg string) {
	ctx.e.diag.Print(msg)
	ctx.e.diag.Print("---this can't happen\n")
	ctx.e.diag.MarkError()
	ctx.fatal(msg)
}

// ---------------------------------------------------------------------------
// Stack operations
// ---------------------------------------------------------------------------

func (ctx *ExecCtx) push(v Value) {
	ctx.stack = append(ctx.stack, v)
}

// popStack pops the top literal. Popping a scratch string also removes it
// from the pool; the string's bytes stay readable until the next pool write.
// A scratch string popped out of creation order is an internal error.
func (ctx *ExecCtx) popStack() Value {
	if len(ctx.stack) == 0 {
		ctx.e.diag.Print("You can't pop an empty literal stack")
		ctx.bstExWarn()
		return Illegal
	}
	v := ctx.stack[len(ctx.stack)-1]
	ctx.stack = ctx.stack[:len(ctx.stack)-1]
	if v.IsString() && ctx.checkpoint.IsScratch(v.Str()) {
		if !ctx.e.pool.RemoveLastStr(v.Str()) {
			ctx.confusion("Nontop top of string stack")
		}
	}
	return v
}

// ---------------------------------------------------------------------------
// Diagnostics helpers
// ---------------------------------------------------------------------------

// printLit prints one literal on its own line, as the stack dump does.
func (ctx *ExecCtx) printLit(v Value) {
	switch v.Kind() {
	case KindInteger:
		ctx.e.diag.Print(fmt.Sprintf("%d\n", v.Integer()))
	case KindString, KindMissing:
		ctx.e.diag.Print(string(ctx.e.pool.GetStr(v.Str())))
		ctx.e.diag.Print("\n")
	case KindFunction:
		ctx.e.diag.Print(ctx.e.prog.Fn(v.Fn()).Name)
		ctx.e.diag.Print("\n")
	default:
		ctx.confusion("Illegal literal type")
	}
}

// printStkLit prints a literal with its type, mid-sentence.
func (ctx *ExecCtx) printStkLit(v Value) {
	switch v.Kind() {
	case KindInteger:
		ctx.e.diag.Print(fmt.Sprintf("%d is an integer literal", v.Integer()))
	case KindString:
		ctx.e.diag.Print(fmt.Sprintf("%q is a string literal", ctx.e.pool.GetStr(v.Str())))
	case KindFunction:
		ctx.e.diag.Print(fmt.Sprintf("`%s' is a function literal", ctx.e.prog.Fn(v.Fn()).Name))
	case KindMissing:
		ctx.e.diag.Print(fmt.Sprintf("`%s' is a missing field", ctx.e.pool.GetStr(v.Str())))
	default:
		ctx.confusion("Illegal literal type")
	}
}

// printWrongStkLit complains that v is not of the wanted kind. An illegal
// literal has been complained about already and stays silent.
func (ctx *ExecCtx) printWrongStkLit(v Value, want ValueKind) {
	if v.Kind() == KindIllegal {
		return
	}
	ctx.printStkLit(v)
	switch want {
	case KindInteger:
		ctx.e.diag.Print(", not an integer,")
	case KindString:
		ctx.e.diag.Print(", not a string,")
	case KindFunction:
		ctx.e.diag.Print(", not a function,")
	default:
		ctx.confusion("Illegal literal type")
	}
	ctx.bstExWarn()
}

// bstExWarn finishes an execution warning: the offending entry if any, the
// style-file location, and the error mark.
func (ctx *ExecCtx) bstExWarn() {
	if ctx.messWithEntries {
		ctx.e.diag.Print(" for entry ")
		ctx.e.diag.Print(string(ctx.e.pool.GetStr(ctx.e.cites.GetCite(ctx.e.cites.Ptr()))))
	}
	ctx.e.diag.Print("\nwhile executing-")
	ctx.e.bstLnNum()
	ctx.e.diag.MarkError()
}

func (e *Engine) bstLnNum() {
	e.diag.Print(fmt.Sprintf("-line %d of file %s\n", e.bstLine, e.bstName))
}

func (ctx *ExecCtx) bstCantMessWithEntries() {
	ctx.e.diag.Print("You can't mess with entries here")
	ctx.bstExWarn()
}

// ---------------------------------------------------------------------------
// Function execution
// ---------------------------------------------------------------------------

// executeFn runs one function: a builtin dispatches to its primitive, a
// wizard body runs reference by reference, and variables and literals push
// their values.
func (ctx *ExecCtx) executeFn(ref FnRef) {
	if ctx.depth >= ctx.e.cfg.MaxNestDepth {
		ctx.e.diag.Print(fmt.Sprintf("Function nesting depth %d exceeded", ctx.e.cfg.MaxNestDepth))
		ctx.bstExWarn()
		return
	}
	ctx.depth++
	defer func() { ctx.depth-- }()

	info := ctx.e.prog.Fn(ref)
	switch info.Class {
	case FnBuiltin:
		ctx.executeBuiltin(info.Builtin)
	case FnWizard:
		ctx.executeWizard(info.Body)
	case FnField:
		if !ctx.messWithEntries {
			ctx.bstCantMessWithEntries()
			return
		}
		idx := ctx.e.cites.Ptr()*ctx.e.fields.numFields + info.Slot
		if idx >= ctx.e.fields.MaxFields() {
			ctx.confusion("field_info index is out of range")
		}
		if s := ctx.e.fields.Field(idx); s == InvalidStr {
			ctx.push(MissingValue(info.Text))
		} else {
			ctx.push(StringValue(s))
		}
	case FnIntEntry:
		if !ctx.messWithEntries {
			ctx.bstCantMessWithEntries()
			return
		}
		ctx.push(IntegerValue(ctx.e.entries.Int(ctx.e.cites.Ptr(), info.Slot)))
	case FnStrEntry:
		if !ctx.messWithEntries {
			ctx.bstCantMessWithEntries()
			return
		}
		s := ctx.e.pool.AddString(ctx.e.entries.Str(ctx.e.cites.Ptr(), info.Slot))
		ctx.push(StringValue(s))
	case FnIntGlobal:
		ctx.push(IntegerValue(info.Int))
	case FnStrGlobal:
		if s := ctx.e.globals.StrPtr(info.Slot); s != InvalidStr {
			ctx.push(StringValue(s))
		} else {
			ctx.push(StringValue(ctx.e.pool.AddString(ctx.e.globals.Str(info.Slot))))
		}
	case FnTextLiteral:
		ctx.push(StringValue(info.Text))
	case FnIntLiteral:
		ctx.push(IntegerValue(info.Int))
	default:
		ctx.confusion("Unknown function class")
	}
}

func (ctx *ExecCtx) executeWizard(body int) {
	for i := body; ; i++ {
		f := ctx.e.prog.WizFn(i)
		switch f {
		case EndOfDef:
			return
		case QuoteNext:
			i++
			ctx.push(FunctionValue(ctx.e.prog.WizFn(i)))
		default:
			ctx.executeFn(f)
		}
	}
}

func (ctx *ExecCtx) executeBuiltin(b Builtin) {
	switch b {
	case BuiltinEq:
		ctx.interpEq()
	case BuiltinGt:
		ctx.interpGt()
	case BuiltinLt:
		ctx.interpLt()
	case BuiltinPlus:
		ctx.interpPlus()
	case BuiltinMinus:
		ctx.interpMinus()
	case BuiltinConcat:
		ctx.interpConcat()
	case BuiltinSet:
		ctx.interpSet()
	case BuiltinAddPeriod:
		ctx.interpAddPeriod()
	case BuiltinCallType:
		ctx.interpCallType()
	case BuiltinChangeCase:
		ctx.interpChangeCase()
	case BuiltinChrToInt:
		ctx.interpChrToInt()
	case BuiltinCite:
		ctx.interpCite()
	case BuiltinDuplicate:
		ctx.interpDup()
	case BuiltinEmpty:
		ctx.interpEmpty()
	case BuiltinFormatName:
		ctx.interpFormatName()
	case BuiltinIf:
		ctx.interpIf()
	case BuiltinIntToChr:
		ctx.interpIntToChr()
	case BuiltinIntToStr:
		ctx.interpIntToStr()
	case BuiltinMissing:
		ctx.interpMissing()
	case BuiltinNewline:
		ctx.interpNewline()
	case BuiltinNumNames:
		ctx.interpNumNames()
	case BuiltinPop:
		ctx.popStack()
	case BuiltinPreamble:
		ctx.interpPreamble()
	case BuiltinPurify:
		ctx.interpPurify()
	case BuiltinQuote:
		ctx.interpQuote()
	case BuiltinSkip:
		// skip$ does nothing.
	case BuiltinStack:
		ctx.interpStack()
	case BuiltinSubstring:
		ctx.interpSubstring()
	case BuiltinSwap:
		ctx.interpSwap()
	case BuiltinTextLength:
		ctx.interpTextLength()
	case BuiltinTextPrefix:
		ctx.interpTextPrefix()
	case BuiltinTop:
		ctx.interpTop()
	case BuiltinType:
		ctx.interpType()
	case BuiltinWarning:
		ctx.interpWarning()
	case BuiltinWhile:
		ctx.interpWhile()
	case BuiltinWidth:
		ctx.interpWidth()
	case BuiltinWrite:
		ctx.interpWrite()
	default:
		ctx.confusion("Unknown built-in function")
	}
}

// ---------------------------------------------------------------------------
// Control-flow builtins
// ---------------------------------------------------------------------------

// interpIf pops an else function, a then function and an integer, and runs
// the then function when the integer is positive.
func (ctx *ExecCtx) interpIf() {
	elseFn := ctx.popStack()
	thenFn := ctx.popStack()
	cond := ctx.popStack()
	switch {
	case !elseFn.IsFunction():
		ctx.printWrongStkLit(elseFn, KindFunction)
	case !thenFn.IsFunction():
		ctx.printWrongStkLit(thenFn, KindFunction)
	case !cond.IsInteger():
		ctx.printWrongStkLit(cond, KindInteger)
	case cond.Integer() > 0:
		ctx.executeFn(thenFn.Fn())
	default:
		ctx.executeFn(elseFn.Fn())
	}
}

// interpWhile pops a body function and a condition function, then runs the
// body as long as the condition leaves a positive integer.
func (ctx *ExecCtx) interpWhile() {
	bodyFn := ctx.popStack()
	condFn := ctx.popStack()
	switch {
	case !bodyFn.IsFunction():
		ctx.printWrongStkLit(bodyFn, KindFunction)
	case !condFn.IsFunction():
		ctx.printWrongStkLit(condFn, KindFunction)
	default:
		for {
			ctx.executeFn(condFn.Fn())
			cond := ctx.popStack()
			if !cond.IsInteger() {
				ctx.printWrongStkLit(cond, KindInteger)
				return
			}
			if cond.Integer() <= 0 {
				return
			}
			ctx.executeFn(bodyFn.Fn())
		}
	}
}

// interpCallType runs the function resolved for the current citation's
// entry type, or the configured default when the type was never defined.
func (ctx *ExecCtx) interpCallType() {
	if !ctx.messWithEntries {
		ctx.bstCantMessWithEntries()
		return
	}
	switch ty := ctx.e.cites.GetType(ctx.e.cites.Ptr()); ty {
	case NoType:
		// known but empty type: nothing to do
	case UndefinedType:
		if ctx.e.defaultType >= 0 {
			ctx.executeFn(ctx.e.defaultType)
		}
	default:
		ctx.executeFn(ty)
	}
}

// ---------------------------------------------------------------------------
// Command drivers
// ---------------------------------------------------------------------------

func (ctx *ExecCtx) initCommandExecution() {
	ctx.stack = ctx.stack[:0]
	ctx.checkpoint = ctx.e.pool.Checkpoint()
}

func (ctx *ExecCtx) checkCommandExecution() {
	if len(ctx.stack) != 0 {
		ctx.e.diag.Print(fmt.Sprintf("ptr=%d, stack=\n", len(ctx.stack)))
		for len(ctx.stack) > 0 {
			ctx.printLit(ctx.popStack())
		}
		ctx.e.diag.Print("---the literal stack isn't empty")
		ctx.bstExWarn()
	}
	if !ctx.e.pool.IsAt(ctx.checkpoint) {
		ctx.confusion("Nonempty empty string stack")
	}
}

func (e *Engine) run(messWithEntries bool, body func(ctx *ExecCtx)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			f, ok := r.(fatalError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%s: %w", f.msg, ErrFatal)
		}
		e.diag.Flush()
	}()
	e.ctx.messWithEntries = messWithEntries
	body(&e.ctx)
	return nil
}

// Execute runs fn once outside of any entry context.
func (e *Engine) Execute(fn FnRef) error {
	return e.run(false, func(ctx *ExecCtx) {
		ctx.initCommandExecution()
		ctx.executeFn(fn)
		ctx.checkCommandExecution()
	})
}

// Iterate runs fn once per citation, in citation order.
func (e *Engine) Iterate(fn FnRef) error {
	return e.run(true, func(ctx *ExecCtx) {
		for i := 0; i < ctx.e.cites.Num(); i++ {
			ctx.e.cites.SetPtr(i)
			ctx.initCommandExecution()
			ctx.executeFn(fn)
			ctx.checkCommandExecution()
		}
	})
}

// Reverse runs fn once per citation, in reverse citation order.
func (e *Engine) Reverse(fn FnRef) error {
	return e.run(true, func(ctx *ExecCtx) {
		for i := ctx.e.cites.Num() - 1; i >= 0; i-- {
			ctx.e.cites.SetPtr(i)
			ctx.initCommandExecution()
			ctx.executeFn(fn)
			ctx.checkCommandExecution()
		}
	})
}
