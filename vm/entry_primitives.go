package vm

import "fmt"

// ---------------------------------------------------------------------------
// Entry access and assignment builtins
// ---------------------------------------------------------------------------

// interpCite pushes the current citation's key.
func (ctx *ExecCtx) interpCite() {
	if !ctx.messWithEntries {
		ctx.bstCantMessWithEntries()
		return
	}
	ctx.push(StringValue(ctx.e.cites.GetCite(ctx.e.cites.Ptr())))
}

// interpType pushes the current citation's entry-type name, or the empty
// string when the type is unknown.
func (ctx *ExecCtx) interpType() {
	if !ctx.messWithEntries {
		ctx.bstCantMessWithEntries()
		return
	}
	switch ty := ctx.e.cites.GetType(ctx.e.cites.Ptr()); ty {
	case NoType, UndefinedType:
		ctx.push(StringValue(ctx.e.sNull))
	default:
		ctx.push(StringValue(ctx.e.prog.Fn(ty).Text))
	}
}

// interpMissing pops a literal and pushes whether it is a missing field.
func (ctx *ExecCtx) interpMissing() {
	v := ctx.popStack()
	if !ctx.messWithEntries {
		ctx.bstCantMessWithEntries()
		return
	}
	switch v.Kind() {
	case KindMissing:
		ctx.push(IntegerValue(1))
	case KindString:
		ctx.push(IntegerValue(0))
	default:
		if !v.IsIllegal() {
			ctx.printStkLit(v)
			ctx.e.diag.Print(", not a string or missing field,")
			ctx.bstExWarn()
		}
		ctx.push(IntegerValue(0))
	}
}

// interpPreamble pushes the concatenation of all preamble pieces.
func (ctx *ExecCtx) interpPreamble() {
	pieces := ctx.e.bibs.Preamble()
	ctx.push(StringValue(ctx.e.pool.WriteStr(func(c *StrCursor) {
		for _, p := range pieces {
			c.AppendStr(p)
		}
	})))
}

// bstMildExWarn appends the execution location like bstExWarn but counts
// the message as a warning rather than an error.
func (ctx *ExecCtx) bstMildExWarn() {
	if ctx.messWithEntries {
		ctx.e.diag.Print(" for entry ")
		ctx.e.diag.Print(string(ctx.e.pool.GetStr(ctx.e.cites.GetCite(ctx.e.cites.Ptr()))))
	}
	ctx.e.diag.Print("\nwhile executing-")
	ctx.e.bstLnNum()
	ctx.e.diag.MarkWarning()
}

func (ctx *ExecCtx) stringSizeExceeded(limit int, which string) {
	ctx.e.diag.Print(fmt.Sprintf("Warning--you've exceeded %d, the %s", limit, which))
	ctx.bstMildExWarn()
}

// interpSet pops a function literal naming a variable and a value, and
// stores the value in that variable. String slots have fixed capacities;
// an overlong value is truncated with a warning.
func (ctx *ExecCtx) interpSet() {
	vFn := ctx.popStack()
	vVal := ctx.popStack()
	if !vFn.IsFunction() {
		ctx.printWrongStkLit(vFn, KindFunction)
		return
	}
	info := ctx.e.prog.Fn(vFn.Fn())
	switch info.Class {
	case FnIntEntry:
		if !vVal.IsInteger() {
			ctx.printWrongStkLit(vVal, KindInteger)
			return
		}
		if !ctx.messWithEntries {
			ctx.bstCantMessWithEntries()
			return
		}
		ctx.e.entries.SetInt(ctx.e.cites.Ptr(), info.Slot, vVal.Integer())
	case FnStrEntry:
		if !vVal.IsString() {
			ctx.printWrongStkLit(vVal, KindString)
			return
		}
		if !ctx.messWithEntries {
			ctx.bstCantMessWithEntries()
			return
		}
		b := ctx.e.pool.GetStr(vVal.Str())
		if len(b) > ctx.e.cfg.EntStrSize {
			ctx.stringSizeExceeded(ctx.e.cfg.EntStrSize, "entry string size,")
			b = b[:ctx.e.cfg.EntStrSize]
		}
		ctx.e.entries.SetStr(ctx.e.cites.Ptr(), info.Slot, b)
	case FnIntGlobal:
		if !vVal.IsInteger() {
			ctx.printWrongStkLit(vVal, KindInteger)
			return
		}
		info.Int = vVal.Integer()
	case FnStrGlobal:
		if !vVal.IsString() {
			ctx.printWrongStkLit(vVal, KindString)
			return
		}
		s := vVal.Str()
		if !ctx.checkpoint.IsScratch(s) {
			ctx.e.globals.SetStrPtr(info.Slot, s)
			return
		}
		ctx.e.globals.SetStrPtr(info.Slot, InvalidStr)
		b := ctx.e.pool.GetStr(s)
		if len(b) > ctx.e.cfg.GlobStrSize {
			ctx.stringSizeExceeded(ctx.e.cfg.GlobStrSize, "global string size,")
			b = b[:ctx.e.cfg.GlobStrSize]
		}
		ctx.e.globals.SetStr(info.Slot, b)
	default:
		ctx.e.diag.Print(fmt.Sprintf("You can't assign to type %s, a nonvariable function class", info.Class))
		ctx.bstExWarn()
	}
}
