package vm

import (
	"bytes"
	"fmt"
	"strconv"
)

// ---------------------------------------------------------------------------
// Comparison and arithmetic builtins
// ---------------------------------------------------------------------------

// interpEq pops two literals and pushes 1 if they are equal integers or
// equal strings, 0 otherwise.
func (ctx *ExecCtx) interpEq() {
	v2 := ctx.popStack()
	v1 := ctx.popStack()
	if v1.Kind() != v2.Kind() {
		if !v1.IsIllegal() && !v2.IsIllegal() {
			ctx.printStkLit(v1)
			ctx.e.diag.Print(", ")
			ctx.printStkLit(v2)
			ctx.e.diag.Print("\n---they aren't the same literal types")
			ctx.bstExWarn()
		}
		ctx.push(IntegerValue(0))
		return
	}
	switch v1.Kind() {
	case KindInteger:
		ctx.pushBool(v1.Integer() == v2.Integer())
	case KindString:
		ctx.pushBool(bytes.Equal(ctx.e.pool.GetStr(v1.Str()), ctx.e.pool.GetStr(v2.Str())))
	default:
		if !v1.IsIllegal() {
			ctx.printStkLit(v1)
			ctx.e.diag.Print(", not an integer or a string,")
			ctx.bstExWarn()
		}
		ctx.push(IntegerValue(0))
	}
}

func (ctx *ExecCtx) pushBool(b bool) {
	if b {
		ctx.push(IntegerValue(1))
	} else {
		ctx.push(IntegerValue(0))
	}
}

// popTwoInts pops the right then the left operand of a binary integer
// builtin. ok is false after a type mismatch, with 0 already pushed.
func (ctx *ExecCtx) popTwoInts() (left, right int64, ok bool) {
	v2 := ctx.popStack()
	v1 := ctx.popStack()
	if !v2.IsInteger() {
		ctx.printWrongStkLit(v2, KindInteger)
	} else if !v1.IsInteger() {
		ctx.printWrongStkLit(v1, KindInteger)
	} else {
		return v1.Integer(), v2.Integer(), true
	}
	ctx.push(IntegerValue(0))
	return 0, 0, false
}

// interpGt pops two integers and pushes whether the second-popped exceeds
// the first-popped.
func (ctx *ExecCtx) interpGt() {
	if l, r, ok := ctx.popTwoInts(); ok {
		ctx.pushBool(l > r)
	}
}

// interpLt is the mirror of interpGt.
func (ctx *ExecCtx) interpLt() {
	if l, r, ok := ctx.popTwoInts(); ok {
		ctx.pushBool(l < r)
	}
}

// interpPlus pops two integers and pushes their sum.
func (ctx *ExecCtx) interpPlus() {
	if l, r, ok := ctx.popTwoInts(); ok {
		ctx.push(IntegerValue(l + r))
	}
}

// interpMinus pops two integers and pushes their difference.
func (ctx *ExecCtx) interpMinus() {
	if l, r, ok := ctx.popTwoInts(); ok {
		ctx.push(IntegerValue(l - r))
	}
}

// interpChrToInt pops a one-character string and pushes its byte value.
func (ctx *ExecCtx) interpChrToInt() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(IntegerValue(0))
		return
	}
	s := ctx.e.pool.GetStr(v.Str())
	if len(s) != 1 {
		ctx.e.diag.Print(fmt.Sprintf("%q isn't a single character", s))
		ctx.bstExWarn()
		ctx.push(IntegerValue(0))
		return
	}
	ctx.push(IntegerValue(int64(s[0])))
}

// interpIntToChr pops a byte value and pushes the one-character string.
func (ctx *ExecCtx) interpIntToChr() {
	v := ctx.popStack()
	if !v.IsInteger() {
		ctx.printWrongStkLit(v, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	i := v.Integer()
	if i < 0 || i > 127 {
		ctx.e.diag.Print(fmt.Sprintf("%d isn't valid ASCII", i))
		ctx.bstExWarn()
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	s := ctx.e.pool.WriteStr(func(c *StrCursor) {
		c.AppendByte(byte(i))
	})
	ctx.push(StringValue(s))
}

// interpIntToStr pops an integer and pushes its decimal rendering.
func (ctx *ExecCtx) interpIntToStr() {
	v := ctx.popStack()
	if !v.IsInteger() {
		ctx.printWrongStkLit(v, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	s := ctx.e.pool.AddString(strconv.AppendInt(nil, v.Integer(), 10))
	ctx.push(StringValue(s))
}
