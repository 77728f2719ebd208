package vm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Entry access tests
// ---------------------------------------------------------------------------

func TestCiteAndType(t *testing.T) {
	e := New(Config{})
	article := e.DefineWizard("article", nil)
	e.AddCitation("knuth84", article)
	e.cites.SetPtr(0)

	ctx := testCtx(e)
	ctx.messWithEntries = true
	ctx.interpCite()
	if got := popString(t, ctx); got != "knuth84" {
		t.Errorf("cite$ = %q, want knuth84", got)
	}

	ctx.interpType()
	if got := popString(t, ctx); got != "article" {
		t.Errorf("type$ = %q, want article", got)
	}
}

func TestTypeUnknownIsEmpty(t *testing.T) {
	for _, ty := range []FnRef{NoType, UndefinedType} {
		e := New(Config{})
		e.AddCitation("k", ty)
		e.cites.SetPtr(0)
		ctx := testCtx(e)
		ctx.messWithEntries = true
		ctx.interpType()
		if got := popString(t, ctx); got != "" {
			t.Errorf("type$ for %d = %q, want empty", ty, got)
		}
	}
}

func TestCiteOutsideEntries(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	ctx.interpCite()
	if !strings.Contains(e.diag.Transcript(), "You can't mess with entries here") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

func TestMissingFieldValue(t *testing.T) {
	e := New(Config{})
	title := e.DefineField("title")
	e.AddCitation("k1", NoType)
	e.AddCitation("k2", NoType)
	e.SetField(1, title, "Some Title")

	missing := mustResolve(t, e, "missing$")
	set := mustResolve(t, e, ":=")
	flag := e.DefineIntEntry("title.missing")
	w := e.DefineWizard("check", []FnRef{title, missing, QuoteNext, flag, set})

	if err := e.Iterate(w); err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if got := e.entries.Int(0, e.prog.Fn(flag).Slot); got != 1 {
		t.Errorf("k1 missing flag = %d, want 1", got)
	}
	if got := e.entries.Int(1, e.prog.Fn(flag).Slot); got != 0 {
		t.Errorf("k2 missing flag = %d, want 0", got)
	}
}

func TestPreamble(t *testing.T) {
	e := New(Config{})
	e.AddPreamble("\\newcommand{\\noop}[1]{}")
	e.AddPreamble(" % end")
	ctx := testCtx(e)
	ctx.interpPreamble()
	if got := popString(t, ctx); got != "\\newcommand{\\noop}[1]{} % end" {
		t.Errorf("preamble$ = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Assignment tests
// ---------------------------------------------------------------------------

func TestSetIntGlobal(t *testing.T) {
	e := New(Config{})
	g := e.DefineIntGlobal("counter")
	ctx := testCtx(e)
	ctx.push(IntegerValue(7))
	ctx.push(FunctionValue(g))
	ctx.interpSet()
	if got := e.prog.Fn(g).Int; got != 7 {
		t.Errorf("counter = %d, want 7", got)
	}
}

func TestSetStrGlobalPermanentKeepsPoolRef(t *testing.T) {
	e := New(Config{})
	g := e.DefineStrGlobal("label")
	s := permanentStr(e, "permanent value")
	ctx := testCtx(e)
	ctx.push(StringValue(s))
	ctx.push(FunctionValue(g))
	ctx.interpSet()

	info := e.prog.Fn(g)
	if e.globals.StrPtr(info.Slot) != s {
		t.Error("permanent assignment did not keep the pool reference")
	}
	if got := globalString(e, g); got != "permanent value" {
		t.Errorf("label = %q", got)
	}
}

func TestSetStrGlobalScratchCopies(t *testing.T) {
	e := New(Config{})
	g := e.DefineStrGlobal("label")
	ctx := testCtx(e)
	pushScratch(ctx, "scratch value")
	ctx.push(FunctionValue(g))
	ctx.interpSet()

	info := e.prog.Fn(g)
	if e.globals.StrPtr(info.Slot) != InvalidStr {
		t.Error("scratch assignment kept a pool reference")
	}
	if got := globalString(e, g); got != "scratch value" {
		t.Errorf("label = %q", got)
	}
}

func TestSetStrGlobalTruncates(t *testing.T) {
	e := New(Config{GlobStrSize: 4})
	g := e.DefineStrGlobal("short")
	ctx := testCtx(e)
	pushScratch(ctx, "too long for the slot")
	ctx.push(FunctionValue(g))
	ctx.interpSet()

	if got := globalString(e, g); got != "too " {
		t.Errorf("truncated value = %q, want \"too \"", got)
	}
	if !strings.Contains(e.diag.Transcript(), "Warning--you've exceeded 4, the global string size,") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
	if e.diag.Warnings() != 1 {
		t.Errorf("warnings = %d, want 1", e.diag.Warnings())
	}
}

func TestSetEntryVars(t *testing.T) {
	e := New(Config{EntStrSize: 6})
	iv := e.DefineIntEntry("count")
	sv := e.DefineStrEntry("tag")
	e.AddCitation("k", NoType)
	e.cites.SetPtr(0)

	ctx := testCtx(e)
	ctx.messWithEntries = true
	ctx.push(IntegerValue(3))
	ctx.push(FunctionValue(iv))
	ctx.interpSet()
	if got := e.entries.Int(0, e.prog.Fn(iv).Slot); got != 3 {
		t.Errorf("count = %d, want 3", got)
	}

	pushScratch(ctx, "overlong")
	ctx.push(FunctionValue(sv))
	ctx.interpSet()
	if got := string(e.entries.Str(0, e.prog.Fn(sv).Slot)); got != "overlo" {
		t.Errorf("tag = %q, want overlo", got)
	}
	if !strings.Contains(e.diag.Transcript(), "you've exceeded 6, the entry string size,") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

func TestSetEntryVarOutsideEntries(t *testing.T) {
	e := New(Config{})
	iv := e.DefineIntEntry("count")
	ctx := testCtx(e)
	ctx.push(IntegerValue(1))
	ctx.push(FunctionValue(iv))
	ctx.interpSet()
	if !strings.Contains(e.diag.Transcript(), "You can't mess with entries here") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

func TestSetNonvariable(t *testing.T) {
	e := New(Config{})
	lit := e.InternText("just text")
	ctx := testCtx(e)
	ctx.push(IntegerValue(1))
	ctx.push(FunctionValue(lit))
	ctx.interpSet()
	if !strings.Contains(e.diag.Transcript(), "a nonvariable function class") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

func TestStrEntryReadGivesScratchCopy(t *testing.T) {
	e := New(Config{})
	sv := e.DefineStrEntry("tag")
	e.AddCitation("k", NoType)
	e.entries.SetStr(0, e.prog.Fn(sv).Slot, []byte("stored"))
	e.cites.SetPtr(0)

	ctx := testCtx(e)
	ctx.messWithEntries = true
	ctx.executeFn(sv)
	v := ctx.stack[len(ctx.stack)-1]
	if !v.IsString() || !ctx.checkpoint.IsScratch(v.Str()) {
		t.Fatal("entry string read did not push a scratch copy")
	}
	if got := popString(t, ctx); got != "stored" {
		t.Errorf("tag = %q, want stored", got)
	}
}
