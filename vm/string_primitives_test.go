package vm

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Concatenation tests
// ---------------------------------------------------------------------------

// pushPermanent interns s below the checkpoint. The caller must do this
// before testCtx; here we rely on string literals being permanent.
func permanentStr(e *Engine, s string) StrNumber {
	return e.prog.Fn(e.InternText(s)).Text
}

func TestConcatScratchScratch(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	pushScratch(ctx, "foo")
	pushScratch(ctx, "bar")
	ctx.interpConcat()
	if got := popString(t, ctx); got != "foobar" {
		t.Errorf("concat = %q, want foobar", got)
	}
	if !e.pool.IsAt(ctx.checkpoint) {
		t.Error("pool not back at checkpoint after popping the result")
	}
}

func TestConcatPermanentPermanent(t *testing.T) {
	e := New(Config{})
	s1 := permanentStr(e, "left")
	s2 := permanentStr(e, "right")
	ctx := testCtx(e)
	ctx.push(StringValue(s1))
	ctx.push(StringValue(s2))
	ctx.interpConcat()
	if got := popString(t, ctx); got != "leftright" {
		t.Errorf("concat = %q, want leftright", got)
	}
	if !e.pool.IsAt(ctx.checkpoint) {
		t.Error("pool not back at checkpoint")
	}
}

func TestConcatScratchPermanent(t *testing.T) {
	e := New(Config{})
	s2 := permanentStr(e, "perm")
	ctx := testCtx(e)
	pushScratch(ctx, "scr")
	ctx.push(StringValue(s2))
	ctx.interpConcat()
	if got := popString(t, ctx); got != "scrperm" {
		t.Errorf("concat = %q, want scrperm", got)
	}
}

func TestConcatPermanentScratch(t *testing.T) {
	e := New(Config{})
	s1 := permanentStr(e, "perm")
	ctx := testCtx(e)
	ctx.push(StringValue(s1))
	pushScratch(ctx, "scr")
	ctx.interpConcat()
	if got := popString(t, ctx); got != "permscr" {
		t.Errorf("concat = %q, want permscr", got)
	}
}

func TestConcatEmptyOperands(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	pushScratch(ctx, "keep")
	pushScratch(ctx, "")
	ctx.interpConcat()
	if got := popString(t, ctx); got != "keep" {
		t.Errorf("concat with empty right = %q, want keep", got)
	}

	ctx = testCtx(e)
	pushScratch(ctx, "")
	pushScratch(ctx, "keep")
	ctx.interpConcat()
	if got := popString(t, ctx); got != "keep" {
		t.Errorf("concat with empty left = %q, want keep", got)
	}
}

func TestConcatWrongOperand(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	pushScratch(ctx, "ok")
	ctx.push(IntegerValue(1))
	ctx.interpConcat()
	if got := popString(t, ctx); got != "" {
		t.Errorf("concat with integer = %q, want empty", got)
	}
	if !strings.Contains(e.diag.Transcript(), "not a string,") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

// ---------------------------------------------------------------------------
// add.period$ tests
// ---------------------------------------------------------------------------

func TestAddPeriod(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"hello", "hello."},
		{"done.", "done."},
		{"what?", "what?"},
		{"wow!", "wow!"},
		{"quoted.}", "quoted.}"},
		{"brace}", "brace}."},
		{"", ""},
		{"}", "}."},
	}
	for _, tt := range tests {
		e := New(Config{})
		ctx := testCtx(e)
		pushScratch(ctx, tt.in)
		ctx.interpAddPeriod()
		if got := popString(t, ctx); got != tt.want {
			t.Errorf("add.period$ %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// quote$, empty$, substring$ tests
// ---------------------------------------------------------------------------

func TestQuote(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	ctx.interpQuote()
	if got := popString(t, ctx); got != `"` {
		t.Errorf("quote$ = %q, want a double quote", got)
	}
}

func TestEmpty(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"", 1},
		{"  \t ", 1},
		{"x", 0},
		{" x ", 0},
	}
	for _, tt := range tests {
		e := New(Config{})
		ctx := testCtx(e)
		pushScratch(ctx, tt.in)
		ctx.interpEmpty()
		if got := popInt(t, ctx); got != tt.want {
			t.Errorf("empty$ %q = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestEmptyMissingField(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	ctx.push(MissingValue(e.sNull))
	ctx.interpEmpty()
	if got := popInt(t, ctx); got != 1 {
		t.Errorf("empty$ on missing field = %d, want 1", got)
	}
}

func TestEmptyWrongKind(t *testing.T) {
	e := New(Config{})
	ctx := testCtx(e)
	ctx.push(IntegerValue(3))
	ctx.interpEmpty()
	if got := popInt(t, ctx); got != 0 {
		t.Errorf("empty$ on integer = %d, want 0", got)
	}
	if !strings.Contains(e.diag.Transcript(), "not a string or missing field,") {
		t.Errorf("transcript = %q", e.diag.Transcript())
	}
}

func TestSubstring(t *testing.T) {
	tests := []struct {
		start  int64
		length int64
		want   string
	}{
		{2, 3, "bcd"},
		{1, 6, "abcdef"},
		{1, 99, "abcdef"},
		{6, 3, "f"},
		{-1, 2, "ef"},
		{-2, 3, "cde"},
		{0, 2, ""},
		{7, 1, ""},
		{-7, 1, ""},
		{2, 0, ""},
		{2, -1, ""},
	}
	for _, tt := range tests {
		e := New(Config{})
		ctx := testCtx(e)
		pushScratch(ctx, "abcdef")
		ctx.push(IntegerValue(tt.start))
		ctx.push(IntegerValue(tt.length))
		ctx.interpSubstring()
		if got := popString(t, ctx); got != tt.want {
			t.Errorf("substring$ abcdef %d %d = %q, want %q", tt.start, tt.length, got, tt.want)
		}
		if !e.pool.IsAt(ctx.checkpoint) {
			t.Errorf("substring$ %d %d left the pool off checkpoint", tt.start, tt.length)
		}
	}
}
