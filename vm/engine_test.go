package vm

import "testing"

// ---------------------------------------------------------------------------
// Engine construction and builder API tests
// ---------------------------------------------------------------------------

func TestConfigDefaults(t *testing.T) {
	e := New(Config{})
	if e.cfg.BufSize != 256 {
		t.Errorf("BufSize = %d, want 256", e.cfg.BufSize)
	}
	if e.cfg.EntStrSize != 250 {
		t.Errorf("EntStrSize = %d, want 250", e.cfg.EntStrSize)
	}
	if e.cfg.GlobStrSize != 20000 {
		t.Errorf("GlobStrSize = %d, want 20000", e.cfg.GlobStrSize)
	}
	if e.cfg.MaxPrintLine != 79 {
		t.Errorf("MaxPrintLine = %d, want 79", e.cfg.MaxPrintLine)
	}
	if e.cfg.MinPrintLine != 3 {
		t.Errorf("MinPrintLine = %d, want 3", e.cfg.MinPrintLine)
	}
	if e.cfg.MaxNestDepth != 4096 {
		t.Errorf("MaxNestDepth = %d, want 4096", e.cfg.MaxNestDepth)
	}
	if e.cfg.LogName != "bst.vm" {
		t.Errorf("LogName = %q, want bst.vm", e.cfg.LogName)
	}
}

func TestBuiltinsAreRegistered(t *testing.T) {
	e := New(Config{})
	for _, b := range builtinNames {
		ref, ok := e.Resolve(b.name)
		if !ok {
			t.Errorf("builtin %q not registered", b.name)
			continue
		}
		info := e.prog.Fn(ref)
		if info.Class != FnBuiltin || info.Builtin != b.fn {
			t.Errorf("builtin %q registered as %v/%d", b.name, info.Class, info.Builtin)
		}
	}
	if len(builtinNames) != 37 {
		t.Errorf("builtin count = %d, want 37", len(builtinNames))
	}
}

func TestInternTextDedupes(t *testing.T) {
	e := New(Config{})
	a := e.InternText("et al.")
	b := e.InternText("et al.")
	if a != b {
		t.Errorf("same literal interned twice: %d, %d", a, b)
	}
	if got := string(e.pool.GetStr(e.prog.Fn(a).Text)); got != "et al." {
		t.Errorf("literal text = %q", got)
	}
}

func TestInternIntegerDedupes(t *testing.T) {
	e := New(Config{})
	a := e.InternInteger(1986)
	b := e.InternInteger(1986)
	c := e.InternInteger(-3)
	if a != b {
		t.Errorf("same integer interned twice: %d, %d", a, b)
	}
	if a == c {
		t.Error("different integers share a ref")
	}
	if got := e.prog.Fn(c).Int; got != -3 {
		t.Errorf("literal value = %d, want -3", got)
	}
}

func TestDefineVariableSlots(t *testing.T) {
	e := New(Config{})
	f1 := e.DefineField("author")
	f2 := e.DefineField("title")
	if e.prog.Fn(f1).Slot != 0 || e.prog.Fn(f2).Slot != 1 {
		t.Errorf("field slots = %d, %d", e.prog.Fn(f1).Slot, e.prog.Fn(f2).Slot)
	}

	s1 := e.DefineStrEntry("label")
	s2 := e.DefineStrEntry("sort.key")
	if e.prog.Fn(s1).Slot != 0 || e.prog.Fn(s2).Slot != 1 {
		t.Errorf("entry string slots = %d, %d", e.prog.Fn(s1).Slot, e.prog.Fn(s2).Slot)
	}
}

func TestFieldsDefaultToMissing(t *testing.T) {
	e := New(Config{})
	author := e.DefineField("author")
	title := e.DefineField("title")
	c := e.AddCitation("k", NoType)
	e.SetField(c, title, "A Title")

	if got := e.fields.Field(c*e.fields.numFields + e.prog.Fn(author).Slot); got != InvalidStr {
		t.Errorf("unset field = %d, want InvalidStr", got)
	}
	set := e.fields.Field(c*e.fields.numFields + e.prog.Fn(title).Slot)
	if got := string(e.pool.GetStr(set)); got != "A Title" {
		t.Errorf("set field = %q", got)
	}
}

func TestDefineAfterCitationsGrowsStorage(t *testing.T) {
	e := New(Config{})
	author := e.DefineField("author")
	c0 := e.AddCitation("a", NoType)
	c1 := e.AddCitation("b", NoType)
	e.SetField(c0, author, "First")

	// Definitions made after citations exist widen every row in place.
	title := e.DefineField("title")
	count := e.DefineIntEntry("count")
	label := e.DefineStrEntry("label")

	if got := string(e.pool.GetStr(e.fields.Field(c0*e.fields.numFields + e.prog.Fn(author).Slot))); got != "First" {
		t.Errorf("earlier field value = %q, want First", got)
	}
	for _, c := range []int{c0, c1} {
		if got := e.fields.Field(c*e.fields.numFields + e.prog.Fn(title).Slot); got != InvalidStr {
			t.Errorf("late field of citation %d = %d, want InvalidStr", c, got)
		}
	}
	e.SetField(c1, title, "A Title")
	if got := string(e.pool.GetStr(e.fields.Field(c1*e.fields.numFields + e.prog.Fn(title).Slot))); got != "A Title" {
		t.Errorf("late field value = %q, want A Title", got)
	}

	e.entries.SetInt(c1, e.prog.Fn(count).Slot, 7)
	if got := e.entries.Int(c1, e.prog.Fn(count).Slot); got != 7 {
		t.Errorf("late entry int = %d, want 7", got)
	}
	if got := e.entries.Int(c0, e.prog.Fn(count).Slot); got != 0 {
		t.Errorf("untouched entry int = %d, want 0", got)
	}
	e.entries.SetStr(c0, e.prog.Fn(label).Slot, []byte("x1"))
	if got := string(e.entries.Str(c0, e.prog.Fn(label).Slot)); got != "x1" {
		t.Errorf("late entry string = %q, want x1", got)
	}
}

func TestAddCitationIndexes(t *testing.T) {
	e := New(Config{})
	if i := e.AddCitation("a", NoType); i != 0 {
		t.Errorf("first citation index = %d", i)
	}
	if i := e.AddCitation("b", NoType); i != 1 {
		t.Errorf("second citation index = %d", i)
	}
	if e.Cites().Num() != 2 {
		t.Errorf("Num = %d, want 2", e.Cites().Num())
	}
}

func TestDefineWizardAppendsEndMarker(t *testing.T) {
	e := New(Config{})
	skip := mustResolve(t, e, "skip$")
	w := e.DefineWizard("w", []FnRef{skip, skip})
	body := e.prog.Fn(w).Body
	seq := e.prog.WizSeq()
	if seq[body] != skip || seq[body+1] != skip || seq[body+2] != EndOfDef {
		t.Errorf("wizard body = %v", seq[body:body+3])
	}
}
