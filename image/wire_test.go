package image

import (
	"bytes"
	"testing"

	"github.com/quillmark/bst/vm"
)

func buildEngine(t *testing.T) (*vm.Engine, vm.FnRef) {
	t.Helper()
	e := vm.New(vm.Config{})
	title := e.DefineField("title")
	write, _ := e.Resolve("write$")
	newline, _ := e.Resolve("newline$")
	cite, _ := e.Resolve("cite$")
	emit := e.DefineWizard("emit.entry", []vm.FnRef{cite, write, title, write, newline})

	c := e.AddCitation("key1", vm.NoType)
	e.SetField(c, title, " -- Title One")
	e.AddPreamble("%% p")
	return e, emit
}

func output(t *testing.T, e *vm.Engine, emit vm.FnRef) string {
	t.Helper()
	var out bytes.Buffer
	e.SetOutput(&out)
	if err := e.Iterate(emit); err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	e.FlushOutput()
	return out.String()
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	e, emit := buildEngine(t)
	want := output(t, e, emit)

	data, err := Marshal(e.Snapshot())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	e2 := vm.Restore(snap)
	emit2, ok := e2.Resolve("emit.entry")
	if !ok {
		t.Fatal("restored engine cannot resolve emit.entry")
	}
	if got := output(t, e2, emit2); got != want {
		t.Errorf("restored output = %q, want %q", got, want)
	}
}

func TestMarshalIsDeterministic(t *testing.T) {
	e, _ := buildEngine(t)
	snap := e.Snapshot()

	a, err := Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	b, err := Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("canonical encoding differed between runs")
	}
}

func TestCaptureRestore(t *testing.T) {
	e, emit := buildEngine(t)
	want := output(t, e, emit)

	data, err := Capture(e)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	e2, err := Restore(data)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	emit2, ok := e2.Resolve("emit.entry")
	if !ok {
		t.Fatal("restored engine cannot resolve emit.entry")
	}
	if got := output(t, e2, emit2); got != want {
		t.Errorf("restored output = %q, want %q", got, want)
	}
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	if _, err := Unmarshal([]byte("not cbor at all")); err == nil {
		t.Error("Unmarshal accepted garbage input")
	}
}
