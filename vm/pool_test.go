package vm

import (
	"bytes"
	"testing"
)

// ---------------------------------------------------------------------------
// StringPool tests
// ---------------------------------------------------------------------------

func TestAddStringGetStr(t *testing.T) {
	pool := NewStringPool()

	a := pool.AddString([]byte("alpha"))
	b := pool.AddString([]byte("beta"))

	if got := string(pool.GetStr(a)); got != "alpha" {
		t.Errorf("GetStr(a) = %q, want alpha", got)
	}
	if got := string(pool.GetStr(b)); got != "beta" {
		t.Errorf("GetStr(b) = %q, want beta", got)
	}
	if pool.Count() != 2 {
		t.Errorf("Count = %d, want 2", pool.Count())
	}
}

func TestAddEmptyString(t *testing.T) {
	pool := NewStringPool()
	s := pool.AddString(nil)
	if got := pool.GetStr(s); len(got) != 0 {
		t.Errorf("empty string has %d bytes", len(got))
	}
}

func TestRemoveLastStrLIFO(t *testing.T) {
	pool := NewStringPool()
	a := pool.AddString([]byte("a"))
	b := pool.AddString([]byte("b"))

	if pool.RemoveLastStr(a) {
		t.Error("removed a while b was on top")
	}
	if !pool.RemoveLastStr(b) {
		t.Error("could not remove top string b")
	}
	if pool.Count() != 1 {
		t.Errorf("Count = %d, want 1", pool.Count())
	}
	if !pool.RemoveLastStr(a) {
		t.Error("could not remove top string a")
	}
}

func TestRemovedBytesStayReadable(t *testing.T) {
	pool := NewStringPool()
	s := pool.AddString([]byte("hello"))
	pool.RemoveLastStr(s)

	// The logical top moved but the arena bytes are untouched.
	if got := string(pool.GetStr(s)); got != "hello" {
		t.Errorf("stale read = %q, want hello", got)
	}
}

func TestCheckpoint(t *testing.T) {
	pool := NewStringPool()
	perm := pool.AddString([]byte("perm"))

	cp := pool.Checkpoint()
	if !pool.IsAt(cp) {
		t.Error("IsAt false right after Checkpoint")
	}
	if cp.IsScratch(perm) {
		t.Error("string below checkpoint counted as scratch")
	}

	scr := pool.AddString([]byte("scratch"))
	if !cp.IsScratch(scr) {
		t.Error("string above checkpoint not counted as scratch")
	}
	if pool.IsAt(cp) {
		t.Error("IsAt true with a scratch string live")
	}

	pool.RemoveLastStr(scr)
	if !pool.IsAt(cp) {
		t.Error("IsAt false after scratch removed")
	}
}

func TestWriteStrExtendAdoptsRemovedBytes(t *testing.T) {
	pool := NewStringPool()
	s := pool.AddString([]byte("scratch"))
	pool.RemoveLastStr(s)

	// The removed string's bytes sit at the arena top; Extend adopts
	// them wholesale.
	s2 := pool.WriteStr(func(c *StrCursor) {
		c.Extend(7)
	})
	if got := string(pool.GetStr(s2)); got != "scratch" {
		t.Errorf("adopted bytes = %q, want scratch", got)
	}
}

func TestWriteStrBuild(t *testing.T) {
	pool := NewStringPool()
	ab := pool.AddString([]byte("ab"))
	wxyz := pool.AddString([]byte("wxyz"))

	s := pool.WriteStr(func(c *StrCursor) {
		c.AppendByte('<')
		c.AppendStr(ab)
		c.AppendSubstr(wxyz, 1, 3)
		c.AppendByte('>')
	})
	if got := string(pool.GetStr(s)); got != "<abxy>" {
		t.Errorf("built string = %q, want <abxy>", got)
	}
}

func TestWriteStrInsertAndTruncate(t *testing.T) {
	pool := NewStringPool()
	ab := pool.AddString([]byte("ab"))

	s := pool.WriteStr(func(c *StrCursor) {
		c.Extend(4)
		b := c.Bytes()
		b[2] = 'x'
		b[3] = 'y'
		c.InsertStr(ab, 0)
		c.Truncate(3)
	})
	if got := string(pool.GetStr(s)); got != "abx" {
		t.Errorf("built string = %q, want abx", got)
	}
}

func TestPoolGrowthPreservesContent(t *testing.T) {
	pool := NewStringPool()
	first := pool.AddString([]byte("first"))
	big := bytes.Repeat([]byte("x"), 4096)
	pool.AddString(big)

	if got := string(pool.GetStr(first)); got != "first" {
		t.Errorf("after growth, GetStr(first) = %q", got)
	}
}
