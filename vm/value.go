package vm

// ---------------------------------------------------------------------------
// Value: tagged operand-stack values
// ---------------------------------------------------------------------------

// StrNumber is the dense index of a string in the StringPool.
type StrNumber int32

// InvalidStr marks an absent string reference (missing field, spilled
// global).
const InvalidStr StrNumber = -1

// ValueKind tags the possible operand-stack value types.
type ValueKind uint8

const (
	KindInteger ValueKind = iota
	KindString
	KindFunction
	KindMissing
	KindIllegal
)

// String returns the kind's name as used in diagnostics.
func (k ValueKind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindMissing:
		return "missing field"
	default:
		return "illegal"
	}
}

// Value is one operand-stack entry: an integer, a pool string reference, a
// function reference, a missing-field marker carrying the field-name string,
// or the illegal sentinel produced by popping an empty stack.
type Value struct {
	kind ValueKind
	num  int64
}

// Illegal is the degraded value returned by popping an empty stack.
var Illegal = Value{kind: KindIllegal}

// IntegerValue wraps an integer.
func IntegerValue(i int64) Value {
	return Value{kind: KindInteger, num: i}
}

// StringValue wraps a pool string reference.
func StringValue(s StrNumber) Value {
	return Value{kind: KindString, num: int64(s)}
}

// FunctionValue wraps a function reference.
func FunctionValue(f FnRef) Value {
	return Value{kind: KindFunction, num: int64(f)}
}

// MissingValue wraps the field-name string of a missing field.
func MissingValue(name StrNumber) Value {
	return Value{kind: KindMissing, num: int64(name)}
}

// Kind returns the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsInteger reports whether v is an integer.
func (v Value) IsInteger() bool { return v.kind == KindInteger }

// IsString reports whether v is a string reference.
func (v Value) IsString() bool { return v.kind == KindString }

// IsFunction reports whether v is a function reference.
func (v Value) IsFunction() bool { return v.kind == KindFunction }

// IsMissing reports whether v is a missing-field marker.
func (v Value) IsMissing() bool { return v.kind == KindMissing }

// IsIllegal reports whether v is the illegal sentinel.
func (v Value) IsIllegal() bool { return v.kind == KindIllegal }

// Integer returns the wrapped integer.
// Panics if v is not an integer.
func (v Value) Integer() int64 {
	if v.kind != KindInteger {
		panic("Value.Integer: not an integer")
	}
	return v.num
}

// Str returns the wrapped string reference.
// Panics if v is not a string or missing-field marker.
func (v Value) Str() StrNumber {
	if v.kind != KindString && v.kind != KindMissing {
		panic("Value.Str: not a string")
	}
	return StrNumber(v.num)
}

// Fn returns the wrapped function reference.
// Panics if v is not a function.
func (v Value) Fn() FnRef {
	if v.kind != KindFunction {
		panic("Value.Fn: not a function")
	}
	return FnRef(v.num)
}
