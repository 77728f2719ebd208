package vm

// ---------------------------------------------------------------------------
// Lexical classes and character metrics
// ---------------------------------------------------------------------------

// LexClass is the lexical class of a byte in style-program text.
type LexClass uint8

const (
	LexOther LexClass = iota
	LexWhitespace
	LexAlpha
	LexNumeric
	LexSep // token separators: tie (~) and hyphen
)

var lexClasses [256]LexClass

func init() {
	for _, c := range []byte{'\t', '\n', '\r', ' '} {
		lexClasses[c] = LexWhitespace
	}
	lexClasses['~'] = LexSep
	lexClasses['-'] = LexSep
	for c := '0'; c <= '9'; c++ {
		lexClasses[c] = LexNumeric
	}
	for c := 'a'; c <= 'z'; c++ {
		lexClasses[c] = LexAlpha
	}
	for c := 'A'; c <= 'Z'; c++ {
		lexClasses[c] = LexAlpha
	}
	// Bytes above ASCII are treated as letters so that multibyte text
	// passes through name tokenization unsplit.
	for c := 128; c <= 255; c++ {
		lexClasses[c] = LexAlpha
	}
}

// lexClassOf returns the lexical class of c.
func lexClassOf(c byte) LexClass {
	return lexClasses[c]
}

func lowerASCII(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}

func upperASCII(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

// ---------------------------------------------------------------------------
// Control sequences
// ---------------------------------------------------------------------------

// ControlSeq identifies one of the foreign-letter TeX control sequences the
// engine understands inside brace groups.
type ControlSeq uint8

const (
	CSLowerI ControlSeq = iota
	CSLowerJ
	CSLowerAA
	CSUpperAA
	CSLowerAE
	CSUpperAE
	CSLowerOE
	CSUpperOE
	CSLowerO
	CSUpperO
	CSLowerL
	CSUpperL
	CSLowerSS
)

var controlSeqs = map[string]ControlSeq{
	"i":  CSLowerI,
	"j":  CSLowerJ,
	"aa": CSLowerAA,
	"AA": CSUpperAA,
	"ae": CSLowerAE,
	"AE": CSUpperAE,
	"oe": CSLowerOE,
	"OE": CSUpperOE,
	"o":  CSLowerO,
	"O":  CSUpperO,
	"l":  CSLowerL,
	"L":  CSUpperL,
	"ss": CSLowerSS,
}

// lookupControlSeq resolves a control-sequence name (without backslash).
func lookupControlSeq(name []byte) (ControlSeq, bool) {
	cs, ok := controlSeqs[string(name)]
	return cs, ok
}

// isUpperSeq reports whether cs denotes an uppercase glyph.
func isUpperSeq(cs ControlSeq) bool {
	switch cs {
	case CSUpperAA, CSUpperAE, CSUpperOE, CSUpperO, CSUpperL:
		return true
	}
	return false
}

// charWidth holds the width of each printable ASCII character in
// thousandths of an em (cmr10 metrics, like the original engine).
var charWidth [256]int64

func init() {
	widths := map[byte]int64{
		' ': 278, '!': 278, '"': 500, '#': 833, '$': 500, '%': 833,
		'&': 778, '\'': 278, '(': 389, ')': 389, '*': 500, '+': 778,
		',': 278, '-': 333, '.': 278, '/': 500,
		':': 278, ';': 278, '<': 278, '=': 778, '>': 472, '?': 472,
		'@': 778,
		'A': 750, 'B': 708, 'C': 722, 'D': 764, 'E': 681, 'F': 653,
		'G': 785, 'H': 750, 'I': 361, 'J': 514, 'K': 778, 'L': 625,
		'M': 917, 'N': 750, 'O': 778, 'P': 681, 'Q': 778, 'R': 736,
		'S': 556, 'T': 722, 'U': 750, 'V': 750, 'W': 1028, 'X': 750,
		'Y': 750, 'Z': 611,
		'[': 278, '\\': 500, ']': 278, '^': 500, '_': 278, '`': 278,
		'a': 500, 'b': 556, 'c': 444, 'd': 556, 'e': 444, 'f': 306,
		'g': 500, 'h': 556, 'i': 278, 'j': 306, 'k': 528, 'l': 278,
		'm': 833, 'n': 556, 'o': 500, 'p': 556, 'q': 528, 'r': 392,
		's': 394, 't': 389, 'u': 556, 'v': 528, 'w': 722, 'x': 528,
		'y': 528, 'z': 444,
		'{': 500, '|': 1000, '}': 500, '~': 500,
	}
	for c := '0'; c <= '9'; c++ {
		charWidth[c] = 500
	}
	for c, w := range widths {
		charWidth[c] = w
	}
}
