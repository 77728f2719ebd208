package vm

import "fmt"

// ---------------------------------------------------------------------------
// Brace-aware text transforms
// ---------------------------------------------------------------------------

type caseConv uint8

const (
	convTitle caseConv = iota
	convLower
	convUpper
	convBad
)

// bracesUnbalancedComplaint warns that s has mismatched braces.
func (ctx *ExecCtx) bracesUnbalancedComplaint(s StrNumber) {
	ctx.e.diag.Print(fmt.Sprintf("Warning--%q isn't brace balanced", ctx.e.pool.GetStr(s)))
	ctx.bstMildExWarn()
}

// interpChangeCase pops a conversion-spec string and a subject string and
// pushes the case-converted subject. Spec "t" lowercases everything except
// the first character and characters following a colon and whitespace; "l"
// and "u" force lower and upper case. Brace groups starting with a
// backslash are foreign-letter special characters: the control sequence
// itself is folded through the recognized table and the rest of the group
// follows the conversion; any other brace group is left untouched.
func (ctx *ExecCtx) interpChangeCase() {
	vSpec := ctx.popStack()
	vStr := ctx.popStack()
	if !vSpec.IsString() {
		ctx.printWrongStkLit(vSpec, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	if !vStr.IsString() {
		ctx.printWrongStkLit(vStr, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	spec := ctx.e.pool.GetStr(vSpec.Str())
	conv := convBad
	if len(spec) == 1 {
		switch lowerASCII(spec[0]) {
		case 't':
			conv = convTitle
		case 'l':
			conv = convLower
		case 'u':
			conv = convUpper
		}
	}
	if conv == convBad {
		ctx.e.diag.Print(fmt.Sprintf("%q is an illegal case-conversion string", spec))
		ctx.bstExWarn()
	}

	src := ctx.e.pool.GetStr(vStr.Str())
	ctx.e.buffers.Ensure(len(src))
	out := ctx.e.buffers.Buffer(BufEx)[:0]

	braceLevel := 0
	prevColon := false
	unbalanced := false
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '{':
			braceLevel++
			if braceLevel == 1 && i+1 < len(src) && src[i+1] == '\\' && conv != convBad {
				protected := conv == convTitle &&
					(i == 0 || (prevColon && lexClassOf(src[i-1]) == LexWhitespace))
				var lvl int
				out, i, lvl = ctx.convertSpecialChar(out, src, i, conv, protected)
				braceLevel = lvl
				prevColon = false
				continue
			}
			prevColon = false
			out = append(out, c)
			i++
		case c == '}':
			if braceLevel == 0 {
				unbalanced = true
			} else {
				braceLevel--
			}
			prevColon = false
			out = append(out, c)
			i++
		case braceLevel > 0:
			out = append(out, c)
			i++
		default:
			switch conv {
			case convLower:
				c = lowerASCII(c)
			case convUpper:
				c = upperASCII(c)
			case convTitle:
				if i != 0 && !(prevColon && lexClassOf(src[i-1]) == LexWhitespace) {
					c = lowerASCII(c)
				}
			}
			if src[i] == ':' {
				prevColon = true
			} else if lexClassOf(src[i]) != LexWhitespace {
				prevColon = false
			}
			out = append(out, c)
			i++
		}
	}
	if unbalanced || braceLevel != 0 {
		ctx.bracesUnbalancedComplaint(vStr.Str())
	}
	ctx.push(StringValue(ctx.e.pool.AddString(out)))
}

// convertSpecialChar converts one special-character group starting at the
// opening brace src[i] and returns the updated output, the index just past
// the group, and the residual brace level (nonzero when the group never
// closed).
func (ctx *ExecCtx) convertSpecialChar(out, src []byte, i int, conv caseConv, protected bool) ([]byte, int, int) {
	braceLevel := 1
	out = append(out, src[i])
	i++
	for braceLevel > 0 && i < len(src) {
		c := src[i]
		switch {
		case c == '\\' && !protected:
			nameStart := i + 1
			j := nameStart
			for j < len(src) && lexClassOf(src[j]) == LexAlpha {
				j++
			}
			name := src[nameStart:j]
			i = j
			if cs, ok := lookupControlSeq(name); ok {
				out = ctx.foldControlSeq(out, src, &i, cs, name, conv)
			} else {
				out = append(out, '\\')
				out = append(out, name...)
			}
		case c == '{':
			braceLevel++
			out = append(out, c)
			i++
		case c == '}':
			braceLevel--
			out = append(out, c)
			i++
		default:
			if !protected {
				switch conv {
				case convUpper:
					c = upperASCII(c)
				default:
					c = lowerASCII(c)
				}
			}
			out = append(out, c)
			i++
		}
	}
	return out, i, braceLevel - 1
}

// foldControlSeq writes the case-folded form of a recognized control
// sequence. Uppercasing the backslash-less sequences (dotless i and j, and
// the sharp s) drops the backslash and eats the whitespace run that
// delimited the name.
func (ctx *ExecCtx) foldControlSeq(out, src []byte, i *int, cs ControlSeq, name []byte, conv caseConv) []byte {
	if conv == convUpper {
		switch cs {
		case CSLowerI:
			out = append(out, 'I')
		case CSLowerJ:
			out = append(out, 'J')
		case CSLowerSS:
			out = append(out, 'S', 'S')
		default:
			out = append(out, '\\')
			for _, b := range name {
				out = append(out, upperASCII(b))
			}
			return out
		}
		for *i < len(src) && lexClassOf(src[*i]) == LexWhitespace {
			*i++
		}
		return out
	}
	// lower and title both fold toward lowercase
	out = append(out, '\\')
	if isUpperSeq(cs) {
		for _, b := range name {
			out = append(out, lowerASCII(b))
		}
	} else {
		out = append(out, name...)
	}
	return out
}

// interpPurify pops a string and pushes it reduced to letters, digits and
// single spaces. Whitespace and separator runs become one space; inside a
// special character only the letters of a recognized control sequence
// survive, so bare accents vanish.
func (ctx *ExecCtx) interpPurify() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	src := ctx.e.pool.GetStr(v.Str())
	ctx.e.buffers.Ensure(len(src))
	out := ctx.e.buffers.Buffer(BufEx)[:0]

	appendSpace := func(out []byte) []byte {
		if len(out) > 0 && out[len(out)-1] == ' ' {
			return out
		}
		return append(out, ' ')
	}

	braceLevel := 0
	for i := 0; i < len(src); {
		c := src[i]
		switch lexClassOf(c) {
		case LexWhitespace, LexSep:
			out = appendSpace(out)
			i++
		case LexAlpha, LexNumeric:
			if c < 128 {
				out = append(out, c)
			}
			i++
		default:
			switch c {
			case '{':
				braceLevel++
				if braceLevel == 1 && i+1 < len(src) && src[i+1] == '\\' {
					out, i = purifySpecialChar(out, src, i)
					braceLevel = 0
					continue
				}
				i++
			case '}':
				if braceLevel > 0 {
					braceLevel--
				}
				i++
			default:
				i++
			}
		}
	}
	ctx.push(StringValue(ctx.e.pool.AddString(out)))
}

// purifySpecialChar keeps only the rendering letters of a special
// character, returning the updated output and the index past the group.
func purifySpecialChar(out, src []byte, i int) ([]byte, int) {
	braceLevel := 1
	i++
	for braceLevel > 0 && i < len(src) {
		switch c := src[i]; c {
		case '\\':
			j := i + 1
			for j < len(src) && lexClassOf(src[j]) == LexAlpha {
				j++
			}
			if cs, ok := lookupControlSeq(src[i+1 : j]); ok {
				switch cs {
				case CSLowerAE, CSUpperAE, CSLowerOE, CSUpperOE, CSLowerSS:
					out = append(out, src[i+1], src[i+2])
				default:
					out = append(out, src[i+1])
				}
			}
			i = j
		case '{':
			braceLevel++
			i++
		case '}':
			braceLevel--
			i++
		default:
			if lexClassOf(c) == LexAlpha || lexClassOf(c) == LexNumeric {
				if c < 128 {
					out = append(out, c)
				}
			}
			i++
		}
	}
	return out, i
}

// interpTextLength pops a string and pushes its character count, where a
// special character counts as one and plain braces count as none.
func (ctx *ExecCtx) interpTextLength() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(IntegerValue(0))
		return
	}
	src := ctx.e.pool.GetStr(v.Str())
	var count int64
	braceLevel := 0
	for i := 0; i < len(src); {
		switch src[i] {
		case '{':
			braceLevel++
			if braceLevel == 1 && i+1 < len(src) && src[i+1] == '\\' {
				count++
				i = skipSpecialChar(src, i)
				braceLevel = 0
				continue
			}
			i++
		case '}':
			if braceLevel > 0 {
				braceLevel--
			}
			i++
		default:
			count++
			i++
		}
	}
	ctx.push(IntegerValue(count))
}

// skipSpecialChar returns the index past the special character whose
// opening brace is at src[i].
func skipSpecialChar(src []byte, i int) int {
	braceLevel := 1
	i++
	for braceLevel > 0 && i < len(src) {
		switch src[i] {
		case '{':
			braceLevel++
		case '}':
			braceLevel--
		}
		i++
	}
	return i
}

// interpTextPrefix pops a count and a string and pushes the prefix holding
// that many characters by the text.length$ counting rule, re-closing any
// braces the cut left open.
func (ctx *ExecCtx) interpTextPrefix() {
	vNum := ctx.popStack()
	vStr := ctx.popStack()
	if !vNum.IsInteger() {
		ctx.printWrongStkLit(vNum, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	if !vStr.IsString() {
		ctx.printWrongStkLit(vStr, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	want := vNum.Integer()
	s := vStr.Str()
	src := ctx.e.pool.GetStr(s)

	var count int64
	braceLevel := 0
	i := 0
	for i < len(src) && count < want {
		switch src[i] {
		case '{':
			braceLevel++
			if braceLevel == 1 && i+1 < len(src) && src[i+1] == '\\' {
				count++
				i = skipSpecialChar(src, i)
				braceLevel = 0
				continue
			}
			i++
		case '}':
			if braceLevel > 0 {
				braceLevel--
			}
			i++
		default:
			count++
			i++
		}
	}
	end := i
	closers := braceLevel
	ctx.push(StringValue(ctx.e.pool.WriteStr(func(c *StrCursor) {
		c.AppendSubstr(s, 0, end)
		for k := 0; k < closers; k++ {
			c.AppendByte('}')
		}
	})))
}

// interpWidth pops a string and pushes its width in thousandths of an em,
// using fixed roman-font metrics. Recognized control sequences inside
// special characters use their glyph widths; an unrecognized sequence
// contributes nothing. Mismatched braces draw a warning either way.
func (ctx *ExecCtx) interpWidth() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(IntegerValue(0))
		return
	}
	s := v.Str()
	src := ctx.e.pool.GetStr(s)
	var width int64
	braceLevel := 0
	for i := 0; i < len(src); {
		c := src[i]
		switch c {
		case '{':
			braceLevel++
			if braceLevel == 1 && i+1 < len(src) && src[i+1] == '\\' {
				width += specialCharWidth(src, &i)
				braceLevel = 0
				continue
			}
			width += charWidth[c]
			i++
		case '}':
			if braceLevel == 0 {
				ctx.bracesUnbalancedComplaint(s)
			} else {
				braceLevel--
			}
			width += charWidth[c]
			i++
		default:
			width += charWidth[c]
			i++
		}
	}
	if braceLevel != 0 {
		ctx.bracesUnbalancedComplaint(s)
	}
	ctx.push(IntegerValue(width))
}

// specialCharWidth measures the special character whose opening brace is at
// src[*i], advancing *i past it. The braces, the control-sequence names and
// the whitespace that trails a name are free; everything else in the group
// counts at its metric width.
func specialCharWidth(src []byte, i *int) int64 {
	var width int64
	braceLevel := 1
	j := *i + 1
	for j < len(src) && braceLevel > 0 {
		j++
		nameStart := j
		for j < len(src) && lexClassOf(src[j]) == LexAlpha {
			j++
		}
		if j < len(src) && j == nameStart {
			j++
		} else if cs, ok := lookupControlSeq(src[nameStart:j]); ok {
			switch cs {
			case CSLowerSS:
				width += 500
			case CSLowerAE:
				width += 722
			case CSLowerOE:
				width += 778
			case CSUpperAE:
				width += 903
			case CSUpperOE:
				width += 1014
			default:
				width += charWidth[src[nameStart]]
			}
		}
		for j < len(src) && lexClassOf(src[j]) == LexWhitespace {
			j++
		}
		for j < len(src) && braceLevel > 0 && src[j] != '\\' {
			switch src[j] {
			case '{':
				braceLevel++
			case '}':
				braceLevel--
			default:
				width += charWidth[src[j]]
			}
			j++
		}
	}
	*i = j
	return width
}
