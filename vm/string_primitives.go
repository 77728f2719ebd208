package vm

// ---------------------------------------------------------------------------
// String builtins: concatenation, periods, substrings
// ---------------------------------------------------------------------------

// repushString pushes s back after it was just popped off the top of the
// stack. A scratch string was removed from the pool by the pop, but its
// bytes still sit at the arena top, so recreating it is a length bump.
func (ctx *ExecCtx) repushString(s StrNumber) {
	if ctx.checkpoint.IsScratch(s) {
		n := len(ctx.e.pool.GetStr(s))
		s = ctx.e.pool.WriteStr(func(c *StrCursor) {
			c.Extend(n)
		})
	}
	ctx.push(StringValue(s))
}

// interpConcat pops two strings and pushes their concatenation, left
// operand first. Scratch operands are reused in place: their bytes already
// lie contiguously at the arena top in concatenation order when both are
// scratch, and a single shift-and-insert covers the mixed cases.
func (ctx *ExecCtx) interpConcat() {
	v2 := ctx.popStack() // right operand
	v1 := ctx.popStack() // left operand
	if !v2.IsString() {
		ctx.printWrongStkLit(v2, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	if !v1.IsString() {
		ctx.printWrongStkLit(v1, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	pool := ctx.e.pool
	s1, s2 := v1.Str(), v2.Str()
	len1, len2 := len(pool.GetStr(s1)), len(pool.GetStr(s2))

	switch {
	case len2 == 0:
		ctx.repushString(s1)
	case len1 == 0:
		if ctx.checkpoint.IsScratch(s2) {
			// Both pops landed the arena top at the start of the
			// result bytes, whatever s1's status was.
			ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
				c.Extend(len2)
			})))
		} else {
			ctx.push(StringValue(s2))
		}
	case ctx.checkpoint.IsScratch(s1):
		// s1's bytes start at the arena top; s2's bytes, if scratch,
		// directly follow in order.
		ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
			if ctx.checkpoint.IsScratch(s2) {
				c.Extend(len1 + len2)
			} else {
				c.Extend(len1)
				c.AppendStr(s2)
			}
		})))
	case ctx.checkpoint.IsScratch(s2):
		// Only the right operand is scratch: shift its bytes up to
		// make room, then drop the permanent left operand in front.
		ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
			c.Extend(len1 + len2)
			b := c.Bytes()
			copy(b[len1:], b[:len2])
			c.InsertStr(s1, 0)
		})))
	default:
		ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
			c.AppendStr(s1)
			c.AppendStr(s2)
		})))
	}
}

// interpAddPeriod pops a string and appends a period unless the last
// character before any closing braces already ends a sentence.
func (ctx *ExecCtx) interpAddPeriod() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	s := v.Str()
	str := ctx.e.pool.GetStr(s)
	if len(str) == 0 {
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	ptr := len(str)
	for ptr > 1 && str[ptr-1] == '}' {
		ptr--
	}
	switch str[ptr-1] {
	case '.', '?', '!':
		ctx.repushString(s)
	default:
		n := len(str)
		ctx.push(StringValue(ctx.e.pool.WriteStr(func(c *StrCursor) {
			if ctx.checkpoint.IsScratch(s) {
				c.Extend(n)
			} else {
				c.AppendStr(s)
			}
			c.AppendByte('.')
		})))
	}
}

// interpQuote pushes a string holding one double-quote character.
func (ctx *ExecCtx) interpQuote() {
	ctx.push(StringValue(ctx.e.pool.WriteStr(func(c *StrCursor) {
		c.AppendByte('"')
	})))
}

// interpEmpty pops a literal and pushes 1 for a missing field or a string
// of nothing but whitespace, 0 otherwise.
func (ctx *ExecCtx) interpEmpty() {
	v := ctx.popStack()
	switch v.Kind() {
	case KindString:
		for _, b := range ctx.e.pool.GetStr(v.Str()) {
			if lexClassOf(b) != LexWhitespace {
				ctx.push(IntegerValue(0))
				return
			}
		}
		ctx.push(IntegerValue(1))
	case KindMissing:
		ctx.push(IntegerValue(1))
	case KindIllegal:
		ctx.push(IntegerValue(0))
	default:
		ctx.printStkLit(v)
		ctx.e.diag.Print(", not a string or missing field,")
		ctx.bstExWarn()
		ctx.push(IntegerValue(0))
	}
}

// interpSubstring pops a length, a one-based start position and a string,
// and pushes the selected slice. A negative start counts from the end of
// the string, with the slice extending toward the front.
func (ctx *ExecCtx) interpSubstring() {
	vLen := ctx.popStack()
	vStart := ctx.popStack()
	vStr := ctx.popStack()
	if !vLen.IsInteger() {
		ctx.printWrongStkLit(vLen, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	if !vStart.IsInteger() {
		ctx.printWrongStkLit(vStart, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	if !vStr.IsString() {
		ctx.printWrongStkLit(vStr, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	s := vStr.Str()
	strLen := len(ctx.e.pool.GetStr(s))
	length := int(vLen.Integer())
	start := int(vStart.Integer())

	if length >= strLen && (start == 1 || start == -1) {
		ctx.repushString(s)
		return
	}
	if length <= 0 || start == 0 || start > strLen || start < -strLen {
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	var from int
	if start > 0 {
		if length > strLen-start+1 {
			length = strLen - start + 1
		}
		from = start - 1
	} else {
		start = -start
		if length > strLen-start+1 {
			length = strLen - start + 1
		}
		from = strLen - start + 1 - length
	}
	// For a scratch operand the copy below shifts bytes down within the
	// arena tail; forward overlap is fine.
	ctx.push(StringValue(ctx.e.pool.WriteStr(func(c *StrCursor) {
		c.AppendSubstr(s, from, from+length)
	})))
}
