package vm

// ---------------------------------------------------------------------------
// Stack manipulation builtins
// ---------------------------------------------------------------------------

// interpDup pops the top literal and pushes it twice. A scratch string
// needs two pool entries: the original is recreated in place and a second
// copy appended after it, keeping pool order aligned with stack order.
func (ctx *ExecCtx) interpDup() {
	v := ctx.popStack()
	if !v.IsString() || !ctx.checkpoint.IsScratch(v.Str()) {
		ctx.push(v)
		ctx.push(v)
		return
	}
	pool := ctx.e.pool
	s := v.Str()
	n := len(pool.GetStr(s))
	orig := pool.WriteStr(func(c *StrCursor) {
		c.Extend(n)
	})
	dup := pool.WriteStr(func(c *StrCursor) {
		c.AppendStr(orig)
	})
	ctx.push(StringValue(orig))
	ctx.push(StringValue(dup))
}

// interpSwap pops the top two literals and pushes them back exchanged.
// Scratch strings are rebuilt so that pool order still mirrors stack
// order; when both are scratch their byte regions trade places through the
// expression buffer.
func (ctx *ExecCtx) interpSwap() {
	v1 := ctx.popStack() // was on top, ends up below
	v2 := ctx.popStack() // ends up on top
	pool := ctx.e.pool

	scratch1 := v1.IsString() && ctx.checkpoint.IsScratch(v1.Str())
	scratch2 := v2.IsString() && ctx.checkpoint.IsScratch(v2.Str())
	switch {
	case !scratch1:
		ctx.push(v1)
		if scratch2 {
			n2 := len(pool.GetStr(v2.Str()))
			ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
				c.Extend(n2)
			})))
		} else {
			ctx.push(v2)
		}
	case !scratch2:
		n1 := len(pool.GetStr(v1.Str()))
		ctx.push(StringValue(pool.WriteStr(func(c *StrCursor) {
			c.Extend(n1)
		})))
		ctx.push(v2)
	default:
		// Arena tail holds v2's bytes then v1's. Save v1, shift v2's
		// bytes up, write v1's copy in front, then adopt the shifted
		// v2 bytes as the second string.
		n1 := len(pool.GetStr(v1.Str()))
		n2 := len(pool.GetStr(v2.Str()))
		ctx.e.buffers.Ensure(n1)
		ctx.e.buffers.CopyFrom(BufEx, 0, pool.GetStr(v1.Str()))
		first := pool.WriteStr(func(c *StrCursor) {
			c.Extend(n1 + n2)
			b := c.Bytes()
			copy(b[n1:], b[:n2])
			copy(b[:n1], ctx.e.buffers.Buffer(BufEx)[:n1])
			c.Truncate(n1)
		})
		second := pool.WriteStr(func(c *StrCursor) {
			c.Extend(n2)
		})
		ctx.push(StringValue(first))
		ctx.push(StringValue(second))
	}
}

// interpStack pops and prints every literal left on the stack. Style
// designers use it to see what a broken function left behind.
func (ctx *ExecCtx) interpStack() {
	for len(ctx.stack) > 0 {
		ctx.printLit(ctx.popStack())
	}
}

// interpTop pops and prints the top literal.
func (ctx *ExecCtx) interpTop() {
	v := ctx.popStack()
	if v.IsIllegal() {
		ctx.e.diag.Print("Empty literal\n")
		return
	}
	ctx.printLit(v)
}
