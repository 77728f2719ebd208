package vm

// ---------------------------------------------------------------------------
// Formatted-output accumulator with line wrapping
// ---------------------------------------------------------------------------

// addOutPool appends s to the output line buffer, emitting wrapped lines
// whenever the accumulated text exceeds the print-line limit. A break point
// is a whitespace byte found scanning back from the limit column, no further
// back than the minimum column; if none is there, the first whitespace past
// the limit breaks instead. Continuation lines get a two-space indent. A
// tail with no whitespace at all stays buffered until more text arrives.
func (e *Engine) addOutPool(s []byte) {
	for e.buffers.Init(BufOut)+len(s) > e.buffers.Len() {
		e.buffers.GrowAll()
	}
	outOffset := e.buffers.Init(BufOut)
	e.buffers.CopyFrom(BufOut, outOffset, s)
	e.buffers.SetInit(BufOut, outOffset+len(s))

	unbreakableTail := false
	for e.buffers.Init(BufOut) > e.cfg.MaxPrintLine && !unbreakableTail {
		endPtr := e.buffers.Init(BufOut)
		outPtr := e.cfg.MaxPrintLine
		breakPtFound := false
		for outPtr >= e.cfg.MinPrintLine &&
			lexClassOf(e.buffers.At(BufOut, outPtr)) != LexWhitespace {
			outPtr--
		}
		if outPtr == e.cfg.MinPrintLine-1 {
			// Nothing breakable before the limit; take the first
			// whitespace after it.
			outPtr = e.cfg.MaxPrintLine + 1
			for outPtr < endPtr &&
				lexClassOf(e.buffers.At(BufOut, outPtr)) != LexWhitespace {
				outPtr++
			}
			if outPtr == endPtr {
				unbreakableTail = true
			} else {
				breakPtFound = true
				// Swallow the whole whitespace run so the continuation
				// line starts right after its two-space indent.
				for outPtr+1 < endPtr &&
					lexClassOf(e.buffers.At(BufOut, outPtr+1)) == LexWhitespace {
					outPtr++
				}
			}
		} else {
			breakPtFound = true
		}
		if breakPtFound {
			e.buffers.SetInit(BufOut, outPtr)
			breakPtr := outPtr + 1
			e.outputBblLine()
			e.buffers.SetAt(BufOut, 0, ' ')
			e.buffers.SetAt(BufOut, 1, ' ')
			e.buffers.CopyWithin(BufOut, BufOut, breakPtr, 2, endPtr-breakPtr)
			e.buffers.SetInit(BufOut, endPtr-breakPtr+2)
		}
	}
}

// outputBblLine writes the buffered output line, trailing whitespace
// removed, followed by a newline. Write errors are sticky; after the first
// one the engine keeps executing but emits nothing more.
func (e *Engine) outputBblLine() {
	n := e.buffers.Init(BufOut)
	if n != 0 {
		for n > 0 && lexClassOf(e.buffers.At(BufOut, n-1)) == LexWhitespace {
			n--
		}
		e.buffers.SetInit(BufOut, n)
		if n == 0 {
			return
		}
		e.writeBbl(e.buffers.Buffer(BufOut)[:n])
	}
	e.writeBbl([]byte{'\n'})
	e.buffers.SetInit(BufOut, 0)
}

// FlushOutput emits any partial output line still buffered. The host calls
// this once after the last command.
func (e *Engine) FlushOutput() {
	if e.buffers.Init(BufOut) > 0 {
		e.outputBblLine()
	}
}

func (e *Engine) writeBbl(b []byte) {
	if e.bbl == nil || e.bblErr != nil {
		return
	}
	if _, err := e.bbl.Write(b); err != nil {
		e.bblErr = err
	}
}

// ---------------------------------------------------------------------------
// Output builtins
// ---------------------------------------------------------------------------

// interpWrite pops a string and appends it to the output accumulator.
func (ctx *ExecCtx) interpWrite() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		return
	}
	ctx.e.addOutPool(ctx.e.pool.GetStr(v.Str()))
}

// interpNewline terminates the current output line.
func (ctx *ExecCtx) interpNewline() {
	ctx.e.outputBblLine()
}

// interpWarning pops a string and reports it as a warning.
func (ctx *ExecCtx) interpWarning() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		return
	}
	ctx.e.diag.Print("Warning--")
	ctx.e.diag.Print(string(ctx.e.pool.GetStr(v.Str())))
	ctx.e.diag.Print("\n")
	ctx.e.diag.MarkWarning()
}
