package vm

import "fmt"

// ---------------------------------------------------------------------------
// Personal-name decomposition and formatting
// ---------------------------------------------------------------------------

func (ctx *ExecCtx) braceLvlOneLettersComplaint(s StrNumber) {
	ctx.e.diag.Print(fmt.Sprintf("The format string %q has an illegal brace-level-1 letter", ctx.e.pool.GetStr(s)))
	ctx.bstExWarn()
}

// nameScanForAnd advances through src from i to just past the next name
// separator: the word "and", case-insensitive, preceded and followed by
// whitespace at brace level zero. Brace groups are skipped whole. Returns
// len(src) when no separator remains; otherwise the return value minus
// four is the end of the current name.
func (ctx *ExecCtx) nameScanForAnd(src []byte, i int, s StrNumber) int {
	braceLevel := 0
	precedingWhite := false
	for i < len(src) {
		switch c := src[i]; {
		case c == 'a' || c == 'A':
			i++
			if precedingWhite && i+2 < len(src) &&
				(src[i] == 'n' || src[i] == 'N') &&
				(src[i+1] == 'd' || src[i+1] == 'D') &&
				lexClassOf(src[i+2]) == LexWhitespace {
				return i + 3
			}
			precedingWhite = false
		case c == '{':
			braceLevel++
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
			precedingWhite = false
		case c == '}':
			ctx.bracesUnbalancedComplaint(s)
			i++
			precedingWhite = false
		default:
			precedingWhite = lexClassOf(c) == LexWhitespace
			i++
		}
	}
	if braceLevel > 0 {
		ctx.bracesUnbalancedComplaint(s)
	}
	return len(src)
}

// interpNumNames pops a string of names and pushes how many names it holds.
func (ctx *ExecCtx) interpNumNames() {
	v := ctx.popStack()
	if !v.IsString() {
		ctx.printWrongStkLit(v, KindString)
		ctx.push(IntegerValue(0))
		return
	}
	src := ctx.e.pool.GetStr(v.Str())
	var count int64
	for i := 0; i < len(src); {
		i = ctx.nameScanForAnd(src, i, v.Str())
		count++
	}
	ctx.push(IntegerValue(count))
}

// vonTokenFound reports whether the token sv[p:end] is von-like: its first
// decisive alphabetic character is lowercase. A recognized control sequence
// decides by its own case; an unrecognized one lets the first letter in the
// rest of its group decide; an ordinary brace group is skipped whole.
func vonTokenFound(sv []byte, p, end int) bool {
	for p < end {
		switch c := sv[p]; {
		case c >= 'A' && c <= 'Z':
			return false
		case c >= 'a' && c <= 'z':
			return true
		case c == '{':
			braceLevel := 1
			p++
			if p+2 < end && sv[p] == '\\' {
				p++
				nameStart := p
				for p < end && lexClassOf(sv[p]) == LexAlpha {
					p++
				}
				if cs, ok := lookupControlSeq(sv[nameStart:p]); ok {
					return !isUpperSeq(cs)
				}
				for p < end && braceLevel > 0 {
					switch c := sv[p]; {
					case c >= 'A' && c <= 'Z':
						return false
					case c >= 'a' && c <= 'z':
						return true
					case c == '}':
						braceLevel--
					case c == '{':
						braceLevel++
					}
					p++
				}
			} else {
				for p < end && braceLevel > 0 {
					switch sv[p] {
					case '{':
						braceLevel++
					case '}':
						braceLevel--
					}
					p++
				}
			}
		default:
			p++
		}
	}
	return false
}

// vonNameEnds returns the index one past the last von token below lastEnd,
// or vonStart when none is found.
func (ctx *ExecCtx) vonNameEnds(sv []byte, lastEnd, vonStart int) int {
	if lastEnd == 0 {
		return vonStart
	}
	vonEnd := lastEnd - 1
	for vonEnd > vonStart {
		if vonTokenFound(sv, ctx.e.buffers.NameTok(vonEnd-1), ctx.e.buffers.NameTok(vonEnd)) {
			return vonEnd
		}
		vonEnd--
	}
	return vonEnd
}

// enoughTextChars reports whether out holds at least enough text characters
// from position from on, a special character counting as one. braceLevel is
// the formatter's running level and is updated by the scan.
func enoughTextChars(out []byte, from, enough int, braceLevel *int) bool {
	count := 0
	p := from
	for p < len(out) && count < enough {
		p++
		if out[p-1] == '{' {
			*braceLevel++
			if *braceLevel == 1 && p < len(out) && out[p] == '\\' {
				p++
				for p < len(out) && *braceLevel > 0 {
					switch out[p] {
					case '}':
						*braceLevel--
					case '{':
						*braceLevel++
					}
					p++
				}
			}
		} else if out[p-1] == '}' {
			*braceLevel--
		}
		count++
	}
	return count >= enough
}

// skipBraceLevelGreaterThanOne advances pos while the running brace level
// stays above one.
func skipBraceLevelGreaterThanOne(str []byte, pos int, braceLevel *int) int {
	for *braceLevel > 1 && pos < len(str) {
		switch str[pos] {
		case '}':
			*braceLevel--
		case '{':
			*braceLevel++
		}
		pos++
	}
	return pos
}

// interpFormatName pops a format pattern, a one-based name index and a
// string of names, decomposes the selected name into First/von/Last/Jr
// token ranges, renders it through the pattern and pushes the result.
func (ctx *ExecCtx) interpFormatName() {
	vFmt := ctx.popStack()
	vNum := ctx.popStack()
	vNames := ctx.popStack()
	switch {
	case !vFmt.IsString():
		ctx.printWrongStkLit(vFmt, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	case !vNum.IsInteger():
		ctx.printWrongStkLit(vNum, KindInteger)
		ctx.push(StringValue(ctx.e.sNull))
		return
	case !vNames.IsString():
		ctx.printWrongStkLit(vNames, KindString)
		ctx.push(StringValue(ctx.e.sNull))
		return
	}
	e := ctx.e
	sNames := vNames.Str()
	want := vNum.Integer()
	src := e.pool.GetStr(sNames)

	// Locate the wanted name between "and" separators.
	var numNames int64
	pos, start := 0, 0
	for numNames < want && pos < len(src) {
		numNames++
		start = pos
		pos = ctx.nameScanForAnd(src, pos, sNames)
	}
	end := pos
	if pos < len(src) {
		end = pos - 4
	}
	if numNames < want {
		if want == 1 {
			e.diag.Print(fmt.Sprintf("There is no name in %q", src))
		} else {
			e.diag.Print(fmt.Sprintf("There aren't %d names in %q", want, src))
		}
		ctx.bstExWarn()
	}

	// Trim trailing whitespace and separators; a trailing comma is an
	// error in the name and is dropped too.
	for end > start {
		c := src[end-1]
		switch {
		case lexClassOf(c) == LexWhitespace || lexClassOf(c) == LexSep:
			end--
		case c == ',':
			e.diag.Print(fmt.Sprintf("Name %d in %q has a comma at the end", want, src))
			ctx.bstExWarn()
			end--
		default:
			goto trimmed
		}
	}
trimmed:

	// Tokenize: token bytes go to the Sv buffer back to back, the
	// preceding separator of token i to NameSep[i], start offsets to the
	// name-token table.
	e.buffers.Ensure(end - start + 1)
	sv := e.buffers.Buffer(BufSv)
	svPtr := 0
	numTokens := 0
	commaCount := 0
	var comma1, comma2 int
	tokenStarting := true
	braceLevel := 0
	for x := start; x < end; {
		switch c := src[x]; {
		case c == ',':
			switch commaCount {
			case 0:
				comma1 = numTokens
				commaCount = 1
				e.buffers.SetAt(BufNameSep, numTokens, ',')
			case 1:
				comma2 = numTokens
				commaCount = 2
				e.buffers.SetAt(BufNameSep, numTokens, ',')
			default:
				e.diag.Print(fmt.Sprintf("Too many commas in name %d of %q", want, src))
				ctx.bstExWarn()
			}
			x++
			tokenStarting = true
		case c == '{':
			braceLevel++
			if tokenStarting {
				e.buffers.SetNameTok(numTokens, svPtr)
				numTokens++
			}
			sv[svPtr] = c
			svPtr++
			x++
			for braceLevel > 0 && x < end {
				switch src[x] {
				case '{':
					braceLevel++
				case '}':
					braceLevel--
				}
				sv[svPtr] = src[x]
				svPtr++
				x++
			}
			tokenStarting = false
		case c == '}':
			if tokenStarting {
				e.buffers.SetNameTok(numTokens, svPtr)
				numTokens++
			}
			e.diag.Print(fmt.Sprintf("Name %d of %q isn't brace balanced", want, src))
			ctx.bstExWarn()
			x++
			tokenStarting = false
		case lexClassOf(c) == LexWhitespace:
			if !tokenStarting {
				e.buffers.SetAt(BufNameSep, numTokens, ' ')
			}
			x++
			tokenStarting = true
		case lexClassOf(c) == LexSep:
			if !tokenStarting {
				e.buffers.SetAt(BufNameSep, numTokens, c)
			}
			x++
			tokenStarting = true
		default:
			if tokenStarting {
				e.buffers.SetNameTok(numTokens, svPtr)
				numTokens++
			}
			sv[svPtr] = c
			svPtr++
			x++
			tokenStarting = false
		}
	}
	e.buffers.SetNameTok(numTokens, svPtr)

	// Figure out the four part ranges from the comma count.
	firstStart, firstEnd := 0, 0
	vonStart, vonEnd := 0, 0
	var lastEnd, jrEnd int
	switch commaCount {
	case 0:
		lastEnd = numTokens
		jrEnd = lastEnd
		found := false
		for vonStart < lastEnd-1 {
			if vonTokenFound(sv, e.buffers.NameTok(vonStart), e.buffers.NameTok(vonStart+1)) {
				vonEnd = ctx.vonNameEnds(sv, lastEnd, vonStart)
				found = true
				break
			}
			vonStart++
		}
		if !found {
			// No von name: the last name still absorbs preceding
			// tokens joined by hyphens.
			for vonStart > 0 {
				sep := e.buffers.At(BufNameSep, vonStart)
				if lexClassOf(sep) != LexSep || sep == '~' {
					break
				}
				vonStart--
			}
			vonEnd = vonStart
		}
		firstEnd = vonStart
	case 1:
		lastEnd = comma1
		jrEnd = lastEnd
		firstStart = jrEnd
		firstEnd = numTokens
		vonEnd = ctx.vonNameEnds(sv, lastEnd, 0)
	default:
		lastEnd = comma1
		jrEnd = comma2
		firstStart = jrEnd
		firstEnd = numTokens
		vonEnd = ctx.vonNameEnds(sv, lastEnd, 0)
	}

	out := ctx.formatSingleName(vFmt.Str(), sv, nameParts{
		firstStart: firstStart,
		firstEnd:   firstEnd,
		vonStart:   vonStart,
		vonEnd:     vonEnd,
		lastEnd:    lastEnd,
		jrEnd:      jrEnd,
	})
	ctx.push(StringValue(e.pool.AddString(out)))
}

type nameParts struct {
	firstStart, firstEnd int
	vonStart, vonEnd     int
	lastEnd, jrEnd       int
}

// formatSingleName renders the decomposed name through the format pattern.
// Each top-level brace group carries one specifier letter (f/v/l/j, doubled
// for full tokens, single for initials); a group whose part is empty is
// suppressed, literal text inside a group is copied between tokens, and a
// nested group right after the specifier overrides the default separator.
func (ctx *ExecCtx) formatSingleName(fmtRef StrNumber, sv []byte, parts nameParts) []byte {
	e := ctx.e
	str := e.pool.GetStr(fmtRef)
	var out []byte
	braceLevel := 0
	innerBraceLevel := 0
	idx := 0
	for idx < len(str) {
		switch {
		case str[idx] == '{':
			innerBraceLevel++
			idx++
			oldIdx := idx
			groupStart := len(out)

			alphaFound := false
			doubleLetter := false
			endOfGroup := false
			toBeWritten := true
			curToken, lastToken := 0, 0

			// First pass: find the specifier letter and the part it
			// selects.
		scan:
			for !endOfGroup && idx < len(str) {
				switch {
				case lexClassOf(str[idx]) == LexAlpha:
					idx++
					if alphaFound {
						ctx.braceLvlOneLettersComplaint(fmtRef)
						toBeWritten = false
					} else {
						switch str[idx-1] {
						case 'f', 'F':
							curToken, lastToken = parts.firstStart, parts.firstEnd
						case 'v', 'V':
							curToken, lastToken = parts.vonStart, parts.vonEnd
						case 'l', 'L':
							curToken, lastToken = parts.vonEnd, parts.lastEnd
						case 'j', 'J':
							curToken, lastToken = parts.lastEnd, parts.jrEnd
						default:
							// Rescan the rest of the group as pattern
							// text.
							ctx.braceLvlOneLettersComplaint(fmtRef)
							toBeWritten = false
							break scan
						}
						if curToken == lastToken {
							toBeWritten = false
						}
						if idx < len(str) && lowerASCII(str[idx]) == lowerASCII(str[idx-1]) {
							doubleLetter = true
							idx++
						}
					}
					alphaFound = true
				case str[idx] == '}':
					innerBraceLevel--
					idx++
					endOfGroup = true
				case str[idx] == '{':
					innerBraceLevel++
					idx = skipBraceLevelGreaterThanOne(str, idx+1, &innerBraceLevel)
				default:
					idx++
				}
			}

			if endOfGroup && toBeWritten {
				// Second pass: write the group, substituting the
				// part tokens at the specifier.
				idx = oldIdx
				innerBraceLevel = 1
				for innerBraceLevel > 0 && idx < len(str) {
					switch {
					case lexClassOf(str[idx]) == LexAlpha && innerBraceLevel == 1:
						idx++
						if doubleLetter {
							idx++
						}
						useDefault := true
						sepStart, sepEnd := idx, idx
						if idx < len(str) && str[idx] == '{' {
							useDefault = false
							innerBraceLevel++
							idx++
							sepStart = idx
							idx = skipBraceLevelGreaterThanOne(str, idx, &innerBraceLevel)
							sepEnd = idx - 1
						}
						for curToken < lastToken {
							out = appendNameToken(out, sv,
								e.buffers.NameTok(curToken), e.buffers.NameTok(curToken+1),
								doubleLetter)
							curToken++
							if curToken < lastToken {
								if useDefault {
									if !doubleLetter {
										out = append(out, '.')
									}
									sep := e.buffers.At(BufNameSep, curToken)
									switch {
									case lexClassOf(sep) == LexSep:
										out = append(out, sep)
									case curToken == lastToken-1 ||
										!enoughTextChars(out, groupStart, 3, &braceLevel):
										out = append(out, '~')
									default:
										out = append(out, ' ')
									}
								} else {
									out = append(out, str[sepStart:sepEnd]...)
								}
							}
						}
						if !useDefault {
							idx = sepEnd + 1
						}
					case str[idx] == '}':
						innerBraceLevel--
						idx++
						if innerBraceLevel > 0 {
							out = append(out, '}')
						}
					case str[idx] == '{':
						innerBraceLevel++
						idx++
						out = append(out, '{')
					default:
						out = append(out, str[idx])
						idx++
					}
				}
				// A tie written at the end of the group stays; a
				// doubled tie collapses to one.
				if n := len(out); n > groupStart && out[n-1] == '~' {
					if n-1 > groupStart && out[n-2] == '~' {
						out = out[:n-1]
					}
				}
			}
		case str[idx] == '}':
			ctx.bracesUnbalancedComplaint(fmtRef)
			idx++
		default:
			out = append(out, str[idx])
			idx++
		}
	}
	if innerBraceLevel > 0 {
		ctx.bracesUnbalancedComplaint(fmtRef)
	}
	return out
}

// appendNameToken writes one name token: the whole token when doubleLetter,
// otherwise its first letter or leading special character.
func appendNameToken(out, sv []byte, p, end int, doubleLetter bool) []byte {
	if doubleLetter {
		return append(out, sv[p:end]...)
	}
	for p < end {
		if lexClassOf(sv[p]) == LexAlpha {
			return append(out, sv[p])
		}
		if p+1 < end && sv[p] == '{' && sv[p+1] == '\\' {
			out = append(out, '{', '\\')
			p += 2
			braceLevel := 1
			for p < end && braceLevel > 0 {
				switch sv[p] {
				case '}':
					braceLevel--
				case '{':
					braceLevel++
				}
				out = append(out, sv[p])
				p++
			}
			return out
		}
		p++
	}
	return out
}
