package ir

// style is a running snapshot of printer state, used by passes 2 and 3.
// Values match the documented post-Init defaults.
type style struct {
	bold, underline, invert, upperline, upsideDown, reduced bool
	align                                                   Align
	font                                                    Font
	sizeH, sizeW                                            int
}

func defaultStyle() style {
	return style{align: AlignLeft, font: FontA, sizeH: 1, sizeW: 1}
}

func (s *style) apply(o Op) {
	switch o.Kind {
	case OpSetBold:
		s.bold = o.Bool
	case OpSetUnderline:
		s.underline = o.Bool
	case OpSetInvert:
		s.invert = o.Bool
	case OpSetUpperline:
		s.upperline = o.Bool
	case OpSetUpsideDown:
		s.upsideDown = o.Bool
	case OpSetReduced:
		s.reduced = o.Bool
	case OpSetAlign:
		s.align = o.Align
	case OpSetFont:
		s.font = o.Font
	case OpSetSize:
		s.sizeH, s.sizeW = o.SizeH, o.SizeW
	}
}

// current reports whether o would be a no-op given the style snapshot.
func (s *style) current(o Op) bool {
	switch o.Kind {
	case OpSetBold:
		return s.bold == o.Bool
	case OpSetUnderline:
		return s.underline == o.Bool
	case OpSetInvert:
		return s.invert == o.Bool
	case OpSetUpperline:
		return s.upperline == o.Bool
	case OpSetUpsideDown:
		return s.upsideDown == o.Bool
	case OpSetReduced:
		return s.reduced == o.Bool
	case OpSetAlign:
		return s.align == o.Align
	case OpSetFont:
		return s.font == o.Font
	case OpSetSize:
		return s.sizeH == o.SizeH && s.sizeW == o.SizeW
	default:
		return false
	}
}

// Optimize runs the four peephole passes to a fixpoint, in the documented
// order, and returns the shortened op stream. codegen(Optimize(ops)) must
// produce output byte-identical (once decoded) to codegen(ops).
func Optimize(ops []Op) []Op {
	for {
		before := len(ops)
		ops = removeRedundantInit(ops)
		ops = collapseStyleToggles(ops)
		ops = removeRedundantStyle(ops)
		ops = mergeAdjacentText(ops)
		if len(ops) == before {
			return ops
		}
	}
}

// removeRedundantInit keeps only the first Init in the stream.
func removeRedundantInit(ops []Op) []Op {
	out := make([]Op, 0, len(ops))
	seenInit := false
	for _, o := range ops {
		if o.Kind == OpInit {
			if seenInit {
				continue
			}
			seenInit = true
		}
		out = append(out, o)
	}
	return out
}

// collapseStyleToggles deletes a SetX(v1) immediately followed (with no
// intervening consumer op) by another SetX(v2) on the same axis, and drops
// any SetX(v) whose value already matches the last value set on that axis.
func collapseStyleToggles(ops []Op) []Op {
	// First sub-pass: drop a SetX that is immediately shadowed by a later
	// SetX on the same axis before any consumer intervenes.
	out := make([]Op, 0, len(ops))
	for i := 0; i < len(ops); i++ {
		o := ops[i]
		if isStyleSet(o) {
			shadowed := false
			for j := i + 1; j < len(ops); j++ {
				if isConsumer(ops[j]) {
					break
				}
				if sameAxis(o, ops[j]) {
					shadowed = true
					break
				}
			}
			if shadowed {
				continue
			}
		}
		out = append(out, o)
	}

	// Second sub-pass: drop SetX(v) when the most recent prior value on that
	// axis (from documented Init defaults) is already v.
	s := defaultStyle()
	final := make([]Op, 0, len(out))
	for _, o := range out {
		if o.Kind == OpInit {
			s = defaultStyle()
			final = append(final, o)
			continue
		}
		if isStyleSet(o) && s.current(o) {
			continue
		}
		if isStyleSet(o) {
			s.apply(o)
		}
		final = append(final, o)
	}
	return final
}

// removeRedundantStyle is a second style-snapshot sweep run after collapse,
// dropping any SetX(v) that still sets X to its already-current value.
func removeRedundantStyle(ops []Op) []Op {
	s := defaultStyle()
	out := make([]Op, 0, len(ops))
	for _, o := range ops {
		if o.Kind == OpInit {
			s = defaultStyle()
			out = append(out, o)
			continue
		}
		if isStyleSet(o) {
			if s.current(o) {
				continue
			}
			s.apply(o)
		}
		out = append(out, o)
	}
	return out
}

// mergeAdjacentText coalesces Text/Newline runs with no intervening
// style-mutating op into a single Text op. It also drops the Newline that
// terminates a merged run when nothing but style ops separate it from
// another Newline: no content prints in that gap, so only the later
// Newline has any visible effect.
func mergeAdjacentText(ops []Op) []Op {
	out := make([]Op, 0, len(ops))
	for i := 0; i < len(ops); i++ {
		o := ops[i]
		if o.Kind != OpText {
			out = append(out, o)
			continue
		}
		merged := o.Text
		j := i + 1
		for j < len(ops) {
			if ops[j].Kind == OpText {
				merged += ops[j].Text
				j++
				continue
			}
			if ops[j].Kind == OpNewline && j+1 < len(ops) && ops[j+1].Kind == OpText {
				merged += "\n" + ops[j+1].Text
				j += 2
				continue
			}
			break
		}
		out = append(out, Text(merged))
		if j < len(ops) && ops[j].Kind == OpNewline {
			k := j + 1
			for k < len(ops) && isStyleSet(ops[k]) {
				k++
			}
			if k < len(ops) && ops[k].Kind == OpNewline {
				j++
			}
		}
		i = j - 1
	}
	return out
}
