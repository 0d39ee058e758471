// Package segment splits an IR program with oversized Raster ops into
// bounded-memory sub-programs, per spec.md §4.7.
package segment

import (
	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/ir"
)

// DefaultMaxRowsPerJob is the suggested bound (~125mm at 203dpi, ~72KB).
const DefaultMaxRowsPerJob = 1000

// Split partitions prog into sub-programs, each containing at most one
// Raster op no taller than maxRows. Every sub-program is self-contained
// (style ops preceding the split raster are prepended). Content ops queued
// ahead of a raster (e.g. text printed before an image) ride along on the
// first sub-program that raster produces, in their original order; Cut and
// any ops left over after the last raster appear only on the final
// sub-program.
func Split(prog ir.Program, maxRows int) ([]ir.Program, error) {
	if maxRows <= 0 {
		maxRows = DefaultMaxRowsPerJob
	}
	if !hasOversizedRaster(prog.Ops, maxRows) {
		return []ir.Program{prog}, nil
	}

	var programs []ir.Program
	var preamble []ir.Op // style/state ops carried into every sub-program
	var pending []ir.Op  // content ops queued since the last raster split

	for i := 0; i < len(prog.Ops); i++ {
		op := prog.Ops[i]
		if op.Kind == ir.OpRaster && op.Raster != nil && op.Raster.Height > maxRows {
			if err := splitRaster(op, maxRows, &programs, &preamble, pending); err != nil {
				return nil, err
			}
			pending = nil
			continue
		}
		if op.Kind == ir.OpInit {
			preamble = nil // Init resets the running style snapshot
			continue
		}
		if isStyleOp(op) {
			preamble = append(preamble, op)
			continue
		}
		pending = append(pending, op)
	}
	if len(programs) == 0 {
		return []ir.Program{prog}, nil
	}
	// Whatever is left after the last raster split (Cut, trailing
	// FeedUnits/Newline, or content with no following raster) lands on the
	// final sub-program.
	programs[len(programs)-1].Ops = append(programs[len(programs)-1].Ops, pending...)
	return programs, nil
}

// splitRaster slices op into maxRows-tall bands, each its own sub-program.
// leading carries ops that preceded op in the original stream and haven't
// been placed anywhere yet; they belong on the first band only.
func splitRaster(op ir.Op, maxRows int, programs *[]ir.Program, preamble *[]ir.Op, leading []ir.Op) error {
	step := maxRows
	if op.RasterMode == ir.RasterBand {
		step -= step % 24
		if step == 0 {
			step = 24
		}
	}
	first := true
	for row := 0; row < op.Raster.Height; row += step {
		rows := step
		if row+rows > op.Raster.Height {
			rows = op.Raster.Height - row
		}
		if op.RasterMode == ir.RasterBand && rows%24 != 0 && row+rows != op.Raster.Height {
			return errs.New(errs.ProtocolInvariantViolated, "band-mode split produced a non-24-aligned interior slice of %d rows", rows)
		}
		slice := op.Raster.Slice(row, rows)
		subOps := append([]ir.Op{ir.Init()}, *preamble...)
		if first {
			subOps = append(subOps, leading...)
			first = false
		}
		subOps = append(subOps, ir.Raster(slice, op.RasterMode))
		*programs = append(*programs, ir.Program{Ops: subOps})
	}
	return nil
}

func hasOversizedRaster(ops []ir.Op, maxRows int) bool {
	for _, op := range ops {
		if op.Kind == ir.OpRaster && op.Raster != nil && op.Raster.Height > maxRows {
			return true
		}
	}
	return false
}

func isStyleOp(o ir.Op) bool {
	switch o.Kind {
	case ir.OpSetBold, ir.OpSetUnderline, ir.OpSetInvert, ir.OpSetUpperline,
		ir.OpSetUpsideDown, ir.OpSetReduced, ir.OpSetAlign, ir.OpSetFont, ir.OpSetSize:
		return true
	default:
		return false
	}
}
