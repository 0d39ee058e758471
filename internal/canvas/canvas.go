// Package canvas implements the flow/absolute compositor and blend modes
// described in spec.md §4.6.
package canvas

import (
	"context"

	"github.com/thereceipt/printcore/internal/document"
	"github.com/thereceipt/printcore/internal/errs"
	"github.com/thereceipt/printcore/internal/raster"
)

// SubRenderer rasterizes one child component to a grayscale sub-buffer.
// Text children use the raster pipeline's text-as-raster path so blend
// modes apply to glyphs too, per spec.md §4.6.
type SubRenderer interface {
	RenderChild(ctx context.Context, c *document.Component, width int) (*raster.Gray, error)
}

// Box is an axis-aligned bounding box in dots, used by both compositing
// and the layout-query side interface so the two agree bit-exactly.
type Box struct {
	X, Y, Width, Height int
}

// Layout is the computed placement of a canvas and its children, returned
// by Compositor.Layout. Render composites from the same measure pass, so
// callers see identical geometry regardless of which is invoked, satisfying
// spec.md's S6.
type Layout struct {
	Canvas   Box
	Children []Box
}

// Compositor renders canvas components to a single grayscale frame buffer.
type Compositor struct {
	Sub SubRenderer
}

// New constructs a Compositor bound to a child sub-renderer.
func New(sub SubRenderer) *Compositor {
	return &Compositor{Sub: sub}
}

// placedChild is one child positioned within the canvas, with the actual
// rasterized buffer the SubRenderer produced for it.
type placedChild struct {
	box     Box
	img     *raster.Gray
	blend   document.BlendMode
	opacity float64
}

// measure rasterizes every child through Sub and computes its placement.
// Both Layout and Render call this same pass so canvas_layout always
// agrees bit-exactly with the geometry Render actually composites, per
// spec.md §4.6 and scenario S6 — there is no separate height-estimation
// path to drift out of sync.
func (c *Compositor) measure(ctx context.Context, comp *document.Component, width int) ([]placedChild, int, error) {
	if c.Sub == nil {
		return nil, 0, errs.New(errs.InvalidParam, "no child sub-renderer configured")
	}
	var items []placedChild
	flowY := 0
	for i := range comp.Children {
		child := &comp.Children[i]
		img, err := c.Sub.RenderChild(ctx, child, width)
		if err != nil {
			return nil, 0, err
		}
		opacity := child.Opacity
		if opacity == 0 {
			opacity = 1
		}
		blend := child.Blend
		if blend == "" {
			blend = document.BlendNormal
		}
		if child.Position != nil {
			items = append(items, placedChild{box: Box{X: child.Position.X, Y: child.Position.Y, Width: img.Width, Height: img.Height}, img: img, blend: blend, opacity: opacity})
			continue
		}
		items = append(items, placedChild{box: Box{X: 0, Y: flowY, Width: img.Width, Height: img.Height}, img: img, blend: blend, opacity: opacity})
		flowY += img.Height
	}

	height := comp.Height
	if height <= 0 {
		height = flowY
	}
	return items, height, nil
}

// Layout computes the bounding boxes of a canvas and its children by
// rasterizing them through the same SubRenderer Render uses, for the
// canvas_layout control-surface call.
func (c *Compositor) Layout(ctx context.Context, comp *document.Component, width int) (Layout, error) {
	items, height, err := c.measure(ctx, comp, width)
	if err != nil {
		return Layout{}, err
	}
	boxes := make([]Box, len(items))
	for i, it := range items {
		boxes[i] = it.box
	}
	return Layout{Canvas: Box{Width: width, Height: height}, Children: boxes}, nil
}

// Render composites all children of comp onto a shared grayscale frame per
// spec.md §4.6: flow children stack top to bottom, absolute children write
// at their declared offset and contribute nothing to auto-height.
func (c *Compositor) Render(ctx context.Context, comp *document.Component, width int) (*raster.Gray, error) {
	items, height, err := c.measure(ctx, comp, width)
	if err != nil {
		return nil, err
	}
	frame := raster.NewGray(width, height)
	for _, it := range items {
		compositeInto(frame, it.img, it.box.X, it.box.Y, it.blend, it.opacity)
	}
	return frame, nil
}

// compositeInto blends src onto dst at (offX, offY) using the given mode
// and opacity, clipping to dst's bounds.
func compositeInto(dst, src *raster.Gray, offX, offY int, mode document.BlendMode, opacity float64) {
	for y := 0; y < src.Height; y++ {
		dy := offY + y
		if dy < 0 || dy >= dst.Height {
			continue
		}
		for x := 0; x < src.Width; x++ {
			dx := offX + x
			if dx < 0 || dx >= dst.Width {
				continue
			}
			s := float64(src.At(x, y))
			d := float64(dst.At(dx, dy))
			blended := blend(mode, d, s)
			mixed := d + opacity*(blended-d)
			dst.Set(dx, dy, clamp255(mixed))
		}
	}
}

// blend applies one of the eight modes directly on raster.Gray's stored
// convention (0 = white/no ink, 255 = black/full ink), which is already
// the ink-density channel spec.md §4.6 describes, so add darkens.
func blend(mode document.BlendMode, dst, src uint8Like) uint8Like {
	var out uint8Like
	switch mode {
	case document.BlendMultiply:
		out = dst * src / 255
	case document.BlendScreen:
		out = 255 - (255-dst)*(255-src)/255
	case document.BlendOverlay:
		if dst < 128 {
			out = 2 * dst * src / 255
		} else {
			out = 255 - 2*(255-dst)*(255-src)/255
		}
	case document.BlendAdd:
		out = dst + src
	case document.BlendDifference:
		out = abs(dst - src)
	case document.BlendMin:
		out = minF(dst, src)
	case document.BlendMax:
		out = maxF(dst, src)
	default: // normal
		out = src
	}
	return clamp255v(out)
}

// uint8Like keeps the blend math in float64 without exposing raster types
// beyond this file; clamp255v converts back at the boundary.
type uint8Like = float64

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clamp255v(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
