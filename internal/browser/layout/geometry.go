// internal/browser/layout/geometry.go
package layout

import (
	"github.com/xkilldash9x/boxlayout/internal/browser/style"
)

// -- Core Structures: Box Model and Dimensions --

// Axis represents the primary layout direction.
type Axis = style.Axis

const (
	// Horizontal axis for layout calculations.
	Horizontal = style.Horizontal
	// Vertical axis for layout calculations.
	Vertical = style.Vertical
)

// Size is a width/height pair, used for the viewport.
type Size struct {
	Width, Height float64
}

// Dimensions defines the geometry of a layout box. Content is relative to the
// border-box origin of the parent box (the viewport origin for the root).
type Dimensions struct {
	Content Rect

	Padding Edges
	Border  Edges
	Margin  Edges
}

// MarginBox returns the rectangle enclosing the margin area.
func (d Dimensions) MarginBox() Rect {
	return d.BorderBox().ExpandedBy(d.Margin)
}

// BorderBox returns the rectangle enclosing the border area.
func (d Dimensions) BorderBox() Rect {
	return d.PaddingBox().ExpandedBy(d.Border)
}

// PaddingBox returns the rectangle enclosing the padding area.
func (d Dimensions) PaddingBox() Rect {
	return d.Content.ExpandedBy(d.Padding)
}

// InnerStatic returns padding plus border along an axis.
func (d *Dimensions) InnerStatic(axis Axis) float64 {
	return d.Padding.Sum(axis) + d.Border.Sum(axis)
}

// contentOffset is the distance from the border-box origin to the content origin.
func (d *Dimensions) contentOffset(axis Axis) float64 {
	return d.Border.GetMainStart(axis) + d.Padding.GetMainStart(axis)
}

// placeMarginBox moves the box so its margin box starts at (x, y) in parent coordinates.
func (d *Dimensions) placeMarginBox(x, y float64) {
	d.Content.X = x + d.Margin.Left + d.Border.Left + d.Padding.Left
	d.Content.Y = y + d.Margin.Top + d.Border.Top + d.Padding.Top
}

type Rect struct {
	X, Y, Width, Height float64
}

// ExpandedBy returns a new rectangle expanded by the edge sizes.
func (r Rect) ExpandedBy(e Edges) Rect {
	return Rect{
		X:      r.X - e.Left,
		Y:      r.Y - e.Top,
		Width:  r.Width + e.Left + e.Right,
		Height: r.Height + e.Top + e.Bottom,
	}
}

// Translated returns the rectangle moved by (dx, dy).
func (r Rect) Translated(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// GetSize returns the width or height.
func (r Rect) GetSize(axis Axis) float64 {
	if axis == Horizontal {
		return r.Width
	}
	return r.Height
}

type Edges struct {
	Top, Right, Bottom, Left float64
}

// GetMainStart is an axis-agnostic helper for Edges.
func (e Edges) GetMainStart(axis Axis) float64 {
	if axis == Horizontal {
		return e.Left
	}
	return e.Top
}

// GetMainEnd is an axis-agnostic helper for Edges.
func (e Edges) GetMainEnd(axis Axis) float64 {
	if axis == Horizontal {
		return e.Right
	}
	return e.Bottom
}

// Sum returns start plus end along an axis.
func (e Edges) Sum(axis Axis) float64 {
	return e.GetMainStart(axis) + e.GetMainEnd(axis)
}
