package calendar

// Point is a screen coordinate. Units are whatever the shell uses
// (pixels, terminal cells); the controller only does arithmetic on them.
type Point struct {
	X int
	Y int
}

// Size is a width/height pair in the same units as Point.
type Size struct {
	W int
	H int
}

// Geometry controls popover placement.
type Geometry struct {
	// Popover is the rendered size of the edit form.
	Popover Size
	// Offset is added to the click point on both axes.
	Offset int
	// Inset is the minimum distance kept from every viewport edge.
	Inset int
}

// place anchors the popover near click. A nil click centres it.
func place(click *Point, viewport Size, g Geometry) Point {
	var p Point
	if click == nil {
		p = Point{
			X: viewport.W/2 - g.Popover.W/2,
			Y: viewport.H/2 - g.Popover.H/2,
		}
	} else {
		p = Point{X: click.X + g.Offset, Y: click.Y + g.Offset}
	}
	if viewport.W > 0 && p.X+g.Popover.W > viewport.W {
		p.X = viewport.W - g.Popover.W - g.Inset
	}
	if viewport.H > 0 && p.Y+g.Popover.H > viewport.H {
		p.Y = viewport.H - g.Popover.H - g.Inset
	}
	if p.X < g.Inset {
		p.X = g.Inset
	}
	if p.Y < g.Inset {
		p.Y = g.Inset
	}
	return p
}
