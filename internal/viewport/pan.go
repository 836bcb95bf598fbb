package viewport

// Pan tracks a middle-button drag. The zero value is idle.
type Pan struct {
	active    bool
	anchor    Point
	start     View
	transform Transform
}

// Start records the anchor pixel together with the view and transform in
// effect when the drag began.
func (p *Pan) Start(anchorX, anchorY float64, view View, t Transform) bool {
	if t.IsZero() {
		return false
	}
	p.active = true
	p.anchor = Point{X: anchorX, Y: anchorY}
	p.start = view
	p.transform = t
	return true
}

// Move returns the start view translated so that the data point under the
// anchor follows the cursor. Moves outside the plot box are ignored.
func (p *Pan) Move(cursorX, cursorY float64) (View, bool) {
	if !p.active || !p.transform.InPlot(cursorX, cursorY) {
		return View{}, false
	}
	from := p.transform.ToData(p.anchor.X, p.anchor.Y)
	to := p.transform.ToData(cursorX, cursorY)
	return p.start.Translate(from.X-to.X, from.Y-to.Y), true
}

// End returns the pan to idle
func (p *Pan) End() {
	*p = Pan{}
}

// Active reports whether a drag is in progress
func (p *Pan) Active() bool {
	return p.active
}
