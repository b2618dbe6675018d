package cli

// viewport is the REPL's window over a document: size sentences are shown
// from top, and margin more on each side count as visible so they are
// translated before the reader gets there.
type viewport struct {
	size   int
	margin int
	top    int
}

func newViewport(size, margin int) *viewport {
	if size < 1 {
		size = 1
	}
	if margin < 0 {
		margin = 0
	}
	return &viewport{size: size, margin: margin}
}

func (v *viewport) maxTop(total int) int {
	return max(total-v.size, 0)
}

func (v *viewport) clamp(total int) {
	v.top = min(max(v.top, 0), v.maxTop(total))
}

// window returns the half-open range of sentences shown.
func (v *viewport) window(total int) (start, end int) {
	v.clamp(total)
	return v.top, min(v.top+v.size, total)
}

// visible widens window by the prefetch margin.
func (v *viewport) visible(total int) (start, end int) {
	start, end = v.window(total)
	return max(start-v.margin, 0), min(end+v.margin, total)
}

// next pages forward and reports whether the view moved.
func (v *viewport) next(total int) bool {
	v.clamp(total)
	old := v.top
	v.top = min(v.top+v.size, v.maxTop(total))
	return v.top != old
}

func (v *viewport) prev(total int) bool {
	v.clamp(total)
	old := v.top
	v.top = max(v.top-v.size, 0)
	return v.top != old
}

func (v *viewport) reset() { v.top = 0 }

// jump puts the zero-based sentence i at the top of the view, as far as the
// document allows.
func (v *viewport) jump(i, total int) {
	v.top = i
	v.clamp(total)
}
