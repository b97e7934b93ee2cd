package state

// DefaultPageSize is used before the terminal reports its size.
const DefaultPageSize = 20

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

// PageStep is the number of list rows that fit in a terminal of the given height
// once the status line and help footer are drawn.
func PageStep(height int) int {
	if height <= 0 {
		return DefaultPageSize
	}
	step := height - 2
	if step < 1 {
		step = 1
	}
	return step
}

// ScrollList is the cursor and viewport of a bounded list. With n rows and a page
// of p rows every method keeps 0 <= Selected < n and Top <= Selected < Top+p, and
// both fields at 0 when n is 0.
type ScrollList struct {
	Selected int
	Top      int
}

// Follow clamps Selected into range and moves Top the minimal distance needed to
// keep Selected visible.
func (s ScrollList) Follow(n, page int) ScrollList {
	if n <= 0 {
		return ScrollList{}
	}
	if page < 1 {
		page = 1
	}
	s.Selected = ClampCursor(s.Selected, n)
	if s.Top < 0 {
		s.Top = 0
	}
	if s.Selected < s.Top {
		s.Top = s.Selected
	}
	if s.Selected >= s.Top+page {
		s.Top = s.Selected - page + 1
	}
	return s
}

func (s ScrollList) Move(delta, n, page int) ScrollList {
	s.Selected += delta
	return s.Follow(n, page)
}

func (s ScrollList) PageDown(n, page int) ScrollList {
	return s.Move(max(1, page), n, page)
}

func (s ScrollList) PageUp(n, page int) ScrollList {
	return s.Move(-max(1, page), n, page)
}

func (s ScrollList) Home(n, page int) ScrollList {
	s.Selected = 0
	return s.Follow(n, page)
}

func (s ScrollList) End(n, page int) ScrollList {
	s.Selected = n - 1
	return s.Follow(n, page)
}

// Anchor selects index and places it one row below the top of the viewport when
// there is a row above it.
func Anchor(index, n, page int) ScrollList {
	if n <= 0 {
		return ScrollList{}
	}
	index = ClampCursor(index, n)
	return ScrollList{Selected: index, Top: max(0, index-1)}.Follow(n, page)
}

// MaxTop is the largest first-visible line for a scroll-only view of total lines.
func MaxTop(total, page int) int {
	maxTop := total - page
	if maxTop < 0 {
		return 0
	}
	return maxTop
}

// Scroll moves a scroll-only viewport by delta lines, clamped to [0, MaxTop].
func Scroll(top, delta, total, page int) int {
	top += delta
	if top > MaxTop(total, page) {
		top = MaxTop(total, page)
	}
	if top < 0 {
		top = 0
	}
	return top
}
