package state

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

// PageStep is the number of rows a page jump moves for a screen of height
// lines, leaving room for the header chrome.
func PageStep(height int, searching bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 8
	if searching {
		headerLines++
	}
	step := height - headerLines
	if step < 3 {
		step = 3
	}
	return step
}

// Window returns the [start, end) slice of totalRows shown from top in a
// viewport of height rows. A non-positive height shows everything.
func Window(totalRows, top, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	top = ClampCursor(top, totalRows-height+1)
	return top, top + height
}

// ScrollToShow returns a top row that keeps rows first..last in a viewport of
// height rows, moving as little as possible. When the span does not fit,
// first wins.
func ScrollToShow(top, first, last, height int) int {
	if height <= 0 {
		return 0
	}
	if last < first {
		last = first
	}
	if first < top {
		return first
	}
	if last >= top+height {
		top = last - height + 1
		if top > first {
			top = first
		}
	}
	return top
}
