package scene

// List is an ordered container. Position is meaning: for a slide's
// elements it is the z-order, for a presentation it is the slide order.
// Indices passed to Insert and Move are clamped into range.
type List[T any] []T

// Len returns the number of items.
func (l List[T]) Len() int { return len(l) }

// Index returns the position of the first item matching pred, or -1.
func (l List[T]) Index(pred func(T) bool) int {
	for i, v := range l {
		if pred(v) {
			return i
		}
	}
	return -1
}

// Insert places v at index i, shifting later items back.
func (l *List[T]) Insert(i int, v T) {
	i = clampIndex(i, len(*l))
	var zero T
	*l = append(*l, zero)
	copy((*l)[i+1:], (*l)[i:])
	(*l)[i] = v
}

// Append adds v at the end.
func (l *List[T]) Append(v T) { *l = append(*l, v) }

// Remove deletes the item at i and returns it.
func (l *List[T]) Remove(i int) (T, bool) {
	var zero T
	if i < 0 || i >= len(*l) {
		return zero, false
	}
	v := (*l)[i]
	copy((*l)[i:], (*l)[i+1:])
	(*l)[len(*l)-1] = zero
	*l = (*l)[:len(*l)-1]
	return v, true
}

// Move relocates the item at from so that it ends up at index to.
// It reports whether anything changed.
func (l *List[T]) Move(from, to int) bool {
	if from < 0 || from >= len(*l) {
		return false
	}
	to = clampIndex(to, len(*l)-1)
	if from == to {
		return false
	}
	v, _ := l.Remove(from)
	l.Insert(to, v)
	return true
}

func clampIndex(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
