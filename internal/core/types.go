package core

// Updatable is anything the host advances once per frame. Timestamps are in
// milliseconds and increase monotonically.
type Updatable interface {
	Update(timestamp float64)
}

// UpdateFunc adapts a plain function to Updatable. Add it to an UpdateList
// by pointer; func values are not comparable.
type UpdateFunc func(timestamp float64)

// Update calls f.
func (f UpdateFunc) Update(timestamp float64) { f(timestamp) }

// UpdateList fans a frame timestamp out to its members in insertion order.
type UpdateList struct {
	items []Updatable
}

// Add appends u. Adding nil or an already present member is a no-op.
func (l *UpdateList) Add(u Updatable) {
	if u == nil || l.index(u) >= 0 {
		return
	}
	l.items = append(l.items, u)
}

// Remove drops u and reports whether it was present.
func (l *UpdateList) Remove(u Updatable) bool {
	i := l.index(u)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i], l.items[i+1:]...)
	return true
}

// Update forwards timestamp to every member.
func (l *UpdateList) Update(timestamp float64) {
	for _, u := range l.items {
		u.Update(timestamp)
	}
}

// Len returns the number of members.
func (l *UpdateList) Len() int { return len(l.items) }

func (l *UpdateList) index(u Updatable) int {
	for i, item := range l.items {
		if item == u {
			return i
		}
	}
	return -1
}
