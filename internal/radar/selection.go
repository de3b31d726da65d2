package radar

// MaxVisibleThirdParty caps how many third-party sensors can be inspected
// at once; beyond that the map becomes unreadable.
const MaxVisibleThirdParty = 3

// Selection is the bounded working set of third-party systems currently
// being inspected. The zero value is usable. It is a value-semantics
// helper for the caller's view state; nothing here is persisted.
type Selection struct {
	systems []int
}

// NewSelection builds a selection pre-seeded with the given systems, up to
// the cap.
func NewSelection(systems ...int) Selection {
	var sel Selection
	for _, sys := range systems {
		sel = sel.Toggle(sys)
	}
	return sel
}

// Toggle flips membership of a system. Adding beyond the cap is rejected —
// the selection is returned unchanged and the caller must deselect first;
// there is no eviction of older selections.
func (sel Selection) Toggle(system int) Selection {
	for i, sys := range sel.systems {
		if sys == system {
			out := make([]int, 0, len(sel.systems)-1)
			out = append(out, sel.systems[:i]...)
			out = append(out, sel.systems[i+1:]...)
			return Selection{systems: out}
		}
	}
	if len(sel.systems) >= MaxVisibleThirdParty {
		return sel
	}
	out := make([]int, len(sel.systems), len(sel.systems)+1)
	copy(out, sel.systems)
	return Selection{systems: append(out, system)}
}

// Contains reports whether a system is currently selected.
func (sel Selection) Contains(system int) bool {
	for _, sys := range sel.systems {
		if sys == system {
			return true
		}
	}
	return false
}

// Len returns the number of selected systems.
func (sel Selection) Len() int {
	return len(sel.systems)
}

// Visible filters entries for arc rendering: own-track entries are always
// eligible, third-party entries only when their system is selected.
func (sel Selection) Visible(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Track == TrackOwn || sel.Contains(e.System) {
			out = append(out, e)
		}
	}
	return out
}
