// Package schedule owns the canonical slot grid: twelve half-hour slots per
// doctor per day, 09:00-11:30 and 14:00-16:30.
package schedule

var canonicalSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30",
}

var slotIndex = func() map[string]int {
	m := make(map[string]int, len(canonicalSlots))
	for i, s := range canonicalSlots {
		m[s] = i
	}
	return m
}()

// Slots returns the canonical enumeration in canonical order.
func Slots() []string {
	out := make([]string, len(canonicalSlots))
	copy(out, canonicalSlots)
	return out
}

// ValidSlot reports whether s is one of the canonical slot labels.
func ValidSlot(s string) bool {
	_, ok := slotIndex[s]
	return ok
}

// Available returns the canonical slots minus the booked ones, preserving
// canonical order regardless of booking order.
func Available(booked []string) []string {
	taken := make(map[string]struct{}, len(booked))
	for _, s := range booked {
		taken[s] = struct{}{}
	}

	out := make([]string, 0, len(canonicalSlots))
	for _, s := range canonicalSlots {
		if _, ok := taken[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}
