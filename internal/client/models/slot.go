package models

// TimeSlot is one of the fixed class windows.
type TimeSlot struct {
	ID    string
	Start string
	End   string
}

// Label renders "19:20 às 20:50".
func (t TimeSlot) Label() string {
	return t.Start + " às " + t.End
}

var TimeSlots = []TimeSlot{
	{ID: "19:20-20:50", Start: "19:20", End: "20:50"},
	{ID: "21:10-22:40", Start: "21:10", End: "22:40"},
}

// SlotByID looks a slot up by its stored identifier.
func SlotByID(id string) (TimeSlot, bool) {
	for _, s := range TimeSlots {
		if s.ID == id {
			return s, true
		}
	}
	return TimeSlot{}, false
}

// SlotOrder gives the display position of id; unknown slots sort last.
func SlotOrder(id string) int {
	for i, s := range TimeSlots {
		if s.ID == id {
			return i
		}
	}
	return len(TimeSlots)
}
