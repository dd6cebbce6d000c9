package models

// ConflictDimension names the resource two sessions illegitimately share.
type ConflictDimension string

const (
	ConflictDimensionTeacher ConflictDimension = "TEACHER"
	ConflictDimensionSubject ConflictDimension = "SUBJECT_SECTION"
)

// Conflict is a derived fact: one entity double-booked across rooms at the
// same (day, time). Conflicts are recomputed on demand and never persisted.
type Conflict struct {
	Day       Weekday           `json:"day"`
	TimeSlot  string            `json:"time"`
	Dimension ConflictDimension `json:"dimension"`
	Entity    string            `json:"entity"`
	Rooms     []string          `json:"rooms"`
	Message   string            `json:"message"`
}

// TimetableStats aggregates cell occupancy for a grid. Derived, never cached
// server-side.
type TimetableStats struct {
	TotalSlots  int             `json:"total_slots"`
	Scheduled   int             `json:"scheduled"`
	Free        int             `json:"free"`
	RoomsPerDay map[Weekday]int `json:"rooms_per_day"`
}
