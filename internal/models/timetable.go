package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Weekday enumerates the working days of the timetable. The set is closed;
// weekend days are never scheduled.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
)

// Weekdays lists the working days in canonical display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

// TimeSlots is the canonical ordered sequence of slot labels. Every room on
// every day carries exactly one cell per label, in this order. Labels are
// opaque strings compared by equality, never parsed as clock times.
var TimeSlots = []string{
	"9:30-10:30",
	"10:30-11:30",
	"11:30-12:30",
	"12:30-1:30",
	"1:30-2:30",
	"2:30-3:30",
	"3:30-4:30",
}

// Sentinel errors for grid invariant violations. The service layer maps these
// onto the typed HTTP errors.
var (
	ErrUnknownDay        = errors.New("unknown weekday")
	ErrUnknownRoom       = errors.New("unknown room")
	ErrUnknownTimeSlot   = errors.New("unknown time slot")
	ErrRoomExists        = errors.New("room already exists")
	ErrMalformedSchedule = errors.New("malformed room schedule")
)

// IsValidWeekday reports whether day is part of the closed weekday set.
func IsValidWeekday(day Weekday) bool {
	for _, d := range Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// SlotIndex resolves a time slot label to its canonical position.
func SlotIndex(label string) (int, bool) {
	for i, slot := range TimeSlots {
		if slot == label {
			return i, true
		}
	}
	return 0, false
}

// Session is one scheduled class occupying a single (day, room, slot) cell.
type Session struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Section string `json:"section"`
}

// DisplayTeacher returns the teacher name for rendering, substituting the
// "No Faculty" sentinel when the cell has no teacher assigned.
func (s Session) DisplayTeacher() string {
	if s.Teacher == "" {
		return "No Faculty"
	}
	return s.Teacher
}

// DisplaySubject returns the subject label for rendering, defaulting blank
// subjects to "Unknown". Used for message composition only, never grouping.
func (s Session) DisplaySubject() string {
	if s.Subject == "" {
		return "Unknown"
	}
	return s.Subject
}

// Slot is the tagged cell variant: either empty or occupied by a session.
// Emptiness is the nil tag, never a blank-field convention.
type Slot struct {
	Session *Session `json:"session,omitempty"`
}

// EmptySlot returns an unoccupied cell.
func EmptySlot() Slot {
	return Slot{}
}

// OccupiedSlot returns a cell holding the given session.
func OccupiedSlot(sess Session) Slot {
	return Slot{Session: &sess}
}

// IsEmpty reports whether the cell holds no session.
func (s Slot) IsEmpty() bool {
	return s.Session == nil
}

// RoomSchedule is one room's ordered cell sequence for a single day. The
// sequence length always equals len(TimeSlots); cell i corresponds to
// TimeSlots[i].
type RoomSchedule struct {
	Room  string `json:"room"`
	Slots []Slot `json:"slots"`
}

// NewRoomSchedule returns a room schedule with every cell empty.
func NewRoomSchedule(room string) RoomSchedule {
	return RoomSchedule{Room: room, Slots: make([]Slot, len(TimeSlots))}
}

// TimetableData is the full grid for one version: weekday to ordered room
// schedules. Room order within a day is insertion order and is significant
// for deterministic conflict output.
type TimetableData map[Weekday][]RoomSchedule

// NewTimetableData returns an empty five-day grid with no rooms.
func NewTimetableData() TimetableData {
	grid := make(TimetableData, len(Weekdays))
	for _, day := range Weekdays {
		grid[day] = []RoomSchedule{}
	}
	return grid
}

// Clone returns a deep copy of the grid. Mutation operations work on copies
// so a failed persist leaves the loaded snapshot untouched.
func (t TimetableData) Clone() TimetableData {
	clone := make(TimetableData, len(t))
	for day, rooms := range t {
		copied := make([]RoomSchedule, len(rooms))
		for i, rs := range rooms {
			slots := make([]Slot, len(rs.Slots))
			for j, slot := range rs.Slots {
				if slot.Session != nil {
					sess := *slot.Session
					slots[j] = Slot{Session: &sess}
				}
			}
			copied[i] = RoomSchedule{Room: rs.Room, Slots: slots}
		}
		clone[day] = copied
	}
	return clone
}

// RoomIndex locates a room within a day's schedule list.
func (t TimetableData) RoomIndex(day Weekday, room string) (int, bool) {
	for i, rs := range t[day] {
		if rs.Room == room {
			return i, true
		}
	}
	return 0, false
}

// AddRoom appends an all-empty schedule for the room to every weekday. The
// addition is atomic across the five days: a duplicate name on any day
// rejects the whole operation and the grid is left unchanged.
func (t TimetableData) AddRoom(room string) error {
	if room == "" {
		return fmt.Errorf("%w: empty room name", ErrMalformedSchedule)
	}
	for _, day := range Weekdays {
		if _, exists := t.RoomIndex(day, room); exists {
			return fmt.Errorf("%w: %s on %s", ErrRoomExists, room, day)
		}
	}
	for _, day := range Weekdays {
		t[day] = append(t[day], NewRoomSchedule(room))
	}
	return nil
}

// Slot reads the cell at (day, room, slot label).
func (t TimetableData) Slot(day Weekday, room, timeSlot string) (Slot, error) {
	idx, err := t.locate(day, room, timeSlot)
	if err != nil {
		return Slot{}, err
	}
	roomIdx, _ := t.RoomIndex(day, room)
	return t[day][roomIdx].Slots[idx], nil
}

// SetSlot writes the cell at (day, room, slot label).
func (t TimetableData) SetSlot(day Weekday, room, timeSlot string, slot Slot) error {
	idx, err := t.locate(day, room, timeSlot)
	if err != nil {
		return err
	}
	roomIdx, _ := t.RoomIndex(day, room)
	t[day][roomIdx].Slots[idx] = slot
	return nil
}

func (t TimetableData) locate(day Weekday, room, timeSlot string) (int, error) {
	if !IsValidWeekday(day) {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDay, day)
	}
	roomIdx, ok := t.RoomIndex(day, room)
	if !ok {
		return 0, fmt.Errorf("%w: %s on %s", ErrUnknownRoom, room, day)
	}
	idx, ok := SlotIndex(timeSlot)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTimeSlot, timeSlot)
	}
	if idx >= len(t[day][roomIdx].Slots) {
		return 0, fmt.Errorf("%w: room %s on %s has %d slots", ErrMalformedSchedule, room, day, len(t[day][roomIdx].Slots))
	}
	return idx, nil
}

// Validate checks structural invariants: recognised weekdays only, per-day
// unique room names, and exactly one cell per canonical time slot. Snapshots
// are validated before they reach the analyzer or the store.
func (t TimetableData) Validate() error {
	for day, rooms := range t {
		if !IsValidWeekday(day) {
			return fmt.Errorf("%w: %s", ErrUnknownDay, day)
		}
		seen := make(map[string]struct{}, len(rooms))
		for _, rs := range rooms {
			if rs.Room == "" {
				return fmt.Errorf("%w: unnamed room on %s", ErrMalformedSchedule, day)
			}
			if _, dup := seen[rs.Room]; dup {
				return fmt.Errorf("%w: %s on %s", ErrRoomExists, rs.Room, day)
			}
			seen[rs.Room] = struct{}{}
			if len(rs.Slots) != len(TimeSlots) {
				return fmt.Errorf("%w: room %s on %s has %d slots, want %d",
					ErrMalformedSchedule, rs.Room, day, len(rs.Slots), len(TimeSlots))
			}
		}
	}
	return nil
}

// MarshalJSON renders the grid with days in canonical order.
func (t TimetableData) MarshalJSON() ([]byte, error) {
	type dayGrid struct {
		Day   Weekday        `json:"day"`
		Rooms []RoomSchedule `json:"rooms"`
	}
	days := make([]dayGrid, 0, len(Weekdays))
	for _, day := range Weekdays {
		rooms := t[day]
		if rooms == nil {
			rooms = []RoomSchedule{}
		}
		days = append(days, dayGrid{Day: day, Rooms: rooms})
	}
	return json.Marshal(days)
}

// UnmarshalJSON accepts the canonical day-list form produced by MarshalJSON.
func (t *TimetableData) UnmarshalJSON(data []byte) error {
	type dayGrid struct {
		Day   Weekday        `json:"day"`
		Rooms []RoomSchedule `json:"rooms"`
	}
	var days []dayGrid
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	grid := NewTimetableData()
	for _, dg := range days {
		if !IsValidWeekday(dg.Day) {
			return fmt.Errorf("%w: %s", ErrUnknownDay, dg.Day)
		}
		if dg.Rooms == nil {
			dg.Rooms = []RoomSchedule{}
		}
		grid[dg.Day] = dg.Rooms
	}
	*t = grid
	return nil
}
