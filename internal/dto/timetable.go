package dto

import (
	"time"

	"github.com/SameerShan723/timetable-api/internal/models"
)

// PersistMode selects how a mutated grid is written back: as a fresh version
// or over the latest version in place.
type PersistMode string

const (
	PersistModeNewVersion PersistMode = "NEW_VERSION"
	PersistModeInPlace    PersistMode = "IN_PLACE"
)

// VersionListResponse summarises the stored versions for the switcher UI.
type VersionListResponse struct {
	Versions []int `json:"versions"`
	Latest   int   `json:"latest"`
	Selected int   `json:"selected"`
}

// TimetableResponse is a resolved grid with its derived conflict list and
// occupancy stats.
type TimetableResponse struct {
	Version   int                   `json:"version"`
	Grid      models.TimetableData  `json:"grid"`
	Conflicts []models.Conflict     `json:"conflicts"`
	Stats     models.TimetableStats `json:"stats"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// SaveTimetableRequest persists a full grid as a new version.
type SaveTimetableRequest struct {
	Grid models.TimetableData `json:"grid" binding:"required"`
}

// MutationResult reports the outcome of a single grid mutation. Conflicts are
// advisory: the write has already been committed when they are returned.
type MutationResult struct {
	Version   int                   `json:"version"`
	Grid      models.TimetableData  `json:"grid"`
	Conflicts []models.Conflict     `json:"conflicts"`
	Stats     models.TimetableStats `json:"stats"`
}

// AddRoomRequest adds a room across all five weekdays.
type AddRoomRequest struct {
	Room string      `json:"room" validate:"required"`
	Mode PersistMode `json:"mode" validate:"omitempty,oneof=NEW_VERSION IN_PLACE"`
}

// SessionFields carries the editable content of one cell.
type SessionFields struct {
	Subject string `json:"subject"`
	Teacher string `json:"teacher"`
	Section string `json:"section"`
}

// UpdateSessionRequest writes one cell of the latest grid.
type UpdateSessionRequest struct {
	Day      models.Weekday `json:"day" validate:"required"`
	Room     string         `json:"room" validate:"required"`
	TimeSlot string         `json:"time_slot" validate:"required"`
	Session  SessionFields  `json:"session" validate:"required"`
	Mode     PersistMode    `json:"mode" validate:"omitempty,oneof=NEW_VERSION IN_PLACE"`
}

// DeleteSessionRequest clears one cell of the latest grid.
type DeleteSessionRequest struct {
	Day      models.Weekday `json:"day" validate:"required"`
	Room     string         `json:"room" validate:"required"`
	TimeSlot string         `json:"time_slot" validate:"required"`
	Mode     PersistMode    `json:"mode" validate:"omitempty,oneof=NEW_VERSION IN_PLACE"`
}
