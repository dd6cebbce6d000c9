package dto

import "github.com/SameerShan723/timetable-api/internal/models"

// ImportRow is one normalized session row handed over by the upload
// collaborator. Files are parsed upstream; the core only consumes rows.
type ImportRow struct {
	Subject     string         `json:"subject" validate:"required"`
	Teacher     string         `json:"teacher"`
	Section     string         `json:"section"`
	CreditHours int            `json:"credit_hours" validate:"omitempty,min=0"`
	Semester    string         `json:"semester"`
	Day         models.Weekday `json:"day" validate:"required"`
	Room        string         `json:"room" validate:"required"`
	TimeSlot    string         `json:"time_slot" validate:"required"`
}

// ImportRequest bulk-applies normalized rows to the latest grid.
type ImportRequest struct {
	Rows        []ImportRow `json:"rows" validate:"required,min=1,dive"`
	CreateRooms bool        `json:"create_rooms"`
	Mode        PersistMode `json:"mode" validate:"omitempty,oneof=NEW_VERSION IN_PLACE"`
}

// ImportRowError ties a row-level failure back to its position in the upload.
type ImportRowError struct {
	Index   int    `json:"index"`
	Message string `json:"message"`
}

// ImportResult reports applied rows, per-row failures and the advisory
// conflict state of the persisted grid.
type ImportResult struct {
	Version   int                   `json:"version"`
	Applied   int                   `json:"applied"`
	RowErrors []ImportRowError      `json:"row_errors,omitempty"`
	Conflicts []models.Conflict     `json:"conflicts"`
	Stats     models.TimetableStats `json:"stats"`
}
