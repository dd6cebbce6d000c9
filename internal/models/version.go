package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// TimetableVersion is one immutable numbered snapshot of a timetable grid.
// Version numbers are strictly increasing; the snapshot body is stored as
// JSONB and never merged, only replaced wholesale.
type TimetableVersion struct {
	ID        string         `db:"id" json:"id"`
	Version   int            `db:"version" json:"version"`
	Data      types.JSONText `db:"data" json:"data"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}

// Grid decodes the stored snapshot into a TimetableData.
func (v *TimetableVersion) Grid() (TimetableData, error) {
	var grid TimetableData
	if err := json.Unmarshal(v.Data, &grid); err != nil {
		return nil, fmt.Errorf("decode timetable snapshot v%d: %w", v.Version, err)
	}
	return grid, nil
}

// EncodeGrid serialises a grid for storage.
func EncodeGrid(grid TimetableData) (types.JSONText, error) {
	raw, err := json.Marshal(grid)
	if err != nil {
		return nil, fmt.Errorf("encode timetable snapshot: %w", err)
	}
	return types.JSONText(raw), nil
}

// SelectedVersion is the singleton pointer naming the version that is
// authoritative for public display. It only moves on an explicit finalize.
type SelectedVersion struct {
	Version   int       `db:"version" json:"version"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
