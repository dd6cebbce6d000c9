package service

import (
	"fmt"
	"strings"

	"github.com/SameerShan723/timetable-api/internal/models"
)

// ComputeConflicts walks the grid in canonical day and slot order and reports
// every entity double-booked across rooms at the same (day, time). Room lists
// preserve the order rooms are iterated in, so output is reproducible for the
// same grid. Pure and total on well-formed input; malformed room sequences
// are the grid's job to reject before they get here.
func ComputeConflicts(grid models.TimetableData) []models.Conflict {
	conflicts := []models.Conflict{}

	for _, day := range models.Weekdays {
		rooms := grid[day]
		for slotIdx, timeSlot := range models.TimeSlots {
			teacherRooms := map[string][]string{}
			teacherOrder := []string{}
			pairRooms := map[string][]string{}
			pairOrder := []string{}
			pairLabel := map[string]string{}

			for _, rs := range rooms {
				if slotIdx >= len(rs.Slots) {
					continue
				}
				sess := rs.Slots[slotIdx].Session
				if sess == nil {
					continue
				}

				// Only named teachers participate in teacher grouping; two
				// unassigned sessions at the same time are not a conflict.
				teacher := strings.TrimSpace(sess.Teacher)
				if teacher != "" {
					if _, seen := teacherRooms[teacher]; !seen {
						teacherOrder = append(teacherOrder, teacher)
					}
					teacherRooms[teacher] = append(teacherRooms[teacher], rs.Room)
				}

				// Subject-section grouping mirrors the teacher-name rule:
				// both halves of the key must be present.
				subject := strings.TrimSpace(sess.Subject)
				section := strings.TrimSpace(sess.Section)
				if subject != "" && section != "" {
					key := subject + "|" + section
					if _, seen := pairRooms[key]; !seen {
						pairOrder = append(pairOrder, key)
						pairLabel[key] = fmt.Sprintf("%s (%s)", subject, section)
					}
					pairRooms[key] = append(pairRooms[key], rs.Room)
				}
			}

			for _, teacher := range teacherOrder {
				bookedRooms := teacherRooms[teacher]
				if len(bookedRooms) < 2 {
					continue
				}
				conflicts = append(conflicts, models.Conflict{
					Day:       day,
					TimeSlot:  timeSlot,
					Dimension: models.ConflictDimensionTeacher,
					Entity:    teacher,
					Rooms:     bookedRooms,
					Message: fmt.Sprintf("teacher %q is booked in rooms %s at %s %s",
						teacher, strings.Join(bookedRooms, ", "), day, timeSlot),
				})
			}

			for _, key := range pairOrder {
				bookedRooms := pairRooms[key]
				if len(bookedRooms) < 2 {
					continue
				}
				conflicts = append(conflicts, models.Conflict{
					Day:       day,
					TimeSlot:  timeSlot,
					Dimension: models.ConflictDimensionSubject,
					Entity:    pairLabel[key],
					Rooms:     bookedRooms,
					Message: fmt.Sprintf("class %s is scheduled in rooms %s at %s %s",
						pairLabel[key], strings.Join(bookedRooms, ", "), day, timeSlot),
				})
			}
		}
	}

	return conflicts
}

// ComputeStats aggregates occupancy counters for a grid. A cell counts as
// scheduled when it is occupied and carries a teacher name.
func ComputeStats(grid models.TimetableData) models.TimetableStats {
	stats := models.TimetableStats{RoomsPerDay: make(map[models.Weekday]int, len(models.Weekdays))}

	for _, day := range models.Weekdays {
		rooms := grid[day]
		stats.RoomsPerDay[day] = len(rooms)
		for _, rs := range rooms {
			stats.TotalSlots += len(models.TimeSlots)
			for slotIdx := range models.TimeSlots {
				if slotIdx >= len(rs.Slots) {
					continue
				}
				sess := rs.Slots[slotIdx].Session
				if sess != nil && strings.TrimSpace(sess.Teacher) != "" {
					stats.Scheduled++
				}
			}
		}
	}

	stats.Free = stats.TotalSlots - stats.Scheduled
	if stats.Free < 0 {
		stats.Free = 0
	}
	return stats
}
