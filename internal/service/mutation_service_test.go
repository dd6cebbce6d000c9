package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SameerShan723/timetable-api/internal/dto"
	"github.com/SameerShan723/timetable-api/internal/models"
	appErrors "github.com/SameerShan723/timetable-api/pkg/errors"
)

func newMutationFixture() (*versionStoreStub, *MutationService) {
	store := newVersionStoreStub()
	return store, NewMutationService(store, nil, nil, nil)
}

func TestMutationAddRoomOnEmptyStore(t *testing.T) {
	store, svc := newMutationFixture()

	result, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Version)
	for _, day := range models.Weekdays {
		require.Len(t, result.Grid[day], 1)
		assert.Equal(t, "Room A", result.Grid[day][0].Room)
	}
	assert.Len(t, store.snapshots, 1)
}

func TestMutationAddRoomDuplicate(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)

	_, err = svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDuplicateRoom.Code, appErrors.FromError(err).Code)
}

func TestMutationAddRoomBlankName(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMutationUpdateSessionNewVersionByDefault(t *testing.T) {
	store, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)

	result, err := svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math", Teacher: "Smith", Section: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Version)
	assert.Len(t, store.snapshots, 2)

	slot, err := result.Grid.Slot(models.Monday, "Room A", "9:30-10:30")
	require.NoError(t, err)
	require.False(t, slot.IsEmpty())
	assert.Equal(t, "Math", slot.Session.Subject)
}

func TestMutationUpdateSessionInPlace(t *testing.T) {
	store, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)

	result, err := svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Tuesday,
		Room:     "Room A",
		TimeSlot: "10:30-11:30",
		Session:  dto.SessionFields{Subject: "Bio", Teacher: "Khan", Section: "B"},
		Mode:     dto.PersistModeInPlace,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Version)
	assert.Len(t, store.snapshots, 1)
}

func TestMutationUpdateSessionUnknownTargets(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)

	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Lab9",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "8:00-9:00",
		Session:  dto.SessionFields{Subject: "Math"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMutationUpdateSessionRejectsUnknownDay(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)

	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      "Sunday",
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestMutationDeleteSessionClearsCell(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)
	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math", Teacher: "Smith"},
		Mode:     dto.PersistModeInPlace,
	})
	require.NoError(t, err)

	result, err := svc.DeleteSession(context.Background(), dto.DeleteSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Mode:     dto.PersistModeInPlace,
	})
	require.NoError(t, err)

	slot, err := result.Grid.Slot(models.Monday, "Room A", "9:30-10:30")
	require.NoError(t, err)
	assert.True(t, slot.IsEmpty())
	assert.Zero(t, result.Stats.Scheduled)
}

func TestMutationReturnsAdvisoryConflicts(t *testing.T) {
	_, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)
	_, err = svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room B", Mode: dto.PersistModeInPlace})
	require.NoError(t, err)

	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math", Teacher: "Smith", Section: "A"},
		Mode:     dto.PersistModeInPlace,
	})
	require.NoError(t, err)

	result, err := svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room B",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Physics", Teacher: "Smith", Section: "B"},
		Mode:     dto.PersistModeInPlace,
	})
	require.NoError(t, err)
	// The double booking is reported but the write still lands.
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "Smith", result.Conflicts[0].Entity)
	assert.Equal(t, 2, result.Stats.Scheduled)
}

func TestMutationPersistenceFailureDiscardsChange(t *testing.T) {
	store, svc := newMutationFixture()

	_, err := svc.AddRoom(context.Background(), dto.AddRoomRequest{Room: "Room A"})
	require.NoError(t, err)
	before := string(store.snapshots[1])

	store.failWith = errors.New("connection reset")
	_, err = svc.UpdateSession(context.Background(), dto.UpdateSessionRequest{
		Day:      models.Monday,
		Room:     "Room A",
		TimeSlot: "9:30-10:30",
		Session:  dto.SessionFields{Subject: "Math", Teacher: "Smith"},
		Mode:     dto.PersistModeInPlace,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPersistence.Code, appErrors.FromError(err).Code)

	store.failWith = nil
	assert.Equal(t, before, string(store.snapshots[1]))
	assert.Len(t, store.snapshots, 1)
}
