package export

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mehan05/venue-backend-new/internal/models"
)

func sampleBookings() []*models.Booking {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	return []*models.Booking{
		{
			ID: "b1", Venue: "Main Auditorium", Date: "2026-09-10", Time: "10:00-12:00",
			Purpose: "Orientation", Status: models.StatusPending,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: "b2", Venue: "Seminar Hall A", Date: "2026-09-11", Time: "14:00",
			Purpose: "Lecture", Status: models.StatusApproved, Remark: "confirmed",
			CreatedAt: now, UpdatedAt: now,
		},
	}
}

func TestBuildWorkbook(t *testing.T) {
	f, err := BuildWorkbook(sampleBookings())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0][:len(headers)])
	assert.Equal(t, "b1", rows[1][0])
	assert.Equal(t, "Main Auditorium", rows[1][1])
	assert.Equal(t, "Pending", rows[1][5])
	assert.Equal(t, "confirmed", rows[2][6])

	// The default sheet is removed so the workbook opens on Bookings
	assert.NotContains(t, f.GetSheetList(), "Sheet1")
}

func TestBuildWorkbook_Empty(t *testing.T) {
	f, err := BuildWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteWorkbookFile(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteWorkbookFile(sampleBookings(), dir)
	require.NoError(t, err)
	assert.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
