package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mehan05/venue-backend-new/internal/models"
)

const sheetName = "Bookings"

var headers = []string{"ID", "Venue", "Date", "Time", "Purpose", "Status", "Remark", "Created", "Updated"}

// BuildWorkbook renders the bookings listing into an xlsx workbook.
func BuildWorkbook(bookings []*models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "I1", headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []interface{}{
			b.ID,
			b.Venue,
			b.Date,
			b.Time,
			b.Purpose,
			b.Status,
			b.Remark,
			b.CreatedAt.Format("2006-01-02 15:04:05"),
			b.UpdatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "I", 18)
	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

// WriteWorkbookFile builds the workbook and saves it under dir, returning
// the file path.
func WriteWorkbookFile(bookings []*models.Booking, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f, err := BuildWorkbook(bookings)
	if err != nil {
		return "", err
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02_150405"))
	path := filepath.Join(dir, fileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export: %v", err)
	}
	return path, nil
}
