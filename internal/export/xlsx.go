package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"peregovorka/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// BookingsReport builds an XLSX workbook with one row per booking, room
// names resolved from the rooms list. The caller owns the returned file.
func BookingsReport(bookings []*models.Booking, rooms []*models.Room) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	roomNames := make(map[int64]string, len(rooms))
	for _, room := range rooms {
		roomNames[room.ID] = room.Name
	}

	headers := []string{"ID", "Room", "User ID", "Start", "End", "Purpose", "Created"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	for i, booking := range bookings {
		row := i + 2
		roomName := roomNames[booking.RoomID]
		if roomName == "" {
			roomName = fmt.Sprintf("room #%d", booking.RoomID)
		}

		values := []any{
			booking.ID,
			roomName,
			booking.UserID,
			booking.StartTime.Format(time.RFC3339),
			booking.EndTime.Format(time.RFC3339),
			booking.Purpose,
			booking.CreatedAt.Format(time.RFC3339),
		}
		for col, val := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, val)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "B", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "F", 30)

	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

// SaveReport writes an already built workbook under dir and returns the
// file path.
func SaveReport(dir string, f *excelize.File) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving report: %w", err)
	}
	return path, nil
}
