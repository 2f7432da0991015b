package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shashwat0010/streamify-chat-app/internal/model"
)

const sheetName = "Meetings"

// MeetingHeader 회의 기록 내보내기 헤더
var MeetingHeader = []string{
	"Meeting ID",
	"Call ID",
	"Start Time",
	"End Time",
	"Duration (min)",
	"Participants",
	"Recording URL",
	"Summary",
}

var columnWidths = []float64{12, 28, 22, 22, 15, 40, 50, 70}

// MeetingsXLSX renders the meeting history as an Excel workbook.
func MeetingsXLSX(meetings []model.Meeting) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range MeetingHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}

		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(sheetName, name, name, columnWidths[col]); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, m := range meetings {
		row := []any{
			m.ID,
			m.CallID,
			m.StartTime.UTC().Format(time.DateTime),
			formatEnd(m.EndTime),
			int(m.Duration().Round(time.Minute).Minutes()),
			participantNames(m.Participants),
			m.RecordingURL,
			m.Summary,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatEnd(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.DateTime)
}

func participantNames(users []*model.User) string {
	names := make([]string, 0, len(users))
	for _, u := range users {
		if u != nil {
			names = append(names, u.FullName)
		}
	}
	return strings.Join(names, ", ")
}
