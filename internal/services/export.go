package services

import (
	"strconv"
	"strings"

	"github.com/taskhive/taskhive/internal/models"
)

// ExportHeaders is the column order of exported spreadsheets. Kept
// compatible with what the import engine resolves, so an exported file
// imports back cleanly.
var ExportHeaders = []string{
	"Serial Number",
	"Title",
	"Description",
	"Priority",
	"Status",
	"Due Date",
	"Tags",
}

// ExportRows flattens tasks into spreadsheet rows, one per task, due
// dates truncated to a date-only string.
func ExportRows(tasks []models.Task) [][]string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.Itoa(t.SerialNumber),
			t.Title,
			t.Description,
			string(t.Priority),
			string(t.Status),
			t.DueDate.Format("2006-01-02"),
			strings.Join(t.Tags, ", "),
		})
	}
	return rows
}
