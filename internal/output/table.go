package output

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/sessnotes/internal/domain"
)

// WriteSessionTable renders session files as a table
func WriteSessionTable(w io.Writer, files []domain.SessionFile) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Session", "Date", "Stage", "File"})
	for _, f := range files {
		date := f.Date
		if date == "" {
			date = "-"
		}
		if err := table.Append([]string{strconv.Itoa(f.Session), date, string(f.Stage), f.Name()}); err != nil {
			return err
		}
	}
	return table.Render()
}
