package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	dto "activity-tracker.com/activity-tracker/internal/data_models"
	model "activity-tracker.com/activity-tracker/pkg/models"
)

const EmptyMessage = "No activities to show"

// WriteActivities renders the activity overview as a table on w.
func WriteActivities(w io.Writer, activities []model.Activity, users []model.User) error {
	if len(activities) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(table.Row{"Commitment", "Description", "Priority", "Responsible", "Progress", "Status"})
	for _, a := range activities {
		row := dto.NewActivityResponse(a, users, "")

		description := row.Description
		if row.Provider != "" {
			description = fmt.Sprintf("%s (%s)", description, row.Provider)
		}
		tw.AppendRow(table.Row{
			row.CommitmentDate,
			description,
			row.Priority,
			row.ResponsibleName,
			fmt.Sprintf("%d%%", row.Progress),
			row.Status,
		})
	}
	tw.AppendFooter(table.Row{"", fmt.Sprintf("%d activities", len(activities))})
	tw.Render()
	return nil
}
