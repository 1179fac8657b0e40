package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ssargent/roster/pkg/archive"
	"github.com/ssargent/roster/pkg/config"
	"github.com/ssargent/roster/pkg/student"
)

// recordRow is a roster record with its 1-based position in the active roster
type recordRow struct {
	Index int `json:"index,omitempty"`
	student.Record
	Current bool `json:"current,omitempty"`
}

// outputRecords displays multiple records
func (a *app) outputRecords(w io.Writer, rows []recordRow) error {
	if a.jsonOutput() {
		return outputJSON(w, rows)
	}
	return outputRecordsTable(w, rows)
}

// outputRecord displays a single record with its position among visible records
func (a *app) outputRecord(w io.Writer, row recordRow, pos, total int) error {
	if a.jsonOutput() {
		return outputJSON(w, row)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "Record:\t%d/%d\n", pos, total)
	fmt.Fprintf(tw, "Index:\t%d\n", row.Index)
	fmt.Fprintf(tw, "ID:\t%s\n", row.ID)
	fmt.Fprintf(tw, "Full name:\t%s\n", row.FullName)
	fmt.Fprintf(tw, "Group:\t%s\n", row.Group)
	fmt.Fprintf(tw, "Subject:\t%s\n", row.Subject)
	fmt.Fprintf(tw, "Grade:\t%s\n", formatGrade(row.Grade))
	fmt.Fprintf(tw, "Expelled:\t%t\n", row.Expelled)

	return nil
}

// outputRecordsTable displays records in table format
func outputRecordsTable(w io.Writer, rows []recordRow) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No records found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, " \t#\tNAME\tGROUP\tSUBJECT\tGRADE\tEXPELLED")
	for _, row := range rows {
		marker := ""
		if row.Current {
			marker = ">"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			marker,
			row.Index,
			row.FullName,
			row.Group,
			row.Subject,
			formatGrade(row.Grade),
			formatYesNo(row.Expelled))
	}

	return nil
}

// outputExpelled displays the expelled roster. The # column is the position
// taken by restore and purge.
func (a *app) outputExpelled(w io.Writer, records []student.Record) error {
	if a.jsonOutput() {
		return outputJSON(w, records)
	}
	if len(records) == 0 {
		fmt.Fprintln(w, "No expelled students")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "#\tNAME\tGROUP\tSUBJECT\tGRADE")
	for i, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, r.FullName, r.Group, r.Subject, formatGrade(r.Grade))
	}
	return nil
}

// outputSnapshots displays archived rosters
func (a *app) outputSnapshots(w io.Writer, snapshots []archive.Snapshot) error {
	if a.jsonOutput() {
		return outputJSON(w, snapshots)
	}
	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No snapshots found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "ID\tSAVED\tRECORDS")
	for _, s := range snapshots {
		fmt.Fprintf(tw, "%s\t%s\t%d\n", s.ID, s.Time.Local().Format(time.DateTime), s.Count)
	}
	return nil
}

// outputSettings displays settings as key=value lines
func (a *app) outputSettings(w io.Writer, settings *config.Settings) error {
	if a.jsonOutput() {
		return outputJSON(w, settings)
	}

	m := settings.ToMap()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()
	for _, key := range config.Keys {
		fmt.Fprintf(tw, "%s\t%s\n", key, m[key])
	}
	return nil
}

func outputJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// formatGrade shows ungraded records with an empty grade
func formatGrade(g int) string {
	if g == student.Ungraded {
		return ""
	}
	return strconv.Itoa(g)
}

func formatYesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
