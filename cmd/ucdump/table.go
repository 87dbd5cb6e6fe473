package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/handiism/ucdump/internal/model"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderOutcomes lists every outcome that did not finish cleanly, one row
// per entry.
func renderOutcomes(outcomes []model.Outcome) string {
	var rows [][]string
	for _, o := range outcomes {
		status := o.Status()
		if status == model.StatusDone {
			continue
		}
		detail := ""
		switch {
		case o.Err != nil:
			detail = o.Err.Error()
		case o.TagErr != nil:
			detail = o.TagErr.Error()
		}
		rows = append(rows, []string{o.Entry.Identifier, string(status), o.Stage.String(), detail})
	}
	if len(rows) == 0 {
		return ""
	}
	return renderTable(
		[]string{"Identifier", "Status", "Stage", "Detail"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

// renderSummary counts outcomes by status and totals the bytes written.
func renderSummary(outcomes []model.Outcome) string {
	counts := make(map[model.Status]int)
	var written int64
	for _, o := range outcomes {
		counts[o.Status()]++
		if o.Written() {
			written += o.Size
		}
	}

	rows := [][]string{
		{string(model.StatusDone), fmt.Sprint(counts[model.StatusDone])},
		{string(model.StatusDoneFallback), fmt.Sprint(counts[model.StatusDoneFallback])},
		{string(model.StatusDoneTagFailure), fmt.Sprint(counts[model.StatusDoneTagFailure])},
		{string(model.StatusFailed), fmt.Sprint(counts[model.StatusFailed])},
		{"total", fmt.Sprint(len(outcomes))},
		{"written", humanize.IBytes(uint64(written))},
	}
	return renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight})
}

// failedCount returns how many outcomes produced no output file.
func failedCount(outcomes []model.Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Status() == model.StatusFailed {
			n++
		}
	}
	return n
}
