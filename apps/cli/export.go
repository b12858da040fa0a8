package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const statsSheet = "Statistiche"

// exportTable writes t to an .xlsx workbook: one sheet with the records and one with the statistics.
func exportTable(t table, file string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), t.title); err != nil {
		return errors.Wrap(err, "naming sheet")
	}
	if err := writeRows(f, t.title, t.header, t.rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return errors.Wrap(err, "creating statistics sheet")
	}
	stats := make([][]string, 0, len(t.stats))
	for _, s := range t.stats {
		stats = append(stats, []string{s[0], s[1]})
	}
	if err := writeRows(f, statsSheet, []string{"Statistica", "Valore"}, stats); err != nil {
		return err
	}

	if err := f.SaveAs(file); err != nil {
		return errors.Wrapf(err, "saving %s", file)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, header []string, rows [][]string) error {
	for i, row := range append([][]string{header}, rows...) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		if err = f.SetSheetRow(sheet, cell, &values); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}

// readStudentRows reads "firstname, lastname, matricola" rows from the first sheet, skipping the header.
// Incomplete rows are skipped and reported by line number.
func readStudentRows(file string) (rows [][3]string, skipped []int, err error) {
	f, err := excelize.OpenFile(file)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening %s", file)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, fmt.Errorf("%s does not contain any sheets", file)
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}

	for i, row := range all {
		if i == 0 {
			continue // header
		}
		var r [3]string
		for j := 0; j < len(r) && j < len(row); j++ {
			r[j] = strings.TrimSpace(row[j])
		}
		if r[0] == "" || r[1] == "" || r[2] == "" {
			skipped = append(skipped, i+1)
			continue
		}
		rows = append(rows, r)
	}
	return rows, skipped, nil
}
