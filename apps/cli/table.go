package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// table is a rendered list view: the records and the statistics computed over them.
type table struct {
	title  string
	header []string
	rows   [][]string
	stats  [][2]string // label, value
}

func (t table) write(w io.Writer) error {
	fmt.Fprintf(w, "\n%s\n", t.title)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range t.stats {
		fmt.Fprintf(tw, "  %s:\t%s\n", s[0], s[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	if len(t.rows) == 0 {
		fmt.Fprintln(w, "Nessun elemento.")
		return nil
	}
	fmt.Fprintln(tw, strings.Join(t.header, "\t"))
	for _, row := range t.rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
