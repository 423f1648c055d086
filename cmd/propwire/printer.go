package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"github.com/propwire/propwire/diagnostic"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// printer writes command output, coloring it unless disabled.
type printer struct {
	out     io.Writer
	noColor bool
}

func newPrinter(out io.Writer, noColor bool) *printer {
	return &printer{out: out, noColor: noColor}
}

func (p *printer) paint(text string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if p.noColor {
		c.DisableColor()
	}

	return c.Sprint(text)
}

func (p *printer) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// table renders rows with padded columns and a bold header.
func (p *printer) table(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, header := range headers {
		widths[i] = len(header)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	line := func(cells []string, attrs ...color.Attribute) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = p.paint(padRight(cell, widths[i]), attrs...)
		}

		fmt.Fprintln(p.out, strings.TrimRight(strings.Join(parts, "  "), " "))
	}

	line(headers, color.Bold, color.FgCyan)
	for _, row := range rows {
		line(row)
	}
}

// report prints one line per batch entry and a summary.
func (p *printer) report(r *diagnostic.Report) {
	for _, o := range r.Outcomes {
		var status string
		switch o.Status {
		case diagnostic.StatusApplied:
			status = p.paint(padRight(o.Status.String(), 7), color.FgGreen)
		case diagnostic.StatusIgnored:
			status = p.paint(padRight(o.Status.String(), 7), color.FgYellow)
		default:
			status = p.paint(padRight(o.Status.String(), 7), color.FgRed, color.Bold)
		}

		if o.Err != nil {
			fmt.Fprintf(p.out, "%s %s: %v\n", status, o.Path, o.Err)
			continue
		}

		fmt.Fprintf(p.out, "%s %s\n", status, o.Path)
	}

	fmt.Fprintf(p.out, "%d applied, %d ignored, %d failed\n",
		r.Count(diagnostic.StatusApplied),
		r.Count(diagnostic.StatusIgnored),
		r.Count(diagnostic.StatusFailed))
}

func (p *printer) dump(v any) {
	dumper.Fdump(p.out, v)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}
