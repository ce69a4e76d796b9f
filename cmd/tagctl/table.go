/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bixoryai/mcp-course/tagreconciler"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// newTable returns a left-aligned markdown-style table.
func newTable(w io.Writer, headers []string) *tablewriter.Table {
	cfg := tablewriter.Config{
		Header: tw.CellConfig{
			Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			Formatting: tw.CellFormatting{AutoFormat: tw.Off},
		},
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignLeft},
		},
		MaxWidth: 100,
		Behavior: tw.Behavior{TrimSpace: tw.On},
	}
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(cfg),
		tablewriter.WithHeader(headers),
		tablewriter.WithRenderer(renderer.NewBlueprint()),
		tablewriter.WithRendition(tw.Rendition{
			Symbols: tw.NewSymbols(tw.StyleMarkdown),
			Borders: tw.Border{Left: tw.On, Top: tw.Off, Right: tw.On, Bottom: tw.Off},
		}),
		tablewriter.WithRowAutoWrap(tw.WrapNormal),
	)
}

func printReport(w io.Writer, r tagreconciler.Report, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	if r.Notice != "" {
		_, err := fmt.Fprintln(w, r.Notice)
		return err
	}
	table := newTable(w, []string{"Tag", "Outcome", "Detail"})
	for _, o := range r.Outcomes {
		_ = table.Append([]string{o.Tag, string(o.Kind), o.Detail})
	}
	return table.Render()
}
