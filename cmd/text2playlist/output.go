package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/cognicore/text2playlist/pkg/playlist/selector"
	"github.com/cognicore/text2playlist/pkg/playlist/tracklist"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string, rightAligned ...int) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, col := range rightAligned {
		configs = append(configs, table.ColumnConfig{
			Number:      col,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render() + "\n"
}

func renderResult(res selector.Result) string {
	var b strings.Builder

	switch {
	case !res.Found:
		b.WriteString("No catalog titles found in the text.\n")
	case !res.FullCoverage:
		b.WriteString("No full segmentation; best-effort phrases:\n")
	}

	for i, seg := range res.Segmentations {
		if len(res.Segmentations) > 1 {
			fmt.Fprintf(&b, "Segmentation %d\n", i+1)
		}
		rows := make([][]string, 0, len(seg.Phrases))
		for j, p := range seg.Phrases {
			rows = append(rows, []string{strconv.Itoa(j + 1), p.Text, strconv.Itoa(len(p.Matches)), firstTitle(p)})
		}
		b.WriteString(renderTable([]string{"#", "Phrase", "Matches", "First match"}, rows, 1, 3))
	}

	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "%d catalog lookups failed; results may be incomplete\n", len(res.Failures))
	}
	return b.String()
}

func renderPlaylist(pl tracklist.Playlist, res selector.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", pl.Title, pl.ID)
	if !pl.Complete {
		b.WriteString("Incomplete: the text could not be fully covered by catalog titles.\n")
	}

	rows := make([][]string, 0, len(pl.Tracks))
	for i, tr := range pl.Tracks {
		rows = append(rows, []string{strconv.Itoa(i + 1), tr.Phrase, tr.Entry.Title, tr.Entry.Artist, tr.Entry.URI})
	}
	b.WriteString(renderTable([]string{"#", "Phrase", "Title", "Artist", "URI"}, rows, 1))

	if len(res.Failures) > 0 {
		fmt.Fprintf(&b, "%d catalog lookups failed; results may be incomplete\n", len(res.Failures))
	}
	return b.String()
}

func firstTitle(p selector.Phrase) string {
	if len(p.Matches) == 0 {
		return ""
	}
	m := p.Matches[0]
	if m.Artist == "" {
		return m.Title
	}
	return m.Title + " - " + m.Artist
}
