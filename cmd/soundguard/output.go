package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"github.com/kbukum/soundguard/analysis"
)

// writeJSON encodes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// renderResult formats res as a two-column table.
func renderResult(res *analysis.Result, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Field", "Value"})

	tw.AppendRow(table.Row{"Status", statusText(res.Status, colorize)})
	body := res.Response()
	if class, ok := body["sound_class"]; ok {
		tw.AppendRow(table.Row{"Sound class", fmt.Sprintf("%v (%.3f)", class, res.Score)})
	}
	if transcript, ok := body["transcription"]; ok {
		tw.AppendRow(table.Row{"Transcription", transcript})
		kw := "none"
		if len(res.DetectedKeywords) > 0 {
			kw = strings.Join(res.DetectedKeywords, ", ")
			if colorize {
				kw = text.FgRed.Sprint(kw)
			}
		}
		tw.AppendRow(table.Row{"Keywords", kw})
	}
	if res.Err != nil {
		tw.AppendRow(table.Row{"Error", fmt.Sprintf("%s: %s", res.Err.Code, res.Err.Message)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: 80},
	})
	return tw.Render()
}

func statusText(s analysis.Status, colorize bool) string {
	v := string(s)
	if !colorize {
		return v
	}
	switch s {
	case analysis.StatusCompleted:
		return text.FgGreen.Sprint(v)
	case analysis.StatusPartial:
		return text.FgYellow.Sprint(v)
	default:
		return text.FgRed.Sprint(v)
	}
}
