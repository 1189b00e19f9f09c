package stats

import (
	"fmt"
	"io"
	"strconv"

	"github.com/verte-zerg/charfit/internal/model"
)

// CharLabel returns a printable label for a character.
func CharLabel(ch string) string {
	switch ch {
	case " ":
		return "<space>"
	case "\t":
		return "<tab>"
	case "\n":
		return "<newline>"
	case "\r":
		return "<cr>"
	}
	return ch
}

// CharRows formats statistics as table cells: char, count, frequency, width.
func CharRows(data []model.CharStat) [][]string {
	rows := make([][]string, 0, len(data))
	for _, s := range data {
		count := "-"
		if s.Counted {
			count = strconv.Itoa(s.Count)
		}
		width := "pending"
		if s.HasWidth() {
			width = fmt.Sprintf("%.2f", s.Width)
		}
		rows = append(rows, []string{
			CharLabel(s.Char),
			count,
			fmt.Sprintf("%.2f%%", s.Frequency),
			width,
		})
	}
	return rows
}

// RenderCharTable prints per-character statistics in the given order.
func RenderCharTable(w io.Writer, data []model.CharStat) error {
	if len(data) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	headers := []string{"Char", "Count", "Frequency", "Width (px)"}
	rightAlign := map[int]bool{1: true, 2: true, 3: true}
	for _, line := range formatTable(headers, CharRows(data), rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderLanguages prints the localization targets and their expansion rates.
func RenderLanguages(w io.Writer, l model.LocalizationSettings) error {
	if len(l.Languages) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Languages"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(l.Languages))
	for _, lang := range l.Languages {
		avg, rate := "-", "-"
		if lang.Processed {
			avg = fmt.Sprintf("%.2f", lang.AverageLength)
			rate = fmt.Sprintf("%.3f", lang.ExpansionRate)
		}
		rows = append(rows, []string{lang.Code, strconv.Itoa(len(lang.CharacterData)), avg, rate})
	}
	headers := []string{"Lang", "Chars", "Avg Length", "Expansion"}
	for _, line := range formatTable(headers, rows, map[int]bool{1: true, 2: true, 3: true}) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCapacity prints a capacity result.
func RenderCapacity(w io.Writer, budget float64, res model.CapacityResult) error {
	lines := []string{
		"Result",
		fmt.Sprintf("Element width: %.0f px", budget),
		fmt.Sprintf("Average char width: %.3f px", res.TotalFrequencyWidth),
		fmt.Sprintf("Max characters: %d", res.MaxCharLength),
	}
	if res.ReducedMaxCharLength != nil {
		lines = append(lines, fmt.Sprintf("Reduced by 10%%: %d", *res.ReducedMaxCharLength))
	}
	if res.AdjustedMaxCharLength != nil {
		lines = append(lines, fmt.Sprintf("Localized (x%.2f): %d", res.ExpansionRate, *res.AdjustedMaxCharLength))
	}
	lines = append(lines, fmt.Sprintf("Recommended limit: %d", res.Effective()))
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
