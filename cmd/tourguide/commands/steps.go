package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// maxColumnWidth is the maximum width for table columns before truncation
const maxColumnWidth = 50

// stepRow is one line of the step table.
type stepRow struct {
	Step     int    `json:"step"`
	Target   string `json:"target"`
	Position string `json:"position"`
	Title    string `json:"title"`
	Content  string `json:"content,omitempty"`
}

// StepsCommand implements the steps command.
// Usage: tourguide steps [directory] [--format=table|json] [--config FILE]
func StepsCommand(args []string) error {
	format := "table"
	var configPath string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case strings.HasPrefix(arg, "--format="):
			format = strings.TrimPrefix(arg, "--format=")
		case (arg == "--config" || arg == "-c") && i+1 < len(args):
			configPath = args[i+1]
			i++
		}
	}
	dir := positionalDir(args, map[string]bool{"--config": true, "-c": true})

	return printSteps(os.Stdout, dir, configPath, format)
}

func printSteps(out io.Writer, dir, configPath, format string) error {
	proj, err := loadProject(dir, configPath)
	if err != nil {
		return err
	}

	rows := make([]stepRow, 0, len(proj.page.Steps))
	for _, s := range proj.page.Steps {
		rows = append(rows, stepRow{
			Step:     s.StepIndex,
			Target:   s.Target,
			Position: string(s.Position),
			Title:    s.Title,
			Content:  s.Content,
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case "table":
		outputTable(out, rows)
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table or json)", format)
	}
}

// truncateString truncates a string to maxColumnWidth with ellipsis if needed
func truncateString(s string) string {
	if len(s) > maxColumnWidth {
		return s[:maxColumnWidth-3] + "..."
	}
	return s
}

// outputTable prints the step table with padded columns
func outputTable(out io.Writer, rows []stepRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No tour steps defined")
		return
	}

	columns := []string{"step", "target", "position", "title"}
	cells := make([][]string, len(rows))
	for i, r := range rows {
		cells[i] = []string{strconv.Itoa(r.Step), r.Target, r.Position, truncateString(r.Title)}
	}

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range cells {
		for i, val := range row {
			widths[i] = max(widths[i], len(val))
		}
	}

	var header, separator strings.Builder
	for i, col := range columns {
		if i > 0 {
			header.WriteString(" | ")
			separator.WriteString("-+-")
		}
		fmt.Fprintf(&header, "%-*s", widths[i], col)
		separator.WriteString(strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(out, header.String())
	fmt.Fprintln(out, separator.String())

	for _, row := range cells {
		var line strings.Builder
		for i, val := range row {
			if i > 0 {
				line.WriteString(" | ")
			}
			fmt.Fprintf(&line, "%-*s", widths[i], val)
		}
		fmt.Fprintln(out, line.String())
	}

	fmt.Fprintf(out, "\n%d step(s)\n", len(rows))
}
