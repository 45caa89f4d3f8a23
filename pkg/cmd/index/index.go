package index

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/render"
	"github.com/Paintersrp/hoverlink/internal/state"
)

func NewCmdIndex(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "index",
		Aliases: []string{"idx"},
		Short:   "Build the entity index and print what it holds.",
		Long: heredoc.Doc(`
			Walks the vault, indexes every note by title, heading, tag and
			front-matter property, and prints the number of keys and records
			per category.
		`),
		Example: "hoverlink index",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s)
		},
	}

	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	started := time.Now()
	if err := s.Index.Build(cmd.Context()); err != nil {
		return err
	}
	elapsed := time.Since(started)

	stats := s.Index.Stats()
	headers := []string{"CATEGORY", "KEYS", "RECORDS"}
	rows := make([][]string, 0, len(entity.Priority))
	for _, c := range entity.Priority {
		rows = append(rows, []string{
			c.String(),
			strconv.Itoa(stats.Index.Keys[c]),
			strconv.Itoa(stats.Index.Records[c]),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Indexed %d notes in %s\n", stats.Documents, elapsed.Round(time.Millisecond))
	if render.IsPlain(out, viper.GetBool("no_color")) {
		printRows(out, headers, rows)
		return nil
	}
	fmt.Fprintln(out, renderTable(headers, rows))
	return nil
}

// columnWidths is the widest cell of each column, headers included.
func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for _, row := range append([][]string{headers}, rows...) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	return widths
}

func printRows(out io.Writer, headers []string, rows [][]string) {
	widths := columnWidths(headers, rows)
	for _, row := range append([][]string{headers}, rows...) {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = cell + strings.Repeat(" ", widths[i]-lipgloss.Width(cell))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}

// renderTable sizes every cell to its column so the table is never squeezed
// below its content.
func renderTable(headers []string, rows [][]string) string {
	widths := columnWidths(headers, rows)
	total := len(widths) + 1
	for _, w := range widths {
		total += w + 2
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Width(total).
		StyleFunc(func(_, col int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1).Width(widths[col] + 2)
		}).
		Headers(headers...).
		Rows(rows...).
		String()
}
