package resolve

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/render"
	"github.com/Paintersrp/hoverlink/internal/state"
	cmdutil "github.com/Paintersrp/hoverlink/pkg/cmd"
	"github.com/Paintersrp/hoverlink/pkg/shared/flags"
)

var writeClipboard = clipboard.WriteAll

func NewCmdResolve(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resolve [file]",
		Aliases: []string{"r"},
		Short:   "Resolve the linked phrase at a position.",
		Long: heredoc.Doc(`
			Finds the longest phrase around a position that names a note,
			heading, tag or property in the vault, and prints everything it
			links to.

			The position is either a byte offset into --text, or a 1-based
			line and column in FILE.
		`),
		Example: heredoc.Doc(`
			hoverlink resolve --text "read Deep Work today" --offset 6
			hoverlink resolve journal/today.md --line 3 --col 12 --copy
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	flags.AddPosition(cmd)
	flags.AddCopy(cmd)
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	pos, err := flags.HandlePosition(cmd)
	if err != nil {
		return err
	}
	copyLink, err := flags.HandleCopy(cmd)
	if err != nil {
		return err
	}

	text, offset, err := target(s, pos, args)
	if err != nil {
		return err
	}

	if err := s.Index.Build(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	m, ok, err := s.Index.Resolve(text, offset)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(out, "No linked phrase at this position.")
		return nil
	}

	popup, err := s.Index.Popup(m.Phrase, 0)
	if err != nil {
		return err
	}

	hl := render.New(out, viper.GetBool("no_color"))
	fmt.Fprintf(out, "%s %q at [%d, %d)\n", m.Category, m.Phrase, m.Start, m.End)
	fmt.Fprintln(out, hl.Popup(popup))

	if copyLink {
		record, ok := popup.First()
		if !ok {
			return nil
		}
		if err := writeClipboard(record.Link()); err != nil {
			return fmt.Errorf("error copying link: %w", err)
		}
		fmt.Fprintf(out, "Copied %s to the clipboard.\n", record.Link())
	}
	return nil
}

// target returns the text line and byte offset the hover points at.
func target(s *state.State, pos flags.Position, args []string) (string, int, error) {
	if pos.Literal {
		if len(args) > 0 {
			return "", 0, fmt.Errorf("FILE cannot be combined with --text")
		}
		if pos.Offset < 0 || pos.Offset > len(pos.Text) {
			return "", 0, fmt.Errorf("offset %d is outside the text", pos.Offset)
		}
		return pos.Text, pos.Offset, nil
	}

	if len(args) == 0 {
		return "", 0, fmt.Errorf("either FILE or --text is required")
	}

	path, err := cmdutil.ResolveNotePath(s, args[0])
	if err != nil {
		return "", 0, err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}

	lines := strings.Split(string(content), "\n")
	if pos.Line > len(lines) {
		return "", 0, fmt.Errorf("line %d is past the end of %s", pos.Line, args[0])
	}
	line := strings.TrimSuffix(lines[pos.Line-1], "\r")
	if pos.Col-1 > len(line) {
		return "", 0, fmt.Errorf("column %d is past the end of line %d", pos.Col, pos.Line)
	}
	return line, pos.Col - 1, nil
}
