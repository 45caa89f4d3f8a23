package highlight

import (
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/render"
	"github.com/Paintersrp/hoverlink/internal/state"
	cmdutil "github.com/Paintersrp/hoverlink/pkg/cmd"
)

func NewCmdHighlight(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "highlight [file]",
		Aliases: []string{"hl"},
		Short:   "Print a note with every linkable phrase highlighted.",
		Long: heredoc.Doc(`
			Prints FILE with each phrase that links to a note, heading, tag or
			property highlighted by category. Without a terminal, or with
			--no-color, phrases are wrapped in brackets instead.

			--list prints one line per phrase instead of the note.
		`),
		Example: heredoc.Doc(`
			hoverlink highlight journal/today.md
			hoverlink highlight journal/today.md --list
		`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().Bool("list", false, "List matched phrases with their 1-based byte ranges")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	path, err := cmdutil.ResolveNotePath(s, args[0])
	if err != nil {
		return err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := s.Index.Build(cmd.Context()); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	hl := render.New(out, viper.GetBool("no_color"))
	lines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")

	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		spans, err := s.Index.SelectSpans(line)
		if err != nil {
			return err
		}

		if !list {
			fmt.Fprintln(out, hl.Highlight(line, spans))
			continue
		}
		for _, span := range spans {
			fmt.Fprintf(out, "%d:%d-%d\t%s\t%s\n", i+1, span.Start+1, span.End, span.Category, span.Phrase)
		}
	}
	return nil
}
