package lookup

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/erikgeiser/promptkit/selection"
	"github.com/spf13/cobra"

	"github.com/Paintersrp/hoverlink/internal/entity"
	"github.com/Paintersrp/hoverlink/internal/state"
)

// selectCategory asks for the category when the command is given only a key.
var selectCategory = func() (string, error) {
	names := make([]string, 0, len(entity.Priority))
	for _, c := range entity.Priority {
		names = append(names, c.String())
	}

	sel := selection.New("Which index should be searched?", names)
	sel.Filter = nil
	return sel.RunPrompt()
}

func NewCmdLookup(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lookup [category] [key]",
		Aliases: []string{"l"},
		Short:   "List the records stored under a key.",
		Long: heredoc.Doc(`
			Prints every record one category of the index holds for KEY. Keys
			are matched case-insensitively.

			CATEGORY is one of note, heading, tag or property. When it is left
			out, you are asked to pick one.
		`),
		Example: heredoc.Doc(`
			hoverlink lookup heading "Getting Started"
			hoverlink lookup tag ml
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	var name, key string
	if len(args) == 2 {
		name, key = args[0], args[1]
	} else {
		key = args[0]
		selected, err := selectCategory()
		if err != nil {
			return err
		}
		name = selected
	}

	category, err := entity.ParseCategory(name)
	if err != nil {
		return err
	}

	if err := s.Index.Build(cmd.Context()); err != nil {
		return err
	}
	records, err := s.Index.Lookup(category, key)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintf(out, "No %s records for %q.\n", category, key)
		return nil
	}
	for _, record := range records {
		fmt.Fprintf(out, "%s\t%s\n", record.Link(), record.SourceID())
	}
	return nil
}
