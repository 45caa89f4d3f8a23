package hover

import (
	"errors"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/fzf"
	debounce "github.com/Paintersrp/hoverlink/internal/hover"
	"github.com/Paintersrp/hoverlink/internal/pathutil"
	"github.com/Paintersrp/hoverlink/internal/render"
	"github.com/Paintersrp/hoverlink/internal/state"
	tuihover "github.com/Paintersrp/hoverlink/internal/tui/hover"
	cmdutil "github.com/Paintersrp/hoverlink/pkg/cmd"
)

var (
	runHover = tuihover.Run
	pickNote = func(vault, query string, docs []string) (string, error) {
		return fzf.NewFuzzyFinder(vault, "Pick a note to hover", docs).Run(query)
	}
)

func NewCmdHover(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "hover [file]",
		Aliases: []string{"h"},
		Short:   "Open a note and hover over its words to see what they link to.",
		Long: heredoc.Doc(`
			Opens FILE in a full screen view. Move the cursor onto a word and,
			once it rests, the longest phrase around it that names a note,
			heading, tag or property is highlighted with a popup of its links.

			Without FILE, a fuzzy finder lists every indexed note. The index
			follows changes to the vault while the view is open.
		`),
		Example: heredoc.Doc(`
			hoverlink hover journal/today.md
			hoverlink hover --query gradients
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args, s)
		},
	}

	cmd.Flags().StringP("query", "q", "", "Initial query for the note picker")
	return cmd
}

func run(cmd *cobra.Command, args []string, s *state.State) error {
	if err := s.Index.Build(cmd.Context()); err != nil {
		return err
	}

	path, err := notePath(cmd, args, s)
	if errors.Is(err, fzf.ErrNoSelection) {
		return nil
	}
	if err != nil {
		return err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	watcher, err := s.StartWatcher()
	if err != nil {
		return err
	}

	return runHover(tuihover.Options{
		Service:     s.Index,
		Highlighter: render.New(os.Stdout, viper.GetBool("no_color")),
		Debouncer:   debounce.NewDebouncer(s.Config.HoverDelay()),
		Watcher:     watcher,
		DocumentID:  pathutil.DocumentID(s.Vault, path),
		Path:        path,
		Content:     string(content),
		Heartbeat:   s.IndexHeartbeatCmd,
	})
}

func notePath(cmd *cobra.Command, args []string, s *state.State) (string, error) {
	if len(args) == 1 {
		return cmdutil.ResolveNotePath(s, args[0])
	}

	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return "", err
	}
	docs, err := s.Index.Documents()
	if err != nil {
		return "", err
	}
	id, err := pickNote(s.Vault, query, docs)
	if err != nil {
		return "", err
	}
	return s.Index.Path(id), nil
}
