package root

import (
	"io"
	"log/slog"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/constants"
	"github.com/Paintersrp/hoverlink/internal/state"
	"github.com/Paintersrp/hoverlink/pkg/cmd/highlight"
	"github.com/Paintersrp/hoverlink/pkg/cmd/hover"
	"github.com/Paintersrp/hoverlink/pkg/cmd/index"
	"github.com/Paintersrp/hoverlink/pkg/cmd/initialize"
	"github.com/Paintersrp/hoverlink/pkg/cmd/lookup"
	"github.com/Paintersrp/hoverlink/pkg/cmd/resolve"
	"github.com/Paintersrp/hoverlink/pkg/cmd/serve"
	"github.com/Paintersrp/hoverlink/pkg/cmd/settings"
	"github.com/Paintersrp/hoverlink/pkg/cmd/watch"
)

// SkipStateAnnotation marks commands that run without a loaded vault.
const SkipStateAnnotation = "hoverlink/skip-state"

var (
	configPath string
	vaultDir   string
	verbose    bool
	noColor    bool
)

// NewCmdRoot builds the command tree. The state is filled in before any
// subcommand runs, once flags are parsed.
func NewCmdRoot(s *state.State) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:     constants.AppName,
		Aliases: []string{"hl"},
		Short:   "Hover over words in your markdown notes to find what they link to.",
		Long: heredoc.Doc(`
			hoverlink indexes a vault of markdown notes by note title, heading,
			tag and front-matter property, then finds which words of a note
			would link to one of them.

			  hoverlink index
			  hoverlink resolve --text "read Deep Work today" --offset 6
			  hoverlink hover journal/today.md
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(cmd, s)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.Close()
		},
	}

	cmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Config file (default is $HOME/.hoverlink/cfg.yaml)")
	cmd.PersistentFlags().
		StringVar(&vaultDir, "vault", "", "Vault directory, overriding the config file")
	cmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	cmd.PersistentFlags().
		BoolVar(&noColor, "no-color", false, "Disable colored output")

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()
	viper.BindPFlag("vaultdir", cmd.PersistentFlags().Lookup("vault"))
	viper.BindPFlag("no_color", cmd.PersistentFlags().Lookup("no-color"))

	cmd.AddCommand(
		initialize.NewCmdInit(s),
		index.NewCmdIndex(s),
		resolve.NewCmdResolve(s),
		highlight.NewCmdHighlight(s),
		lookup.NewCmdLookup(s),
		hover.NewCmdHover(s),
		watch.NewCmdWatch(s),
		serve.NewCmdServe(s),
		settings.NewCmdSettings(s),
	)

	for _, sub := range cmd.Commands() {
		switch sub.Name() {
		case "init", "settings":
			if sub.Annotations == nil {
				sub.Annotations = map[string]string{}
			}
			sub.Annotations[SkipStateAnnotation] = "true"
		}
	}

	return cmd, nil
}

func loadState(cmd *cobra.Command, s *state.State) error {
	logger := NewLogger(cmd.ErrOrStderr(), verbose)
	slog.SetDefault(logger)

	if cmd.Annotations[SkipStateAnnotation] == "true" || cmd == cmd.Root() {
		s.ConfigPath = configPath
		s.Logger = logger
		return nil
	}

	loaded, err := state.NewState(configPath, logger)
	if err != nil {
		return err
	}
	*s = *loaded
	return nil
}

// NewLogger returns the text logger used by every command.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
