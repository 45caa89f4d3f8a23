package settings

import (
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/hoverlink/internal/state"
)

func NewCmdSettings(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"s"},
		Short:   "Print the effective settings.",
		Long: heredoc.Doc(`
			Prints the settings hoverlink runs with: the config file merged with
			defaults, --vault and HOVERLINK_* environment variables. Values out
			of range are shown as they are clamped.
		`),
		Example: "hoverlink settings --format toml",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s)
		},
	}

	cmd.Flags().StringP("format", "f", "yaml", "Output format: yaml, json or toml")
	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}

	cfg, err := state.LoadConfig(s.ConfigPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s\n%s", cfg.Path(), data)
		return nil
	case "yaml", "":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# %s\n%s", cfg.Path(), data)
		return nil
	}
	return fmt.Errorf("unknown format %q, expected yaml, json or toml", format)
}
