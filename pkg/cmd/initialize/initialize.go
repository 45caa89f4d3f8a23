/*
Copyright © 2024 Ryan Painter paintersrp@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package initialize

import (
	"fmt"

	"github.com/erikgeiser/promptkit/textinput"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Paintersrp/hoverlink/internal/state"
)

// promptVault asks for the vault directory, offering initial as the answer.
var promptVault = func(initial string) (string, error) {
	input := textinput.New("Where is your vault?")
	input.InitialValue = initial
	input.Placeholder = "~/notes"
	input.Validate = func(value string) error {
		if value == "" {
			return fmt.Errorf("a vault directory is required")
		}
		return nil
	}
	return input.RunPrompt()
}

func NewCmdInit(s *state.State) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Aliases: []string{"i", "initialize"},
		Short:   "Point hoverlink at your vault.",
		Long:    "This command asks for your vault directory and saves it to the config file. Pass --vault to skip the prompt.",
		Example: "hoverlink init --vault ~/notes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd, s); err != nil {
				return err
			}
			return nil
		},
	}

	return cmd
}

func run(cmd *cobra.Command, s *state.State) error {
	cfg, err := state.LoadConfig(s.ConfigPath)
	if err != nil {
		return err
	}

	vault := viper.GetString("vaultdir")
	if vault == "" {
		vault, err = promptVault(cfg.VaultDir)
		if err != nil {
			return err
		}
	}

	cfg.SetVaultDir(vault)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Vault set to %s in %s\n", cfg.VaultDir, cfg.Path())
	fmt.Fprintln(cmd.OutOrStdout(), "Run `hoverlink index` to build the index.")
	return nil
}
