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
package cmd

import (
	"os"

	"github.com/Paintersrp/hoverlink/internal/state"
	"github.com/Paintersrp/hoverlink/pkg/cmd/root"
)

// Execute runs the root command. State is loaded by the root command once
// its flags are parsed, and released here on exit.
func Execute() {
	s := &state.State{}
	defer s.Close()

	rootCmd, rootErr := root.NewCmdRoot(s)
	if rootErr != nil {
		os.Exit(1)
	}

	if err := rootCmd.Execute(); err != nil {
		s.Close()
		os.Exit(1)
	}
}
