package flags

import (
	"github.com/spf13/cobra"
)

func AddCopy(cmd *cobra.Command) {
	cmd.Flags().
		BoolP("copy", "y", false, "Copy the first link of the popup to the clipboard.")
}

func HandleCopy(cmd *cobra.Command) (bool, error) {
	return cmd.Flags().GetBool("copy")
}
