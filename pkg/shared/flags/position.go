package flags

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Position locates a hover either in literal text or in a note file.
type Position struct {
	Text   string
	Offset int
	Line   int
	Col    int
	// Literal is true when the text came from --text instead of a file.
	Literal bool
}

func AddPosition(cmd *cobra.Command) {
	cmd.Flags().StringP("text", "t", "", "Text to resolve instead of reading a note.")
	cmd.Flags().IntP("offset", "o", 0, "Byte offset of the hover within --text.")
	cmd.Flags().IntP("line", "l", 1, "1-based line of the hover within FILE.")
	cmd.Flags().IntP("col", "c", 1, "1-based byte column of the hover within FILE.")
	cmd.MarkFlagsMutuallyExclusive("text", "line")
	cmd.MarkFlagsMutuallyExclusive("text", "col")
	cmd.MarkFlagsMutuallyExclusive("offset", "line")
	cmd.MarkFlagsMutuallyExclusive("offset", "col")
}

func HandlePosition(cmd *cobra.Command) (Position, error) {
	var p Position
	var err error

	if p.Text, err = cmd.Flags().GetString("text"); err != nil {
		return p, err
	}
	if p.Offset, err = cmd.Flags().GetInt("offset"); err != nil {
		return p, err
	}
	if p.Line, err = cmd.Flags().GetInt("line"); err != nil {
		return p, err
	}
	if p.Col, err = cmd.Flags().GetInt("col"); err != nil {
		return p, err
	}
	p.Literal = cmd.Flags().Changed("text")

	if p.Line < 1 || p.Col < 1 {
		return p, fmt.Errorf("line and col are 1-based, got %d:%d", p.Line, p.Col)
	}
	return p, nil
}
