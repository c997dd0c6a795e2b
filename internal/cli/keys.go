package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"askstream/pkg/cardstack"
)

func newKeysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the card stack key bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, b := range cardstack.Bindings() {
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", strings.Join(b.Keys, ", "), b.Action); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
