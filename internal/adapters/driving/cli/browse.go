package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse [id]",
	Short: "Browse the store interactively",
	Long: `Open an entity in an interactive terminal browser. References are listed
by field; enter opens one (fetching it if it is not in the store), esc goes
back and n loads the next page of a paged collection.`,
	Args: cobra.ExactArgs(1),
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Vault: vault}, args[0])
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return app.WithContext(commandContext(cmd)).Run()
}
