package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [file...]",
	Short: "Re-import local documents when they change",
	Long: `Load local IIIF documents and keep the store in step with them: every
time a file is written it is imported again. Stop with Ctrl-C; with
--snapshot the final store is saved on exit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	w := watch.New(vault)
	for _, path := range args {
		abs, err := w.Add(path)
		if err != nil {
			return err
		}
		if reload := w.Reload(abs); reload.Err != nil {
			return fmt.Errorf("failed to import %s: %w", path, reload.Err)
		}
		cmd.Printf("Watching %s\n", path)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx, func(r watch.Reload) {
		if r.Err != nil {
			cmd.PrintErrf("Re-import of %s failed: %v\n", r.Path, r.Err)
			return
		}
		cmd.Printf("Re-imported %s (%d entities)\n", r.Entity.ID, vault.State().Count())
	})
}
