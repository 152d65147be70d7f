// Package cli implements the vault command line.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
	"github.com/custodia-labs/iiif-vault/internal/logger"
)

// version is set at build time.
var version = "dev"

// Services are what the commands run against.
type Services struct {
	Vault    *services.Vault
	Snapshot driving.SnapshotService
	Settings driving.SettingsService

	// Close releases storage held by the services. Optional.
	Close func() error
}

// Builder creates services for a config directory.
type Builder func(configDir string) (*Services, error)

var (
	vaultService    *services.Vault
	snapshotService driving.SnapshotService
	settingsService driving.SettingsService
	closeServices   func() error

	builder Builder
)

// Global flags.
var (
	verbose      bool
	configDir    string
	snapshotName string
	prettyJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "vault",
	Short: "Normalised store for IIIF Presentation resources",
	Long: `vault loads IIIF Presentation 3 manifests and collections, flattens them
into a normalised store and lets you query, page through and edit them.

The store lives for one command. Use --snapshot to restore a named snapshot
before the command runs and save it again afterwards.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Configuration directory (default ~/.vault)")
	rootCmd.PersistentFlags().StringVarP(&snapshotName, "snapshot", "s", "", "Snapshot to restore before and save after the command")
	rootCmd.PersistentFlags().BoolVar(&prettyJSON, "pretty", false, "Indent JSON output even when not on a terminal")
}

// SetBuilder registers the service factory run before each command.
func SetBuilder(b Builder) {
	builder = b
}

// SetServices installs services directly, bypassing the builder.
func SetServices(s *Services) {
	vaultService = s.Vault
	snapshotService = s.Snapshot
	settingsService = s.Settings
	closeServices = s.Close
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func setup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	logger.Section(cmd.CommandPath())

	if builder != nil {
		s, err := builder(configDir)
		if err != nil {
			return fmt.Errorf("initialising: %w", err)
		}
		SetServices(s)
	}

	if snapshotName == "" || snapshotService == nil {
		return nil
	}
	if _, err := snapshotService.Restore(cmd.Context(), snapshotName); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("cli: snapshot %q does not exist yet", snapshotName)
			return nil
		}
		return fmt.Errorf("restoring snapshot %s: %w", snapshotName, err)
	}
	logger.Info("cli: restored snapshot %q", snapshotName)
	return nil
}

func teardown(cmd *cobra.Command, _ []string) error {
	var saveErr error
	if snapshotName != "" && snapshotService != nil && !readOnly(cmd) {
		if _, err := snapshotService.Save(cmd.Context(), snapshotName); err != nil {
			saveErr = fmt.Errorf("saving snapshot %s: %w", snapshotName, err)
		}
	}
	if closeServices != nil {
		if err := closeServices(); err != nil && saveErr == nil {
			return err
		}
	}
	return saveErr
}

// readOnly marks commands that never change the store.
func readOnly(cmd *cobra.Command) bool {
	return cmd.Annotations["readonly"] == "true"
}

var readOnlyAnnotation = map[string]string{"readonly": "true"}

func requireVault() (*services.Vault, error) {
	if vaultService == nil {
		return nil, errors.New("vault not configured")
	}
	return vaultService, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printJSON writes v as JSON, indented when the output is a terminal.
func printJSON(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	if prettyJSON || isTerminal(out) {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
