package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the loader, snapshot storage and pagination.

Settings are stored in config.toml inside the config directory.`,
	Annotations: readOnlyAnnotation,
	RunE:        runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show current settings",
	Annotations: readOnlyAnnotation,
	RunE:        runSettingsShow,
}

var settingsRateCmd = &cobra.Command{
	Use:         "rate [requests-per-second] [burst]",
	Short:       "Set the loader rate limit",
	Args:        cobra.ExactArgs(2),
	Annotations: readOnlyAnnotation,
	RunE:        runSettingsRate,
}

var settingsStorageCmd = &cobra.Command{
	Use:   "storage [backend]",
	Short: "Set the snapshot storage backend",
	Long: `Set where snapshots are kept.

Available backends:
  memory  - Process lifetime only
  sqlite  - Local SQLite database
  archive - xz-compressed JSON files`,
	Args:        cobra.ExactArgs(1),
	Annotations: readOnlyAnnotation,
	RunE:        runSettingsStorage,
}

var settingsTokenCmd = &cobra.Command{
	Use:         "token",
	Short:       "Set the bearer token sent with HTTP requests",
	Long:        `Prompts for a token without echo. Enter an empty token to clear it.`,
	Args:        cobra.NoArgs,
	Annotations: readOnlyAnnotation,
	RunE:        runSettingsToken,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsRateCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsTokenCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config: %s\n", settingsService.Location())
	cmd.Println()

	cmd.Println("[Loader]")
	cmd.Printf("  Rate: %g requests/s (burst %d)\n", settings.Loader.RequestsPerSecond, settings.Loader.Burst)
	cmd.Printf("  Timeout: %s\n", settings.Loader.Timeout)
	cmd.Printf("  Wait timeout: %s\n", settings.Loader.WaitTimeout)
	cmd.Printf("  User agent: %s\n", settings.Loader.UserAgent)
	if settings.Loader.Token != "" {
		cmd.Printf("  Token: %s\n", maskToken(settings.Loader.Token))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend.Description())
	if settings.Storage.DataDir != "" {
		cmd.Printf("  Data dir: %s\n", settings.Storage.DataDir)
	}
	cmd.Println()

	cmd.Println("[Pagination]")
	if settings.Pagination.MaxPages == 0 {
		cmd.Println("  Max pages: unlimited")
	} else {
		cmd.Printf("  Max pages: %d\n", settings.Pagination.MaxPages)
	}
	return nil
}

func runSettingsRate(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	rps, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("%w: requests per second %q", domain.ErrInvalidInput, args[0])
	}
	burst, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: burst %q", domain.ErrInvalidInput, args[1])
	}

	if err := settingsService.SetLoaderRate(rps, burst); err != nil {
		return fmt.Errorf("failed to set rate: %w", err)
	}
	cmd.Printf("Loader rate set to %g requests/s (burst %d)\n", rps, burst)
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	backend := domain.StorageBackend(strings.ToLower(args[0]))
	if err := settingsService.SetStorageBackend(backend); err != nil {
		return fmt.Errorf("failed to set storage backend: %w", err)
	}
	cmd.Printf("Storage backend set to: %s\n", backend.Description())
	return nil
}

func runSettingsToken(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	cmd.Print("Token: ")
	token := readPassword()
	cmd.Println()

	if err := settingsService.SetToken(token); err != nil {
		return fmt.Errorf("failed to set token: %w", err)
	}
	if token == "" {
		cmd.Println("Token cleared.")
	} else {
		cmd.Printf("Token set: %s\n", maskToken(token))
	}
	return nil
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
