package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

var paginateCmd = &cobra.Command{
	Use:   "paginate [id]",
	Short: "Load pages of a paged collection",
	Long: `Load the next page of a paged collection or annotation collection and
merge its items. With --all, keep loading until the collection is complete
or --max-pages is reached (default from pagination.max_pages).`,
	Args: cobra.ExactArgs(1),
	RunE: runPaginate,
}

var (
	paginateAll      bool
	paginateMaxPages int
	paginateStatus   bool
)

func init() {
	paginateCmd.Flags().BoolVarP(&paginateAll, "all", "a", false, "Load every remaining page")
	paginateCmd.Flags().IntVar(&paginateMaxPages, "max-pages", -1, "Page limit for --all (0 = unlimited)")
	paginateCmd.Flags().BoolVar(&paginateStatus, "status", false, "Only print the pagination state")
	rootCmd.AddCommand(paginateCmd)
}

func runPaginate(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	base := vault.GetByID(args[0], driving.GetOptions{})
	if base == nil {
		return fmt.Errorf("%w: %s (load it first)", domain.ErrNotFound, args[0])
	}
	ref := base.Ref()

	var state *domain.PaginationState
	switch {
	case paginateStatus:
		state = vault.GetPaginationState(ref)
	case paginateAll:
		state, err = vault.LoadAllPages(commandContext(cmd), ref, maxPages())
		if err != nil {
			printPagination(cmd, base.ID, state)
			return fmt.Errorf("failed to load pages: %w", err)
		}
	default:
		state, _ = vault.LoadNextPage(commandContext(cmd), ref)
	}

	if state == nil {
		return fmt.Errorf("%w: %s is not paged", domain.ErrInvalidInput, base.ID)
	}
	printPagination(cmd, base.ID, state)
	if state.Error != "" {
		return fmt.Errorf("%w: %s", domain.ErrFetchFailed, state.Error)
	}
	return nil
}

func maxPages() int {
	if paginateMaxPages >= 0 {
		return paginateMaxPages
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			return settings.Pagination.MaxPages
		}
	}
	return domain.DefaultSettings().Pagination.MaxPages
}

func printPagination(cmd *cobra.Command, id string, state *domain.PaginationState) {
	if state == nil {
		return
	}
	cmd.Printf("Pagination: %s\n", id)
	cmd.Printf("  Pages loaded:  %d\n", len(state.Pages))
	if state.TotalItems > 0 {
		cmd.Printf("  Items:         %d of %d\n", state.LoadedItems(), state.TotalItems)
	} else {
		cmd.Printf("  Items:         %d\n", state.LoadedItems())
	}
	if state.CurrentPage != "" {
		cmd.Printf("  Current page:  %s\n", state.CurrentPage)
	}
	if state.Next != "" {
		cmd.Printf("  Next page:     %s\n", state.Next)
	}
	cmd.Printf("  Fully loaded:  %t\n", state.IsFullyLoaded)
	if state.Error != "" {
		cmd.Printf("  Error:         %s\n", state.Error)
	}
}
