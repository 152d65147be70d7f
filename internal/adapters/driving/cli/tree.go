package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
)

var treeCmd = &cobra.Command{
	Use:         "tree [id]",
	Short:       "Print the table of contents of a manifest or range",
	Args:        cobra.ExactArgs(1),
	Annotations: readOnlyAnnotation,
	RunE:        runTree,
}

var treeRangesOnly bool

func init() {
	treeCmd.Flags().BoolVar(&treeRangesOnly, "ranges", false, "Hide canvases")
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	base := vault.GetByID(args[0], driving.GetOptions{})
	if base == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
	}
	root := vault.RangeTree(base.Ref())
	if root == nil {
		return fmt.Errorf("%w: %s is a %s, not a manifest or range", domain.ErrInvalidInput, base.ID, base.Type)
	}

	services.Walk(root, func(node *driving.RangeNode, depth int) bool {
		if treeRangesOnly && node.Ref.Type == domain.TypeCanvas {
			return true
		}
		line := strings.Repeat("  ", depth) + nodeLabel(node)
		if node.Revisited {
			line += " (see above)"
		}
		cmd.Println(line)
		return true
	})
	return nil
}

func nodeLabel(node *driving.RangeNode) string {
	if label := node.Label.First("en", "none"); label != "" {
		return label
	}
	return node.Ref.ID
}
