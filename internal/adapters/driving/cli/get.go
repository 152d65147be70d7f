package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
	"github.com/custodia-labs/iiif-vault/internal/core/services"
)

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Print a normalised entity as JSON",
	Long: `Resolve an entity by id and print it. Use --field to follow reference
fields, e.g. --field items --field 0 --field items walks from a manifest
to the annotation pages of its first canvas.`,
	Args:        cobra.ExactArgs(1),
	Annotations: readOnlyAnnotation,
	RunE:        runGet,
}

var (
	getType     string
	getParent   string
	getPreserve bool
	getStub     bool
	getPath     []string
)

func init() {
	getCmd.Flags().StringVarP(&getType, "type", "t", "", "Entity type for ids not yet in the store")
	getCmd.Flags().StringVar(&getParent, "parent", "", "Parent context to frame the entity with")
	getCmd.Flags().BoolVar(&getPreserve, "preserve", false, "Keep specific-resource wrappers")
	getCmd.Flags().BoolVar(&getStub, "stub", false, "Print an unresolved stub instead of failing on a miss")
	getCmd.Flags().StringArrayVarP(&getPath, "field", "f", nil, "Field or index to follow (repeatable)")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	opts := driving.GetOptions{
		Parent:                    getParent,
		PreserveSpecificResources: getPreserve,
	}
	if getType != "" {
		opts.Type = domain.Partition(getType)
	}
	if getStub {
		skip := false
		opts.SkipSelfReturn = &skip
	}

	if len(getPath) == 0 {
		entity := vault.GetByID(args[0], opts)
		if entity == nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
		}
		return printJSON(cmd, entity)
	}

	deep, err := follow(vault.DeepWith(domain.Reference{ID: args[0], Type: opts.Type}, opts), getPath)
	if err != nil {
		return err
	}
	if entities := deep.Entities(); len(entities) > 0 {
		if len(entities) == 1 {
			return printJSON(cmd, entities[0])
		}
		return printJSON(cmd, entities)
	}
	if value, ok := deep.Value(); ok {
		return printJSON(cmd, value)
	}
	return errors.New("path resolved to nothing")
}

// follow walks path from deep. Numeric segments index into lists.
func follow(deep *services.Deep, path []string) (*services.Deep, error) {
	for _, segment := range path {
		if i, err := strconv.Atoi(segment); err == nil {
			deep = deep.At(i)
		} else {
			deep = deep.Field(segment)
		}
		if !deep.Ok() {
			return nil, fmt.Errorf("%w: nothing at %q", domain.ErrNotFound, segment)
		}
	}
	return deep, nil
}
