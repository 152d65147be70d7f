package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/core/domain"
	"github.com/custodia-labs/iiif-vault/internal/core/ports/driving"
)

var moveCmd = &cobra.Command{
	Use:   "move [from-id] [to-id]",
	Short: "Move references between two reference lists",
	Long: `Move items from a reference list on one entity to a reference list on
another (or the same) entity. Select items with --subject (repeatable, kept
in the order given) or with --start and --length.

Example:
  vault move https://example.org/range/a https://example.org/range/b \
    --subject https://example.org/canvas/2 --index 0`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

var (
	moveKey      string
	moveToKey    string
	moveSubjects []string
	moveStart    int
	moveLength   int
	moveIndex    int
)

func init() {
	moveCmd.Flags().StringVarP(&moveKey, "key", "k", "items", "Reference list on the source entity")
	moveCmd.Flags().StringVar(&moveToKey, "to-key", "", "Reference list on the destination (default --key)")
	moveCmd.Flags().StringArrayVar(&moveSubjects, "subject", nil, "Id of an item to move (repeatable)")
	moveCmd.Flags().IntVar(&moveStart, "start", -1, "First index of a slice to move")
	moveCmd.Flags().IntVar(&moveLength, "length", 1, "Length of the slice to move")
	moveCmd.Flags().IntVar(&moveIndex, "index", -1, "Destination index (default: append)")
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	from := vault.GetByID(args[0], driving.GetOptions{})
	if from == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
	}
	to := vault.GetByID(args[1], driving.GetOptions{})
	if to == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, args[1])
	}

	var subjects domain.Subjects
	switch {
	case len(moveSubjects) > 0 && moveStart >= 0:
		return errors.New("use either --subject or --start, not both")
	case len(moveSubjects) > 0:
		subjects.IDs = moveSubjects
	case moveStart >= 0:
		subjects.Slice = &domain.Slice{StartIndex: moveStart, Length: moveLength}
	default:
		return errors.New("nothing to move: pass --subject or --start")
	}

	toKey := moveToKey
	if toKey == "" {
		toKey = moveKey
	}
	target := domain.Location{Entity: to.Ref(), Key: toKey}
	if moveIndex >= 0 {
		index := moveIndex
		target.Index = &index
	}

	before := vault.State()
	vault.MoveEntities(subjects, domain.Location{Entity: from.Ref(), Key: moveKey}, target)
	if vault.State() == before {
		cmd.Println("Nothing moved.")
		return nil
	}

	source, _ := vault.GetByID(from.ID, driving.GetOptions{}).RefList(moveKey)
	dest, _ := vault.GetByID(to.ID, driving.GetOptions{}).RefList(toKey)
	cmd.Printf("Moved. %s.%s has %d items, %s.%s has %d items.\n",
		from.ID, moveKey, len(source), to.ID, toKey, len(dest))
	return nil
}
