package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/iiif-vault/internal/adapters/driven/storage/archive"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save, restore and transfer store snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save [name]",
	Short: "Save the store under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotSave,
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore [name]",
	Short: "Replace the store with a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotRestore,
}

var snapshotListCmd = &cobra.Command{
	Use:         "list",
	Short:       "List saved snapshots",
	Args:        cobra.NoArgs,
	Annotations: readOnlyAnnotation,
	RunE:        runSnapshotList,
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a saved snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotDelete,
}

var snapshotExportCmd = &cobra.Command{
	Use:         "export [file]",
	Short:       "Write the store to an xz-compressed archive file",
	Args:        cobra.ExactArgs(1),
	Annotations: readOnlyAnnotation,
	RunE:        runSnapshotExport,
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Replace the store with an archive file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnapshotImport,
}

func init() {
	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
	snapshotCmd.AddCommand(snapshotExportCmd)
	snapshotCmd.AddCommand(snapshotImportCmd)
	rootCmd.AddCommand(snapshotCmd)
}

func requireSnapshots() error {
	if snapshotService == nil {
		return errors.New("snapshot service not configured")
	}
	return nil
}

func runSnapshotSave(cmd *cobra.Command, args []string) error {
	if err := requireSnapshots(); err != nil {
		return err
	}
	snapshot, err := snapshotService.Save(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	cmd.Printf("Saved snapshot %s (%d entities)\n", snapshot.Name, snapshot.State.Count())
	return nil
}

func runSnapshotRestore(cmd *cobra.Command, args []string) error {
	if err := requireSnapshots(); err != nil {
		return err
	}
	snapshot, err := snapshotService.Restore(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	cmd.Printf("Restored snapshot %s (%d entities)\n", snapshot.Name, snapshot.State.Count())
	return nil
}

func runSnapshotList(cmd *cobra.Command, _ []string) error {
	if err := requireSnapshots(); err != nil {
		return err
	}
	infos, err := snapshotService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(infos) == 0 {
		cmd.Println("No snapshots saved.")
		return nil
	}
	for _, info := range infos {
		created := "-"
		if !info.CreatedAt.IsZero() {
			created = info.CreatedAt.Local().Format("2006-01-02 15:04:05")
		}
		cmd.Printf("  %-24s %6d entities  %s  %s\n", info.Name, info.Entities, created, shortHash(info.Hash))
	}
	return nil
}

func runSnapshotDelete(cmd *cobra.Command, args []string) error {
	if err := requireSnapshots(); err != nil {
		return err
	}
	if err := snapshotService.Delete(commandContext(cmd), args[0]); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	cmd.Printf("Deleted snapshot %s\n", args[0])
	return nil
}

func runSnapshotExport(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	path := args[0]
	name := strings.TrimSuffix(filepath.Base(path), archive.Extension)
	snapshot := vault.Snapshot(name)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := archive.Encode(f, snapshot); err != nil {
		f.Close()
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	cmd.Printf("Exported %d entities to %s\n", snapshot.State.Count(), path)
	return nil
}

func runSnapshotImport(cmd *cobra.Command, args []string) error {
	vault, err := requireVault()
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	defer f.Close()

	snapshot, err := archive.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	vault.Restore(snapshot)

	cmd.Printf("Imported %d entities from %s (taken %s)\n",
		snapshot.State.Count(), args[0], snapshot.CreatedAt.Local().Format(time.DateTime))
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
