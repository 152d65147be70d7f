package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Print the version number",
	Annotations: readOnlyAnnotation,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("vault version %s\n", version)
	},
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
