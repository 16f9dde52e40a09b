package cli

import (
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("kbrag version %s\n", version)
	},
	Annotations: map[string]string{noServicesAnnotation: "true"},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
