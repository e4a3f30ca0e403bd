package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dwest77a/stac-harvester/pkg/version"
)

// New creates a new `version` command.
func New() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of the harvester, as a git commit hash.",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("version: %s\n", version.Version)
		},
	}
}
