package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is stamped by -ldflags on release builds.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the stepcoder version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("stepcoder %s (%s/%s)\n", version, runtime.GOOS, runtime.GOARCH)
	},
}
