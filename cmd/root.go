package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dwest77a/stac-harvester/cmd/util"
	"github.com/dwest77a/stac-harvester/cmd/version"
	"github.com/dwest77a/stac-harvester/pkg/config"
	"github.com/dwest77a/stac-harvester/pkg/errors"
	"github.com/dwest77a/stac-harvester/pkg/harvest"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged regardless of the level
// in the config file.
const verboseLogKey = "STAC_HARVESTER_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	rootCmd := &cobra.Command{
		Use:          "stac-harvester",
		Short:        "Synchronize a STAC catalog from a source to a destination.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runHarvest()
		},
	}
	rootCmd.AddCommand(
		version.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}

func runHarvest() error {
	conf, err := config.Parse()
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	config.SetupLogging(conf.Logging)
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	harvester, err := harvest.New(conf)
	if err != nil {
		return err
	}

	report, err := harvester.Run()
	if err != nil {
		return err
	}

	fmt.Println(report.Summary())
	return report.Err()
}
