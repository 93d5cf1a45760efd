package cmd

import (
	"fmt"
	"os"

	"assetbot/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "assetbot",
	Short: "Asset Custody Kiosk Service",
	Long: `Assetbot runs the self-service equipment kiosk: badge sign-in,
asset checkout/checkin/transfer with post-write verification, fuzzy user
lookups and VIP loan agreements, all backed by an external inventory service.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format and debug level so CLI errors come out readable
		// with ISO8601 timestamps instead of the production epoch format.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
