package cli

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/across-protocol/dataworker/app"
	"github.com/across-protocol/dataworker/config"
)

var rootCMD = &cobra.Command{
	Use: "dataworker",
}

var proposeCMD = &cobra.Command{
	Use:   "propose",
	Short: "Run one bundle proposal cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunPropose()
	},
}

var validateCMD = &cobra.Command{
	Use:   "validate",
	Short: "Run one bundle validation cycle and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunValidate()
	},
}

var runCMD = &cobra.Command{
	Use:   "run",
	Short: "Alternate propose and validate cycles until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RunLoop()
	},
}

func init() {
	config.BindFlags(rootCMD)
}

func Execute() {
	rootCMD.AddCommand(proposeCMD, validateCMD, runCMD)
	if err := rootCMD.Execute(); err != nil {
		log.Fatal().Err(err).Msg("failed to execute root cmd")
	}
}
