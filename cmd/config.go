package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/oshokin/media-grabber/internal/app"
	"github.com/oshokin/media-grabber/internal/config"
)

var (
	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}

	//nolint:gochecknoglobals // Cobra command requires a global definition.
	configSetCmd = &cobra.Command{
		Use:   "set {key} {value}",
		Short: "Write one setting to the configuration file",
		Long: fmt.Sprintf(`Writes one setting to the configuration file, keeping its comments and order.
The file is created when it does not exist.

Known keys: %s`, strings.Join(config.Keys(), ", ")),
		Args:             cobra.ExactArgs(2),
		PersistentPreRun: useConfigFile,
		Run: func(cmd *cobra.Command, args []string) {
			app.ExecuteConfigSetCommand(cmd.Context(), args[0], args[1])
		},
	}
)

// useConfigFile points the writer at the --config file without loading it, so that
// a missing file can be created.
func useConfigFile(_ *cobra.Command, _ []string) {
	if configFilenameFromFlag != "" {
		viper.SetConfigFile(configFilenameFromFlag)
	}
}

//nolint:gochecknoinits // Cobra requires the init function to set up commands.
func init() {
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
