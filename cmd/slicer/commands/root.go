package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"image-splitter/internal/config"
	"image-splitter/internal/i18n"
	"image-splitter/internal/logging"
)

type rootOptions struct {
	configDir string
	logLevel  string
	lang      string

	tr *i18n.Translator
}

// Execute runs the command tree against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree. Settings live in the global viper
// instance, so callers running it more than once should viper.Reset between
// runs.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "slicer",
		Short:         "Split tall images into slices along horizontal guide lines",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.configDir == "" {
				dir, err := os.UserConfigDir()
				if err == nil {
					opts.configDir = filepath.Join(dir, "image-splitter")
				}
			}
			if err := config.Load(opts.configDir); err != nil {
				return err
			}
			// Quieter than the GUI unless configured otherwise.
			viper.SetDefault(config.KeyLogLevel, "warn")

			flags := cmd.Root().PersistentFlags()
			if err := viper.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level")); err != nil {
				return err
			}
			if err := viper.BindPFlag(config.KeyLanguage, flags.Lookup("lang")); err != nil {
				return err
			}
			logging.Setup(cmd.ErrOrStderr(), config.GetString(config.KeyLogLevel))

			tr, err := i18n.New(config.GetString(config.KeyLanguage))
			if err != nil {
				return fmt.Errorf("load translations: %w", err)
			}
			opts.tr = tr
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config", "", "directory holding "+config.FileName+" (default <user config dir>/image-splitter)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&opts.lang, "lang", "en", "language for status messages")

	root.AddCommand(splitCmd(opts), planCmd(opts), versionCmd())
	return root
}
