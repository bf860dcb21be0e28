package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/BlueVenn6/image-quality-checker/internal/config"
	"github.com/BlueVenn6/image-quality-checker/internal/logger"
)

var (
	cfgFile  string
	cfg      *config.Config
	log      hclog.Logger
	exitCode int
)

var rootCmd = &cobra.Command{
	Use:   "imgcheck",
	Short: "imgcheck 🔍 - pre-flight quality checks for image folders",
	Long: "imgcheck 🔍 audits images before publication: real format versus extension, " +
		"resolution floors, and JPEG encoder quality recovered from quantization tables.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadDefault()
		}
		if err != nil {
			return err
		}
		if err := config.Validate(cfg); err != nil {
			return err
		}

		log = logger.New(cfg, "imgcheck").With("run_id", uuid.NewString())
		return nil
	},
}

// Execute runs the CLI. Any command error exits 2; otherwise the process
// exits with the code the command recorded (check maps run status to
// 0/1/2, everything else leaves it at 0).
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	os.Exit(exitCode)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./imgcheck.yaml, then ~/.imgcheck/config.yaml)")
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}
