package cmd

import (
	"github.com/spf13/cobra"

	"github.com/BlueVenn6/image-quality-checker/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the inspection engine over MCP on stdio",
	Long: "serve speaks the Model Context Protocol on stdin/stdout, exposing " +
		"image_quality_check_file and image_quality_scan_folder as tools for agent clients.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return mcpserver.New(version, log).ServeStdio()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
