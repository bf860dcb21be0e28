// Package logger builds the application logger from configuration.
package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/BlueVenn6/image-quality-checker/internal/config"
)

// New creates an hclog.Logger for the given configuration and name.
// Diagnostics go to stderr: stdout is reserved for rendered reports and
// must stay byte-stable across identical runs.
func New(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      determineLevel(cfg),
		JSONFormat: cfg.Logger.JSONFormat,
		Output:     os.Stderr,
	})
}

// determineLevel resolves the log level: the IMGCHECK_LOG_LEVEL
// environment variable wins over the configured value; both default to
// info when unset or unrecognized.
func determineLevel(cfg *config.Config) hclog.Level {
	if env := os.Getenv("IMGCHECK_LOG_LEVEL"); env != "" {
		return parseLevel(env)
	}
	return parseLevel(cfg.Logger.Level)
}

func parseLevel(s string) hclog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		return hclog.Info
	}
}
