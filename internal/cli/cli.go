package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/layerconf/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app
// Config, a boolean indicating if the program should exit cleanly, or an
// ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("layerconf", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
layerconf - A layered pipeline-configuration resolver.

Usage:
  layerconf [options] [CONFIG_PATH]

Arguments:
  CONFIG_PATH
    Path to the root configuration fragment.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to the root configuration fragment.")
	cFlag := flagSet.String("c", "", "Path to the root configuration fragment (shorthand).")
	profileFlag := flagSet.String("profile", "", "Comma-separated list of profiles to activate, in order.")
	processFlag := flagSet.String("process", "", "Process name to resolve for. Empty resolves the general configuration.")
	attemptFlag := flagSet.Int("attempt", 1, "Attempt number to resolve at. Must be >= 1.")
	outputFlag := flagSet.String("output", "text", "Output format for the resolved configuration. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *configFlag != "" {
		path = *configFlag
	} else if *cFlag != "" {
		path = *cFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Config path determined.", "path", path)

	if path == "" {
		slog.Debug("No config path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	outputFormat := strings.ToLower(*outputFlag)
	if outputFormat != "text" && outputFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'json'"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if *attemptFlag < 1 {
		return nil, false, &ExitError{Code: 2, Message: "invalid attempt: must be >= 1"}
	}
	slog.Debug("CLI parameter validation complete.")

	var profiles []string
	for _, name := range strings.Split(*profileFlag, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			profiles = append(profiles, trimmed)
		}
	}

	config, err := app.NewConfig(app.Config{
		ConfigPath:   path,
		Profiles:     profiles,
		Process:      *processFlag,
		Attempt:      *attemptFlag,
		OutputFormat: outputFormat,
		LogFormat:    logFormat,
		LogLevel:     logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
