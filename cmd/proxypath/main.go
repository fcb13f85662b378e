package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MarkoPoloResearchLab/proxypath/pkg/proxypath"
)

const (
	commandName                   = "proxypath"
	commandUseName                = commandName + " [base-url...]"
	commandShortDescription       = "Resolve proxy paths for base URLs"
	commandLongDescription        = "Resolve the path prefix under which requests to each base URL are proxied. Blank and protocol-relative base URLs are resolved against the configured origin."
	missingConfigurationMessage   = "missing required configuration"
	invalidConfigurationMessage   = "invalid configuration"
	loggerCreationErrorMessage    = "logger"
	writeOutputErrorMessage       = "write output"
	logEventResolved              = "resolved"
	logEventResolvedAll           = "resolved base urls"
	logFieldBaseURL               = "base_url"
	logFieldProxyPath             = "proxy_path"
	logFieldSource                = "source"
	logFieldOrigin                = "origin"
	logFieldCount                 = "count"
	flagNameOrigin                = "origin"
	flagNameBaseURL               = "base-url"
	flagNameOutputFormat          = "output"
	flagNameLogLevel              = "log-level"
	flagUsageOrigin               = "origin used for blank and protocol-relative base URLs, e.g. https://example.com"
	flagUsageBaseURL              = "base URL to resolve when no arguments are given"
	flagUsageOutputFormat         = "output format: text, json or yaml"
	flagUsageLogLevel             = "log level: debug, info, warn or error"
	environmentKeyOrigin          = "PROXY_ORIGIN"
	environmentKeyBaseURL         = "PROXY_BASE_URL"
	environmentKeyOutputFormat    = "PROXY_OUTPUT"
	environmentKeyLogLevel        = "LOG_LEVEL"
	defaultOutputFormat           = string(OutputFormatText)
	defaultLogLevel               = "info"
	commandInitializationFailure  = "failed to configure command"
	flagNotDefinedMessage         = "flag %s not defined"
	environmentConfigurationError = "failed to apply environment configuration"
	exitCodeSuccess               = 0
	exitCodeFailure               = 1
)

var ErrInvalidLogLevel = errors.New("invalid log level")

// ResolverConfig captures configuration needed to resolve proxy paths.
type ResolverConfig struct {
	Origin       string
	BaseURL      string
	OutputFormat string
	LogLevel     string
}

// LoggerFactory builds the logger used while resolving.
type LoggerFactory func(zapcore.Level) (*zap.Logger, error)

// ResolverApplication constructs and executes the proxypath command.
type ResolverApplication struct {
	configurationLoader *viper.Viper
	loggerFactory       LoggerFactory
}

// NewResolverApplication creates a ResolverApplication with default dependencies.
func NewResolverApplication() *ResolverApplication {
	return &ResolverApplication{
		configurationLoader: viper.New(),
		loggerFactory:       newProductionLogger,
	}
}

// WithLoggerFactory overrides the logger factory dependency.
func (application *ResolverApplication) WithLoggerFactory(loggerFactory LoggerFactory) *ResolverApplication {
	application.loggerFactory = loggerFactory
	return application
}

// Command builds the Cobra command for the resolver.
func (application *ResolverApplication) Command() (*cobra.Command, error) {
	rootCommand := &cobra.Command{
		Use:   commandUseName,
		Short: commandShortDescription,
		Long:  commandLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE:  application.runCommand,
	}

	if configurationErr := application.configureCommand(rootCommand); configurationErr != nil {
		return nil, configurationErr
	}

	return rootCommand, nil
}

func (application *ResolverApplication) configureCommand(command *cobra.Command) error {
	application.configurationLoader.SetDefault(environmentKeyOrigin, "")
	application.configurationLoader.SetDefault(environmentKeyBaseURL, "")
	application.configurationLoader.SetDefault(environmentKeyOutputFormat, defaultOutputFormat)
	application.configurationLoader.SetDefault(environmentKeyLogLevel, defaultLogLevel)
	application.configurationLoader.AutomaticEnv()

	commandFlags := command.Flags()
	commandFlags.String(flagNameOrigin, "", flagUsageOrigin)
	commandFlags.String(flagNameBaseURL, "", flagUsageBaseURL)
	commandFlags.String(flagNameOutputFormat, defaultOutputFormat, flagUsageOutputFormat)
	commandFlags.String(flagNameLogLevel, defaultLogLevel, flagUsageLogLevel)

	bindings := []struct {
		environmentKey string
		flagName       string
	}{
		{environmentKey: environmentKeyOrigin, flagName: flagNameOrigin},
		{environmentKey: environmentKeyBaseURL, flagName: flagNameBaseURL},
		{environmentKey: environmentKeyOutputFormat, flagName: flagNameOutputFormat},
		{environmentKey: environmentKeyLogLevel, flagName: flagNameLogLevel},
	}

	for _, binding := range bindings {
		if bindErr := application.bindEnvironmentFlag(commandFlags, binding.environmentKey, binding.flagName); bindErr != nil {
			return bindErr
		}
	}

	return nil
}

// bindEnvironmentFlag seeds the flag from its environment variable, so help
// output shows the effective value, and registers it under the same viper key.
// Command-line arguments parsed later still override the seeded value.
func (application *ResolverApplication) bindEnvironmentFlag(flagSet *pflag.FlagSet, environmentKey string, flagName string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}

	if environmentValue, environmentFound := os.LookupEnv(environmentKey); environmentFound {
		if setErr := flagSet.Set(flagName, environmentValue); setErr != nil {
			return fmt.Errorf("%s %s: %w", environmentConfigurationError, environmentKey, setErr)
		}
	}

	return application.configurationLoader.BindPFlag(environmentKey, flag)
}

func (application *ResolverApplication) runCommand(command *cobra.Command, arguments []string) error {
	resolverConfig := ResolverConfig{
		Origin:       strings.TrimSpace(application.configurationLoader.GetString(environmentKeyOrigin)),
		BaseURL:      application.configurationLoader.GetString(environmentKeyBaseURL),
		OutputFormat: application.configurationLoader.GetString(environmentKeyOutputFormat),
		LogLevel:     application.configurationLoader.GetString(environmentKeyLogLevel),
	}

	baseURLs := arguments
	if len(baseURLs) == 0 {
		baseURLs = []string{resolverConfig.BaseURL}
	}

	if validationErr := application.ensureRequiredConfiguration(resolverConfig, baseURLs); validationErr != nil {
		return validationErr
	}

	outputFormat, formatErr := ParseOutputFormat(resolverConfig.OutputFormat)
	if formatErr != nil {
		return fmt.Errorf("%s: %w", invalidConfigurationMessage, formatErr)
	}

	logLevel, levelErr := parseLogLevel(resolverConfig.LogLevel)
	if levelErr != nil {
		return fmt.Errorf("%s: %w", invalidConfigurationMessage, levelErr)
	}

	var origin proxypath.Origin
	if resolverConfig.Origin != "" {
		parsedOrigin, originErr := proxypath.ParseOrigin(resolverConfig.Origin)
		if originErr != nil {
			return fmt.Errorf("%s: %w", invalidConfigurationMessage, originErr)
		}
		origin = parsedOrigin
	}

	logger, loggerErr := application.loggerFactory(logLevel)
	if loggerErr != nil {
		return fmt.Errorf("%s: %w", loggerCreationErrorMessage, loggerErr)
	}
	defer func() {
		_ = logger.Sync()
	}()

	resolutionLogger := logger
	if !origin.IsZero() {
		resolutionLogger = logger.With(zap.Stringer(logFieldOrigin, origin))
	}

	resolver := proxypath.NewResolver(origin)
	resolutions := make([]proxypath.Resolution, 0, len(baseURLs))
	for _, baseURL := range baseURLs {
		resolution := resolver.Explain(baseURL)
		resolutionLogger.Debug(logEventResolved,
			zap.String(logFieldBaseURL, resolution.BaseURL),
			zap.String(logFieldProxyPath, resolution.Path),
			zap.String(logFieldSource, string(resolution.Source)),
		)
		resolutions = append(resolutions, resolution)
	}
	logger.Info(logEventResolvedAll, zap.Int(logFieldCount, len(resolutions)))

	if writeErr := writeResolutions(command.OutOrStdout(), outputFormat, resolutions); writeErr != nil {
		return fmt.Errorf("%s: %w", writeOutputErrorMessage, writeErr)
	}

	return nil
}

func (application *ResolverApplication) ensureRequiredConfiguration(configuration ResolverConfig, baseURLs []string) error {
	if configuration.Origin != "" {
		return nil
	}

	for _, baseURL := range baseURLs {
		if proxypath.NeedsOrigin(baseURL) {
			return fmt.Errorf("%s: %s", missingConfigurationMessage, flagNameOrigin)
		}
	}

	return nil
}

func parseLogLevel(rawLevel string) (zapcore.Level, error) {
	trimmed := strings.TrimSpace(rawLevel)
	if trimmed == "" {
		return zapcore.InfoLevel, nil
	}

	level, parseErr := zapcore.ParseLevel(trimmed)
	if parseErr != nil {
		return zapcore.InfoLevel, fmt.Errorf("%w: %q", ErrInvalidLogLevel, rawLevel)
	}

	return level, nil
}

func newProductionLogger(level zapcore.Level) (*zap.Logger, error) {
	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = zap.NewAtomicLevelAt(level)
	return loggerConfig.Build()
}

// execute runs the command with the given arguments and returns the process exit code.
func execute(application *ResolverApplication, arguments []string, errorOutput io.Writer) int {
	rootCommand, commandErr := application.Command()
	if commandErr != nil {
		_, _ = fmt.Fprintf(errorOutput, "%s: %v\n", commandInitializationFailure, commandErr)
		return exitCodeFailure
	}

	rootCommand.SetArgs(arguments)
	if executeErr := rootCommand.Execute(); executeErr != nil {
		return exitCodeFailure
	}

	return exitCodeSuccess
}

func main() {
	if exitCode := execute(NewResolverApplication(), os.Args[1:], os.Stderr); exitCode != exitCodeSuccess {
		os.Exit(exitCode)
	}
}
