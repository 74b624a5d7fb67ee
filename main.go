package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"weathr/config"
	"weathr/display"
	"weathr/forecast"
	"weathr/providers"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

// app holds what the commands share once flags and config are resolved.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	exclude forecast.ExclusionSet

	output  string
	noColor bool
	debug   bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "weathr -l <location>",
		Short: "Simple CLI weather forecast using OpenWeatherMap",
		Long: "Fetches the 5 day / 3 hour forecast for a location and prints it " +
			"as one table per day.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			location, _ := cmd.Flags().GetString("location")
			return a.fetch(cmd, location)
		},
	}

	rootCmd.Flags().StringP("location", "l", "", "City location, e.g. \"London\" or \"Austin,US\"")
	rootCmd.Flags().StringP("units", "u", "", "Units type (imperial, metric, standard)")
	rootCmd.MarkFlagRequired("location")

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&a.output, "output", "o", "table", "Display output type (table, json)")
	pf.String("exclude-hours", "", "Comma separated UTC hours to drop (default from WEATHER_EXCLUDE_HOURS or 0,3)")
	pf.BoolVar(&a.noColor, "no-color", false, "Disable colored output")
	pf.BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")

	// parse works offline, no API key needed
	parseCmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Render a saved forecast response without calling the API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			return a.render(cmd, payload, "")
		},
	}

	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the json output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := display.Schema()
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	rootCmd.AddCommand(parseCmd, schemaCmd)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	if cmd.Flags().Changed("exclude-hours") {
		a.cfg.ExcludeHours, _ = cmd.Flags().GetString("exclude-hours")
	}
	if f := cmd.Flags().Lookup("units"); f != nil && f.Changed {
		a.cfg.Units = f.Value.String()
	}
	if a.debug {
		a.cfg.LogLevel = "debug"
	}

	a.exclude, err = forecast.ParseExclusion(a.cfg.ExcludeHours)
	if err != nil {
		return err
	}

	switch a.output {
	case "table", "json":
	default:
		return fmt.Errorf("unsupported output type %q (table, json)", a.output)
	}

	a.logger = newLogger(cmd.ErrOrStderr(), a.cfg.LogLevel)
	slog.SetDefault(a.logger)
	return nil
}

// fetch requests the forecast for location and renders it.
func (a *app) fetch(cmd *cobra.Command, location string) error {
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	provider := providers.NewOpenWeatherProvider(a.cfg.APIKey, providers.Options{
		BaseURL: a.cfg.BaseURL,
		Client: &http.Client{
			Timeout: a.cfg.HTTPTimeout,
		},
		Backoff: providers.BackoffConfig{
			MaxRetries:      a.cfg.MaxRetries,
			InitialInterval: 500 * time.Millisecond,
			MaxInterval:     5 * time.Second,
		},
		RateLimit: a.cfg.RateLimit,
		Logger:    a.logger,
	})

	payload, err := provider.Fetch(cmd.Context(), providers.Query{
		Location: location,
		Units:    a.cfg.Units,
	})
	if err != nil {
		return err
	}

	return a.render(cmd, payload, a.cfg.Units)
}

// render parses and transforms payload, then writes it in the chosen format.
func (a *app) render(cmd *cobra.Command, payload []byte, units string) error {
	resp, err := forecast.Parse(payload)
	if err != nil {
		return err
	}
	a.logger.Debug("response parsed", "cod", resp.Code, "samples", len(resp.Samples), "city", resp.City.Name)

	f, err := forecast.Transform(resp, a.exclude)
	if err != nil {
		return err
	}
	a.logger.Debug("forecast grouped", "days", f.Len(), "samples", f.SampleCount(), "excluded_hours", a.exclude.String())

	out := cmd.OutOrStdout()
	if a.output == "json" {
		return display.JSON(out, display.NewDocument(f, units, a.exclude.Hours()))
	}

	var styler display.Styler = display.Plain{}
	if file, ok := out.(*os.File); ok {
		out, styler = display.Output(file, a.noColor)
	}
	return display.Table(out, f, styler)
}

func readPayload(stdin io.Reader, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(name)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
