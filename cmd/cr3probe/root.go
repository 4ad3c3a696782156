package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tetsuo/cr3"
	"github.com/tetsuo/cr3/camera"
)

// Environment variables read after .env is loaded. Flags win.
const (
	envCameraDB = "CR3PROBE_CAMERA_DB"
	envLogLevel = "CR3PROBE_LOG_LEVEL"
)

// globalOptions holds the persistent flags and the state built from them
// before any subcommand runs.
type globalOptions struct {
	logLevel  string
	logFormat string
	cameraDB  string

	logger  *slog.Logger
	cameras *camera.Database
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "cr3probe",
		Short: "Inspect Canon CR3 raw files",
		Long: `cr3probe reads Canon CR3 raw files and reports their container brands,
box layout, camera identity and raw image geometry.

Compressed CRX image data is not decoded; uncompressed 8 and 16 bit
samples can be dumped with the dump command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			return opts.setup(cmd)
		},
	}
	addGlobalFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(newInfoCmd(opts))
	cmd.AddCommand(newBrandsCmd(opts))
	cmd.AddCommand(newBoxesCmd(opts))
	cmd.AddCommand(newDumpCmd(opts))
	cmd.AddCommand(newIndexCmd(opts))
	cmd.AddCommand(newSynthCmd(opts))

	return cmd
}

func (o *globalOptions) setup(cmd *cobra.Command) error {
	flags := cmd.Flags()
	if !flags.Changed("log-level") {
		if v := os.Getenv(envLogLevel); v != "" {
			o.logLevel = v
		}
	}
	if !flags.Changed("camera-db") {
		if v := os.Getenv(envCameraDB); v != "" {
			o.cameraDB = v
		}
	}

	logger, err := newLogger(cmd.ErrOrStderr(), o.logLevel, o.logFormat)
	if err != nil {
		return err
	}
	o.logger = logger

	o.cameras = camera.Default()
	if o.cameraDB != "" {
		overlay, err := camera.LoadFile(o.cameraDB)
		if err != nil {
			return err
		}
		o.cameras = o.cameras.Merge(overlay)
		o.logger.Debug("loaded camera database", "path", o.cameraDB, "entries", overlay.Len())
	}
	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	options := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, options)
	case "json":
		handler = slog.NewJSONHandler(w, options)
	default:
		return nil, fmt.Errorf("invalid log format %q (supported: text, json)", format)
	}
	return slog.New(handler), nil
}

func (o *globalOptions) decoder() *cr3.Decoder {
	return &cr3.Decoder{Logger: o.logger, Cameras: o.cameras}
}
