package main

import (
	"github.com/spf13/pflag"

	"github.com/tetsuo/cr3/internal/pixdump"
	"github.com/tetsuo/cr3/internal/report"
)

func addGlobalFlags(fs *pflag.FlagSet, o *globalOptions) {
	fs.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error (env "+envLogLevel+")")
	fs.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")
	fs.StringVar(&o.cameraDB, "camera-db", "", "extra camera database, .yaml or .jsonc (env "+envCameraDB+")")
}

// formatFlag is a pflag.Value accepting report format names.
type formatFlag struct{ f *report.Format }

func (v formatFlag) String() string { return v.f.String() }
func (v formatFlag) Type() string   { return "format" }
func (v formatFlag) Set(s string) error {
	f, err := report.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

func addFormatFlag(fs *pflag.FlagSet, p *report.Format) {
	fs.VarP(formatFlag{p}, "format", "f", "output format: text, yaml, json, cbor")
}

// compressionFlag is a pflag.Value accepting compression names.
type compressionFlag struct{ t *pixdump.CompressionTag }

func (v compressionFlag) String() string { return v.t.String() }
func (v compressionFlag) Type() string   { return "compression" }
func (v compressionFlag) Set(s string) error {
	t, err := pixdump.ParseCompressionTag(s)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

func addCompressionFlag(fs *pflag.FlagSet, p *pixdump.CompressionTag) {
	fs.VarP(compressionFlag{p}, "compression", "c", "payload compression: none, lz4, zstd")
}

func addPixelsFlag(fs *pflag.FlagSet, p *bool) {
	fs.BoolVar(p, "pixels", false, "decode raw samples instead of reading only the header")
}
