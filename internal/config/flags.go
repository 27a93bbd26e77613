package config

import "flag"

// Flags holds the global command-line overrides. Zero values leave the
// loaded configuration untouched.
type Flags struct {
	Config  string
	Debug   bool
	LogFile string
	Out     string
	Workers int
}

// RegisterFlags registers the global flags on fs.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.StringVar(&f.LogFile, "log-file", "", "Also write logs to this file")
	fs.StringVar(&f.Out, "out", "", "Output directory")
	fs.IntVar(&f.Workers, "j", 0, "Concurrent conversions (0 = config or one per CPU)")
	return f
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f == nil {
		return
	}
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
	if f.Out != "" {
		cfg.Output.Dir = f.Out
	}
	if f.Workers > 0 {
		cfg.Imaging.Workers = f.Workers
	}
}
