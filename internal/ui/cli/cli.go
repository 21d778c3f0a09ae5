package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./cyclescan.toml"

type cliOptions struct {
	configPath string
	once       bool
	ui         bool
	history    bool
	since      string
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("cyclescan", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Run single scan and exit")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI mode")
	fs.BoolVar(&opts.history, "history", false, "Record runs to the local history database and print the cycle trend")
	fs.StringVar(&opts.since, "since", "", "Include historical runs at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
