package cli

import "flag"

// ReconFlags are the command line flags for a reconciliation run
type ReconFlags struct {
	BankFile   string
	GLFile     string
	ConfigPath string
	OutputPath string
	Identity   string
	Suggest    bool
	Verbose    bool
}

// ParseReconFlags parses reconciliation flags from the command line
func ParseReconFlags() ReconFlags {
	var flags ReconFlags
	flag.StringVar(&flags.BankFile, "bank", "", "Bank statement file (.csv, .xlsx, .xls)")
	flag.StringVar(&flags.GLFile, "gl", "", "General ledger file (.csv, .xlsx, .xls)")
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "Config file path")
	flag.StringVar(&flags.OutputPath, "out", "", "Write results to file (.json or .csv)")
	flag.StringVar(&flags.Identity, "identity", "default", "Learning identity (workspace or user key)")
	flag.BoolVar(&flags.Suggest, "suggest", false, "Print smart match suggestions for unmatched items")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	flag.Parse()
	return flags
}
