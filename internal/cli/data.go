package cli

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	v2config "github.com/rampart-load/rampart/internal/performance/v2/config"
	"github.com/rampart-load/rampart/internal/performance/v2/data"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Inspect row-data providers configured in a performance test",
}

var dataInspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load a test's data providers and report their row counts and exhaustion state",
	Long: `Loads every "data" block in a performance test configuration (the
test-wide block plus each scenario's own block), reads its source file, and
prints a snapshot of row counts, checked-out rows, and exhaustion state for
each one. Nothing is sent over the network; this is a dry run of the
provider layer only.`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile, _ := cmd.Flags().GetString("config")
		if configFile == "" {
			fmt.Println("Error: config file is required")
			cmd.Help()
			return
		}

		exitCode, err := runDataInspect(configFile, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

// dataProviderEntry pairs a human-readable label with the ProviderConfig it names.
type dataProviderEntry struct {
	label string
	cfg   *data.ProviderConfig
}

// collectDataProviders gathers the test-wide Data block (if any) and every
// scenario's own Data block, in deterministic scenario-name order.
func collectDataProviders(cfg *v2config.TestConfig) []dataProviderEntry {
	var entries []dataProviderEntry

	if cfg.Data != nil {
		entries = append(entries, dataProviderEntry{label: "(test-wide)", cfg: cfg.Data})
	}

	names := make([]string, 0, len(cfg.Scenarios))
	for name := range cfg.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if sc := cfg.Scenarios[name]; sc.Data != nil {
			entries = append(entries, dataProviderEntry{label: name, cfg: sc.Data})
		}
	}

	return entries
}

// runDataInspect loads configFile, acquires and loads every data provider it
// declares, and writes a status report to out. The returned int is the
// process exit code the caller should use (0 on success, 1 if any provider
// failed to validate or load).
func runDataInspect(configFile string, out io.Writer) (int, error) {
	cfg, err := v2config.LoadConfig(configFile)
	if err != nil {
		return 0, fmt.Errorf("loading config: %w", err)
	}

	entries := collectDataProviders(cfg)
	if len(entries) == 0 {
		fmt.Fprintln(out, "No data providers configured in this test.")
		return 0, nil
	}

	registry := data.NewRegistry()
	exitCode := 0

	for _, e := range entries {
		p, err := registry.Acquire(e.cfg)
		if err != nil {
			fmt.Fprintf(out, "%s: invalid provider config: %v\n", e.label, err)
			exitCode = 1
			continue
		}

		if err := p.Load(); err != nil {
			fmt.Fprintf(out, "%s (%s): failed to load: %v\n", e.label, e.cfg.File, err)
			exitCode = 1
			continue
		}

		status := p.Status()
		policy := e.cfg.Resolve()
		fmt.Fprintf(out, "%s (%s)\n", e.label, e.cfg.File)
		fmt.Fprintf(out, "  scope=%s order=%s on_exhausted=%s change=%s\n",
			policy.Scope, policy.Order, policy.OnExhausted, policy.ChangePolicy)
		fmt.Fprintf(out, "  rows=%d available=%d checked_out=%d stopped_vus=%d exhausted=%v\n",
			status.TotalRows, status.Available, status.CheckedOut, status.StoppedVUs, status.Exhausted)
	}

	return exitCode, nil
}

func init() {
	dataInspectCmd.Flags().StringP("config", "c", "", "Configuration file (required)")
	dataCmd.AddCommand(dataInspectCmd)
	RootCmd.AddCommand(dataCmd)
}
