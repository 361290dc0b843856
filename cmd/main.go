// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"contact-dedupe/internal/config"
	"contact-dedupe/internal/dedupe"
	"contact-dedupe/internal/enrich"
	"contact-dedupe/internal/fileio"
	"contact-dedupe/internal/merge"
	"contact-dedupe/internal/normalize/address"
	"contact-dedupe/internal/normalize/name"
	"contact-dedupe/internal/normalize/phone"
	"contact-dedupe/internal/observability"
	"contact-dedupe/internal/report"
	reportcsv "contact-dedupe/internal/report/csv"
	reporttext "contact-dedupe/internal/report/text"
	"contact-dedupe/internal/similarity"
	"contact-dedupe/internal/version"
)

// loadConfiguration loads the configuration file or returns default config
func loadConfiguration(configFile string) *config.Config {
	configPath := configFile
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(os.Stderr, "Using default configuration\n")
		cfg, _ = config.LoadConfig("")
	}
	return cfg
}

// configFlags holds command line flag values
type configFlags struct {
	outputDir      string
	validationMode string
	apiKey         string
	outputFormat   string
	configFile     string
	workers        int
	debug          bool
	verbose        bool
	noColor        bool
	mergedOnly     bool
	showHelp       bool
	showVersion    bool
}

func parseFlags() *configFlags {
	flags := &configFlags{}
	flag.StringVar(&flags.outputDir, "o", "", "Output directory for merged contacts and the report (default: output)")
	flag.StringVar(&flags.validationMode, "a", "", "Address validation mode: none, clean, or full (default: clean)")
	flag.StringVar(&flags.apiKey, "k", "", "Address validation API key (falls back to the configured environment variable)")
	flag.StringVar(&flags.outputFormat, "format", "", "Report format: text or csv (default: text)")
	flag.StringVar(&flags.configFile, "config", "", "Path to configuration file (YAML)")
	flag.IntVar(&flags.workers, "workers", 0, "Number of parallel merge workers (default: 1)")
	flag.BoolVar(&flags.debug, "debug", false, "Enable debug logging of every pipeline stage")
	flag.BoolVar(&flags.verbose, "verbose", false, "Include unchanged contacts in the report")
	flag.BoolVar(&flags.noColor, "no-color", false, "Disable colored output")
	flag.BoolVar(&flags.mergedOnly, "merged-only", false, "Restrict the report to actual merges")
	flag.BoolVar(&flags.showHelp, "help", false, "Show help information")
	flag.BoolVar(&flags.showVersion, "version", false, "Show version information")
	flag.Parse()
	return flags
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "contact-dedupe %s\n\n", version.Short())
	fmt.Fprintf(os.Stderr, "Usage: contact-dedupe [options] <input>...\n\n")
	fmt.Fprintf(os.Stderr, "Deduplicates and merges address books. Inputs are vCard (.vcf,\n")
	fmt.Fprintf(os.Stderr, ".vcard) or CSV files; a directory is expanded to its address book\n")
	fmt.Fprintf(os.Stderr, "files. Merged contacts and a merge report are written to the output\n")
	fmt.Fprintf(os.Stderr, "directory.\n\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		fmt.Println(version.Info())
		os.Exit(0)
	}
	if flags.showHelp || flag.NArg() == 0 {
		printUsage()
		if flags.showHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg := loadConfiguration(flags.configFile)
	applyFlagOverrides(cfg, flags)

	if !isTerminal(os.Stdout) {
		cfg.Defaults.NoColor = true
	}

	observer, debugObs := buildObserver(cfg.Defaults.Debug)

	if err := run(context.Background(), cfg, flags, flag.Args(), observer, debugObs); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// applyFlagOverrides lets explicit flags win over the config file.
func applyFlagOverrides(cfg *config.Config, flags *configFlags) {
	if flags.outputDir != "" {
		cfg.Defaults.OutputDir = flags.outputDir
	}
	if flags.validationMode != "" {
		cfg.Defaults.AddressValidation = flags.validationMode
	}
	if flags.outputFormat != "" {
		cfg.Defaults.Format = flags.outputFormat
	}
	if flags.workers > 0 {
		cfg.Defaults.Workers = flags.workers
	}
	if flags.debug {
		cfg.Defaults.Debug = true
	}
	if flags.noColor {
		cfg.Defaults.NoColor = true
	}
}

func buildObserver(debug bool) (*observability.StandardObserver, *observability.DebugObserver) {
	if debug {
		debugObs := observability.NewDebugObserver(os.Stderr)
		debugObs.StandardObserver.DebugObserver = debugObs
		return debugObs.StandardObserver, debugObs
	}
	return observability.NewStandardObserver(observability.ObservabilityOff, os.Stderr), nil
}

func run(ctx context.Context, cfg *config.Config, flags *configFlags, inputs []string,
	observer *observability.StandardObserver, debugObs *observability.DebugObserver) error {

	if debugObs != nil {
		meta := make(map[string]interface{})
		for k, v := range version.Full() {
			meta[k] = v
		}
		observer.LogOperation(observability.StageObservabilityData{
			Component: "cli",
			Operation: "start",
			Success:   true,
			Metadata:  meta,
		})
	}

	mode, err := address.ParseMode(cfg.Defaults.AddressValidation)
	if err != nil {
		return err
	}

	names := name.New(name.Config{
		Prefixes:           cfg.Names.Prefixes,
		Suffixes:           cfg.Names.Suffixes,
		Particles:          cfg.Names.Particles,
		NicknameSimilarity: cfg.Matching.NicknameSimilarity,
	})
	phones := phone.New(phone.Config{
		DefaultRegion:   cfg.Phone.DefaultRegion,
		CountryPrefixes: cfg.Phone.CountryPrefixes,
	})

	var service enrich.Service
	if mode == address.ModeFull {
		apiKey := flags.apiKey
		if apiKey == "" {
			apiKey = os.Getenv(cfg.Address.APIKeyEnv)
		}
		if apiKey == "" {
			return fmt.Errorf("full address validation needs an API key: pass -k or set %s", cfg.Address.APIKeyEnv)
		}
		service = enrich.NewClient(cfg.Address.Endpoint, apiKey,
			time.Duration(cfg.Address.TimeoutSeconds)*time.Second)
	}
	addrs := address.NewProcessor(mode, service, cfg.Address.ExpandAbbreviations)

	// Load
	finish := observer.StartTiming("fileio", "load")
	step := startStep(debugObs, "fileio", "load inputs")
	if debugObs != nil {
		for _, input := range inputs {
			debugObs.LogDetail("fileio", input)
		}
	}
	codec := fileio.NewCodec(names)
	contacts, err := codec.ReadInputs(inputs)
	step(err == nil, fmt.Sprintf("%d records", len(contacts)))
	finish(err == nil, map[string]interface{}{"records": len(contacts)})
	if err != nil {
		return err
	}
	if len(contacts) == 0 {
		return fmt.Errorf("no contacts found in %v", inputs)
	}

	// Detect
	finish = observer.StartTiming("dedupe", "cluster")
	step = startStep(debugObs, "dedupe", "cluster records")
	idx := dedupe.BuildIndex(contacts)
	detector := dedupe.NewDetector(phones, dedupe.DetectorConfig{
		PartSimilarity: cfg.Matching.PartSimilarity,
		OrgSimilarity:  cfg.Matching.OrgSimilarity,
	})
	clusters := dedupe.Cluster(contacts, idx, detector)
	if debugObs != nil {
		debugObs.LogMetric("dedupe", "clusters", len(clusters))
	}
	step(true, fmt.Sprintf("%d clusters", len(clusters)))
	finish(true, map[string]interface{}{"clusters": len(clusters)})

	// Merge (address enrichment happens inside, per cluster)
	finish = observer.StartTiming("merge", "run")
	step = startStep(debugObs, "merge", "merge clusters")
	merger := merge.NewMerger(names, phones, addrs, similarity.NewScorer(similarity.DefaultWeights()))
	merged, groups := merger.Run(ctx, contacts, clusters, cfg.Defaults.Workers)
	step(true, fmt.Sprintf("%d contacts", len(merged)))
	finish(true, map[string]interface{}{"merged": len(merged)})

	// Write merged contacts
	finish = observer.StartTiming("fileio", "write")
	step = startStep(debugObs, "fileio", "write outputs")
	err = codec.WriteOutputs(cfg.Defaults.OutputDir, merged)
	step(err == nil, cfg.Defaults.OutputDir)
	finish(err == nil, nil)
	if err != nil {
		return err
	}

	// Report
	entries := report.BuildEntries(merged, groups, phones)
	options := report.FormatterOptions{
		NoColor:     cfg.Defaults.NoColor,
		Verbose:     flags.verbose,
		MergedOnly:  flags.mergedOnly,
		SourceCount: len(contacts),
	}

	registry := report.NewRegistry()
	registry.Register(reportcsv.NewFormatter())
	registry.Register(reporttext.NewFormatter())

	formatter, ok := registry.Get(cfg.Defaults.Format)
	if !ok {
		return fmt.Errorf("unknown report format %q\n%s", cfg.Defaults.Format, registry.GetFormatHelp())
	}
	out, err := formatter.Format(entries, options)
	if err != nil {
		return err
	}
	fmt.Print(out)

	// The CSV report is always written next to the contacts, whatever
	// format went to the terminal.
	csvFormatter, _ := registry.Get("csv")
	csvOut, err := csvFormatter.Format(entries, report.FormatterOptions{})
	if err != nil {
		return err
	}
	reportPath := filepath.Join(cfg.Defaults.OutputDir, "merge_report.csv")
	if err := os.WriteFile(reportPath, []byte(csvOut), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", reportPath, err)
	}

	return nil
}

// startStep proxies to the debug observer and degrades to a no-op when
// debug logging is off.
func startStep(d *observability.DebugObserver, component, step string) func(success bool, details string) {
	if d == nil {
		return func(bool, string) {}
	}
	return d.StartStep(component, step)
}

// isTerminal checks if the file descriptor is a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
