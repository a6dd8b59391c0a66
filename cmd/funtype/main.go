package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/funvibe/funtype/internal/analyzer"
	"github.com/funvibe/funtype/internal/config"
	"github.com/funvibe/funtype/internal/scenario"
	"github.com/funvibe/funtype/internal/snapshot"
	"github.com/funvibe/funtype/internal/typesystem"
)

func usage() {
	fmt.Fprintf(os.Stderr, `funtype - incremental type analysis

Usage:
  funtype run [flags] <scenario.yaml>

Flags:
  -config <file>    config file (default %s)
  -snapshot <file>  SQLite snapshot db for cross-session drift reports
  -trace            debug logging of submissions and re-queues
`, config.DefaultConfigFile)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "run":
		os.Exit(runCommand(os.Args[2:]))
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func runCommand(args []string) int {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file")
	snapshotPath := fs.String("snapshot", "", "snapshot database")
	trace := fs.Bool("trace", false, "debug logging")
	fs.Usage = usage
	fs.Parse(args)

	if fs.NArg() != 1 {
		usage()
		return 2
	}
	scenarioPath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *trace {
		cfg.Trace = true
	}
	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}

	if err := run(cfg, scenarioPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, analyzer.ErrNoFixedPoint) {
			return 3
		}
		return 1
	}
	return 0
}

func run(cfg *config.Config, scenarioPath string) error {
	s, err := scenario.Load(scenarioPath)
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if cfg.Trace {
		log, err = zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer log.Sync()
	}

	engine := analyzer.New(
		analyzer.WithLogger(log),
		analyzer.WithMaxPasses(cfg.MaxPasses),
	)
	if err := s.Configure(engine); err != nil {
		return err
	}

	results, err := engine.Run(context.Background())
	if err != nil {
		return err
	}

	for _, b := range engine.Bindings() {
		fmt.Printf("%s: %s\n", colorBinding(b.Name), colorType(results[b.Name].String()))
	}

	if cfg.SnapshotPath != "" {
		if err := reportDrift(cfg.SnapshotPath, engine, results); err != nil {
			return err
		}
	}
	return nil
}

func reportDrift(path string, engine *analyzer.Engine, results map[string]typesystem.Type) error {
	store, err := snapshot.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	rendered := make(map[string]string, len(results))
	for name, t := range results {
		rendered[name] = t.String()
	}

	changes, err := store.Diff(ctx, rendered)
	switch {
	case errors.Is(err, snapshot.ErrNoSessions):
		fmt.Println("\nNo previous session to compare against.")
	case err != nil:
		return err
	case len(changes) == 0:
		fmt.Println("\nNo drift since last session.")
	default:
		fmt.Printf("\nDrift since last session (%d bindings):\n", len(changes))
		for _, c := range changes {
			switch {
			case c.Previous == "":
				fmt.Printf("  + %s: %s\n", colorBinding(c.Binding), colorType(c.Current))
			case c.Current == "":
				fmt.Printf("  - %s: %s\n", colorBinding(c.Binding), colorType(c.Previous))
			default:
				fmt.Printf("  ~ %s: %s -> %s\n", colorBinding(c.Binding), colorType(c.Previous), colorType(c.Current))
			}
		}
	}

	return store.SaveSession(ctx, engine.Session(), rendered)
}
