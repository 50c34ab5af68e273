// Package main provides a headless track generator for authoring and debugging
// procedural track layouts.
//
// Usage:
//
//	go run ./cmd/trackgen [flags]
//
// Flags:
//
//	--config <path>     Track config YAML (default data/track.yaml)
//	--catalog <path>    Template catalog YAML (default data/catalog.yaml)
//	--seed <n>          Override the seed from the config (0 keeps it)
//	--format <fmt>      Output format: yaml (full layout) or stats (summary)
//	--out <path>        Write output to a file instead of stdout
//	--schema <doc>      Emit the JSON schema of a config document (track | catalog) and exit
//	--verbose           Per-placement debug logging
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/decker502/trackgen/pkg/config"
	"github.com/decker502/trackgen/pkg/ecs"
	"github.com/decker502/trackgen/pkg/game"
	"gopkg.in/yaml.v3"
)

var (
	configFlag  = flag.String("config", "data/track.yaml", "Track config YAML file")
	catalogFlag = flag.String("catalog", "data/catalog.yaml", "Template catalog YAML file")
	seedFlag    = flag.Int64("seed", 0, "Override the seed (0 keeps the config seed)")
	formatFlag  = flag.String("format", "stats", "Output format: yaml | stats")
	outFlag     = flag.String("out", "", "Output file (default stdout)")
	schemaFlag  = flag.String("schema", "", "Emit JSON schema for a config document: track | catalog")
	verboseFlag = flag.Bool("verbose", false, "Enable per-placement debug logging")
)

func main() {
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	out := io.Writer(os.Stdout)
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := run(out); err != nil {
		fmt.Fprintf(os.Stderr, "trackgen: %v\n", err)
		os.Exit(1)
	}
}

func run(out io.Writer) error {
	if *schemaFlag != "" {
		return writeSchema(out, *schemaFlag)
	}

	cfg, err := config.LoadTrackConfig(*configFlag)
	if err != nil {
		return err
	}
	catalog, err := config.LoadCatalogConfig(*catalogFlag)
	if err != nil {
		return err
	}
	if *seedFlag != 0 {
		cfg.Seed = *seedFlag
	}
	cfg.Verbose = cfg.Verbose || *verboseFlag

	layout, err := generate(cfg, catalog)
	if err != nil {
		return err
	}

	switch *formatFlag {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(layout); err != nil {
			return fmt.Errorf("failed to encode layout: %w", err)
		}
		return enc.Close()
	case "stats":
		_, err := io.WriteString(out, FormatStats(layout, cfg))
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or stats)", *formatFlag)
	}
}

// generate 在一个新的场景里执行一次生成
func generate(cfg *config.TrackConfig, catalog *config.CatalogConfig) (*game.Layout, error) {
	gen, err := game.NewTrackGenerator(ecs.NewEntityManager(), cfg, catalog)
	if err != nil {
		return nil, err
	}
	return gen.Generate()
}
