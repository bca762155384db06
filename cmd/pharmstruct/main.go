package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coolbeans/pharmstruct/pkg/api"
	"github.com/coolbeans/pharmstruct/pkg/cache"
	"github.com/coolbeans/pharmstruct/pkg/config"
	"github.com/coolbeans/pharmstruct/pkg/engine"
	"github.com/coolbeans/pharmstruct/pkg/preprocess"
	"github.com/coolbeans/pharmstruct/pkg/report"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "pharmstruct",
		Short: "Pharmaceutical report structurer",
		Long: `Pharmstruct converts raw pharmaceutical and clinical report text into
structured, renderable sections.

It invokes an extraction service (or an offline rule engine), assembles the
labeled extractions into prefix/body/suffix segments with character intervals
for hover highlighting, renders a plain-text view, and caches results in a
JSON file keyed by sample id or content hash.`,
		Version: version,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(structureCmd())
	rootCmd.AddCommand(cacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds the process-wide structured logger.
func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// engineFactory picks the extraction engine: the remote service when an
// engine URL is configured and offline mode is not forced, otherwise the
// deterministic rule engine.
func engineFactory(cfg *config.Config, offline bool) api.EngineFactory {
	return func(modelID string) engine.Engine {
		if offline || cfg.EngineURL == "" {
			return engine.NewRuleEngine()
		}
		opts := engine.DefaultOptions()
		opts.ModelID = modelID
		opts.APIKey = cfg.APIKey
		return engine.NewHTTPEngine(cfg.EngineURL, opts)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the structuring HTTP service",
		Long: `Run the HTTP service exposing POST /predict, GET /cache/stats, and
GET /health.

Configuration comes from the environment (and .env): PORT, MODEL_ID,
ENGINE_URL, KEY, CACHE_DIR, MAX_INPUT_LENGTH, RATE_LIMIT_PREDICT.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			offline, _ := cmd.Flags().GetBool("offline")

			cfg := config.Load()
			logger := newLogger()
			slog.SetDefault(logger)

			store := cache.NewStore(cfg.CacheDir, logger)
			server := api.New(store, cfg, engineFactory(cfg, offline), logger)
			return server.Run()
		},
	}

	cmd.Flags().Bool("offline", false, "use the offline rule engine instead of the extraction service")
	return cmd
}

func structureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "structure",
		Short: "Structure a single report",
		Long: `Structure one report from a file (or stdin) and print the result.

Example:
  pharmstruct structure --input report.txt --text
  cat report.txt | pharmstruct structure --offline`,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, _ := cmd.Flags().GetString("input")
			offline, _ := cmd.Flags().GetBool("offline")
			textOnly, _ := cmd.Flags().GetBool("text")

			var raw []byte
			var err error
			if input == "" || input == "-" {
				raw, err = io.ReadAll(os.Stdin)
			} else {
				raw, err = os.ReadFile(input)
			}
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			cfg := config.Load()
			processed := preprocess.Report(string(raw))

			structurer := report.NewStructurer(engineFactory(cfg, offline)(cfg.ModelID))
			resp, err := structurer.Predict(context.Background(), processed)
			if err != nil {
				return err
			}

			if textOnly {
				fmt.Println(resp.Text)
				return nil
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("encode response: %w", err)
			}
			fmt.Println(string(out))
			return nil
		},
	}

	cmd.Flags().StringP("input", "i", "", "input file (default: stdin)")
	cmd.Flags().Bool("offline", false, "use the offline rule engine instead of the extraction service")
	cmd.Flags().Bool("text", false, "print only the rendered text view")
	return cmd
}

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the result cache",
	}

	cmd.AddCommand(cacheStatsCmd())
	cmd.AddCommand(cacheClearCmd())
	cmd.AddCommand(cacheRemoveCmd())
	cmd.AddCommand(cachePopulateCmd())
	return cmd
}

// openStore builds the cache store from the environment configuration.
func openStore() (*cache.Store, *config.Config, *slog.Logger) {
	cfg := config.Load()
	logger := newLogger()
	return cache.NewStore(cfg.CacheDir, logger), cfg, logger
}

func cacheStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _ := openStore()
			out, err := json.MarshalIndent(store.Stats(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}

func cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached results",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _ := openStore()
			store.Clear()
			fmt.Println("Cache cleared")
			return nil
		},
	}
}

func cacheRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <sample-id>",
		Short: "Remove one cached sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, _ := openStore()
			if store.Remove(args[0]) {
				fmt.Printf("Removed sample: %s\n", args[0])
				return nil
			}
			return fmt.Errorf("sample not found: %s", args[0])
		},
	}
}

func cachePopulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "populate",
		Short: "Batch-populate the cache from a samples file",
		Long: `Structure every sample report in a YAML file and cache the results.

Samples already cached are skipped unless --force is given. A lock marker in
the cache directory keeps concurrent populations from running twice.

Example:
  pharmstruct cache populate --samples samples.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			samplesPath, _ := cmd.Flags().GetString("samples")
			force, _ := cmd.Flags().GetBool("force")
			offline, _ := cmd.Flags().GetBool("offline")

			if samplesPath == "" {
				return fmt.Errorf("--samples flag is required")
			}

			store, cfg, _ := openStore()
			samples, err := config.LoadSamples(samplesPath)
			if err != nil {
				return err
			}

			structurer := report.NewStructurer(engineFactory(cfg, offline)(cfg.ModelID))
			compute := func(text string) (json.RawMessage, error) {
				resp, err := structurer.Predict(context.Background(), preprocess.Report(text))
				if err != nil {
					return nil, err
				}
				return json.Marshal(resp)
			}

			return store.Populate(samples, compute, force, cfg.PopulateDelay)
		},
	}

	cmd.Flags().String("samples", "", "YAML file of sample reports (id + text)")
	cmd.Flags().Bool("force", false, "reprocess samples even if already cached")
	cmd.Flags().Bool("offline", false, "use the offline rule engine instead of the extraction service")
	return cmd
}
