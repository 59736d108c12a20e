package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/stegastamp-go/stegastamp/internal/backend/cpu"
	"github.com/stegastamp-go/stegastamp/internal/stegastamp"
)

const version = "v0.1.0-dev"

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "stegastamp",
		Short:        "Embed and recover image fingerprints with the StegaStamp networks",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
			return nil
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newSummaryCmd(),
		newEmbedCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stegastamp %s\n", version)
		},
	}
}

// addModelFlags registers the network geometry flags shared by subcommands.
func addModelFlags(cmd *cobra.Command) {
	def := stegastamp.DefaultModelConfig()
	cmd.Flags().Int("resolution", def.Resolution, "Image resolution (power of two, >= 32)")
	cmd.Flags().Int("channels", def.ImageChannels, "Image channels (1 or 3)")
	cmd.Flags().Int("fingerprint-size", def.FingerprintSize, "Fingerprint length in bits")
	cmd.Flags().Uint64("seed", 0, "Weight initialization seed (0 picks one from the clock)")
}

// modelConfig reads the flags registered by addModelFlags.
func modelConfig(cmd *cobra.Command) (stegastamp.Config, error) {
	var cfg stegastamp.Config
	var err error
	if cfg.Resolution, err = cmd.Flags().GetInt("resolution"); err != nil {
		return cfg, err
	}
	if cfg.ImageChannels, err = cmd.Flags().GetInt("channels"); err != nil {
		return cfg, err
	}
	if cfg.FingerprintSize, err = cmd.Flags().GetInt("fingerprint-size"); err != nil {
		return cfg, err
	}
	if cfg.Seed, err = cmd.Flags().GetUint64("seed"); err != nil {
		return cfg, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

// buildModel constructs a randomly initialized model on the CPU backend.
func buildModel(cfg stegastamp.Config, backend *cpu.CPUBackend) (*stegastamp.Model[*cpu.CPUBackend], error) {
	slog.Debug("backend ready", "name", backend.Name(), "workers", backend.Parallel().NumWorkers)

	start := time.Now()
	model, err := stegastamp.NewModel(cfg, backend)
	if err != nil {
		return nil, err
	}
	slog.Debug("model initialized",
		"resolution", cfg.Resolution,
		"channels", cfg.ImageChannels,
		"fingerprint_size", cfg.FingerprintSize,
		"seed", cfg.Seed,
		"elapsed", time.Since(start))
	return model, nil
}
