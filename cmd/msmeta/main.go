// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spectrakit/msmeta/internal/config"
	"github.com/spectrakit/msmeta/internal/tool"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootFlags struct {
	conversions  string
	obabel       string
	rescueSmiles bool
	keysOnly     bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "msmeta",
		Short:        "Harmonize spectrum metadata keys and values",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&flags.conversions, "conversions", "", "key conversions file (YAML or JSON); overrides MSMETA_CONVERSIONS_FILE")
	root.PersistentFlags().StringVar(&flags.obabel, "obabel", "", "path to the obabel binary; overrides MSMETA_OBABEL_PATH")
	root.PersistentFlags().BoolVar(&flags.rescueSmiles, "rescue-smiles", true, "convert SMILES found in inchi fields; overrides MSMETA_RESCUE_SMILES")
	root.PersistentFlags().BoolVar(&flags.keysOnly, "keys-only", false, "only normalize keys, skip value harmonization")

	root.AddCommand(
		newHarmonizeCmd(flags),
		newRepairInchiCmd(flags),
		newServeCmd(flags),
	)
	return root
}

// setup is the wiring shared by all subcommands.
type setup struct {
	cfg        *config.Config
	logger     *zap.Logger
	harmonizer *tool.Harmonizer
}

func newSetup(cmd *cobra.Command, flags *rootFlags) (*setup, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("conversions") {
		cfg.ConversionsFile = flags.conversions
	}
	if pf.Changed("obabel") {
		cfg.ObabelPath = flags.obabel
	}
	if pf.Changed("rescue-smiles") {
		cfg.RescueSmiles = flags.rescueSmiles
	}
	if pf.Changed("keys-only") {
		cfg.Harmonize = !flags.keysOnly
	}

	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	harmonizer, err := tool.NewHarmonizerFromConfig(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return &setup{cfg: cfg, logger: logger, harmonizer: harmonizer}, nil
}
