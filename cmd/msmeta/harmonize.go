// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spectrakit/msmeta/internal/records"
)

func newHarmonizeCmd(flags *rootFlags) *cobra.Command {
	var (
		outputFormat string
		repairInchi  bool
	)
	cmd := &cobra.Command{
		Use:   "harmonize [file]",
		Short: "Harmonize a YAML or JSON document of metadata records",
		Long: "Reads one metadata mapping or a sequence of them from file (or stdin), " +
			"normalizes keys, resolves precursor_mz, ionmode and charge and writes the result to stdout.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSetup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			raw, err := records.Decode(data)
			if err != nil {
				return err
			}

			results := s.harmonizer.HarmonizeRecords(cmd.Context(), raw, repairInchi)
			out := make([]map[string]any, 0, len(results))
			failed := 0
			for _, result := range results {
				out = append(out, result.Record)
				if result.Err != nil {
					failed++
					fmt.Fprintln(cmd.ErrOrStderr(), result.Err)
				}
			}

			encoded, err := records.Encode(out, outputFormat)
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d records failed inchi repair", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputFormat, "output-format", "o", records.FormatYAML, "output format: yaml or json")
	cmd.Flags().BoolVar(&repairInchi, "repair-inchi", false, "also repair inchi fields")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", args[0], err)
	}
	return data, nil
}
