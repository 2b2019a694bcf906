// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRepairInchiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "repair-inchi <value>",
		Short: "Repair a single InChI value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSetup(cmd, flags)
			if err != nil {
				return err
			}
			defer func() { _ = s.logger.Sync() }()

			repaired, err := s.harmonizer.RepairInchiString(cmd.Context(), args[0], s.cfg.RescueSmiles)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), repaired)
			return nil
		},
	}
}
