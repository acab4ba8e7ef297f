package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Cheburusska/datatable/pkg/export"
)

func newExportCmd(a *app) *cobra.Command {
	var out, algo, level string
	var batch int64
	cmd := &cobra.Command{
		Use:   "export <dir>",
		Short: "Write a table directory as an Arrow IPC file",
		Long: `Write every row of a table directory as an Arrow IPC file. With
--compression the whole file is wrapped in the chosen stream format
(gzip, snappy, lz4, zstd, s2, deflate).

Example:
  nff export ./table --out table.arrow.zst --compression zstd`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ecfg := a.cfg.Export
			if cmd.Flags().Changed("compression") {
				ecfg.Compression = algo
			}
			if cmd.Flags().Changed("level") {
				ecfg.Level = level
			}
			if cmd.Flags().Changed("batch-rows") {
				ecfg.BatchRows = batch
			}
			if err := ecfg.Validate(); err != nil {
				return err
			}
			opts, err := export.OptionsFromConfig(ecfg)
			if err != nil {
				return err
			}

			dt, err := a.loader().Open(args[0])
			if err != nil {
				return err
			}
			defer dt.Release(nil)

			sum, err := export.WriteFile(cmd.Context(), out, dt, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows in %d batches to %s (%d bytes)\n",
				sum.Rows, sum.Batches, out, sum.Bytes)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (required)")
	cmd.Flags().StringVar(&algo, "compression", "", "Compression algorithm (default from config)")
	cmd.Flags().StringVar(&level, "level", "", "Compression level: fastest, default, better, best")
	cmd.Flags().Int64Var(&batch, "batch-rows", 0, "Rows per record batch (default from config)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
