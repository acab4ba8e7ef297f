package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/export"
	"github.com/Cheburusska/datatable/pkg/json"
	"github.com/Cheburusska/datatable/pkg/rowmapping"
)

func newHeadCmd(a *app) *cobra.Command {
	var n int64
	var cols []int
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "head <dir>",
		Short: "Print the first rows of a table directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := a.loader().Open(args[0])
			if err != nil {
				return err
			}
			defer dt.Release(nil)

			if n > dt.NRows() {
				n = dt.NRows()
			}
			if n < 0 {
				n = 0
			}
			rm, err := rowmapping.NewSlice(0, n, 1)
			if err != nil {
				return err
			}
			cm := rowmapping.ColMapping{}
			if len(cols) > 0 {
				cm = rowmapping.NewColMapping(cols...)
			}
			view, err := dt.ApplyMapping(rm, cm)
			if err != nil {
				return err
			}
			defer view.Release(nil)

			readers, err := view.Readers()
			if err != nil {
				return err
			}

			header := make([]string, view.NCols())
			for j := range header {
				src := j
				if len(cols) > 0 {
					src = cols[j]
				}
				header[j] = export.ColumnName(src)
			}
			if asJSON {
				return writeRowsJSON(cmd.OutOrStdout(), header, readers, view.NRows())
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, strings.Join(header, "\t"))
			row := make([]string, view.NCols())
			for i := int64(0); i < view.NRows(); i++ {
				for j, r := range readers {
					row[j] = cell(r.Value(i))
				}
				fmt.Fprintln(tw, strings.Join(row, "\t"))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().Int64VarP(&n, "rows", "n", 10, "Number of rows to print")
	cmd.Flags().IntSliceVarP(&cols, "columns", "c", nil, "Column indices to print (default all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print a JSON array of row objects")
	return cmd
}

func writeRowsJSON(w io.Writer, header []string, readers []column.Reader, nrows int64) error {
	enc := json.NewStreamingEncoder(w, true)
	for i := int64(0); i < nrows; i++ {
		obj := make(map[string]interface{}, len(header))
		for j, r := range readers {
			obj[header[j]] = r.Value(i)
		}
		if err := enc.Encode(obj); err != nil {
			_ = enc.Close()
			return err
		}
	}
	return enc.Close()
}
