package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Cheburusska/datatable/pkg/column"
	"github.com/Cheburusska/datatable/pkg/json"
	"github.com/Cheburusska/datatable/pkg/nff"
)

// columnInfo is one line of inspect output.
type columnInfo struct {
	Index   int         `json:"index"`
	File    string      `json:"file"`
	SType   string      `json:"stype"`
	Meta    string      `json:"meta,omitempty"`
	MType   string      `json:"mtype"`
	Bytes   int64       `json:"bytes"`
	NACount int64       `json:"na_count"`
	Min     interface{} `json:"min,omitempty"`
	Max     interface{} `json:"max,omitempty"`
}

type tableInfo struct {
	Dir     string       `json:"dir"`
	NRows   int64        `json:"nrows"`
	NCols   int          `json:"ncols"`
	Columns []columnInfo `json:"columns"`
}

func newInspectCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "inspect <dir>",
		Short: "Show the columns of a table directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.inspect(cmd, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return json.WriteIndented(cmd.OutOrStdout(), info)
			}
			return printInfo(cmd.OutOrStdout(), info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func (a *app) inspect(cmd *cobra.Command, dir string) (*tableInfo, error) {
	m, err := nff.ReadManifest(dir)
	if err != nil {
		return nil, err
	}
	dt, err := a.loader().Open(dir)
	if err != nil {
		return nil, err
	}
	defer dt.Release(nil)

	info := &tableInfo{Dir: dir, NRows: dt.NRows(), NCols: dt.NCols(), Columns: make([]columnInfo, dt.NCols())}
	for j := range info.Columns {
		col := dt.Column(j)
		r, err := dt.Reader(j)
		if err != nil {
			return nil, err
		}
		stats, err := column.ComputeStatsParallel(cmd.Context(), r, a.cfg.Export.Workers)
		if err != nil {
			return nil, err
		}
		e := m.Columns[j]
		info.Columns[j] = columnInfo{
			Index:   j,
			File:    e.File,
			SType:   col.SType().Code(),
			Meta:    e.Meta,
			MType:   string(col.MType()),
			Bytes:   col.DataSize(),
			NACount: stats.NACount,
			Min:     stats.Min,
			Max:     stats.Max,
		}
	}
	return info, nil
}

func printInfo(w io.Writer, info *tableInfo) error {
	fmt.Fprintf(w, "%s: %d rows, %d columns\n", info.Dir, info.NRows, info.NCols)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tFILE\tSTYPE\tMTYPE\tBYTES\tNA\tMIN\tMAX")
	for _, c := range info.Columns {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			c.Index, c.File, c.SType, c.MType, c.Bytes, c.NACount, cell(c.Min), cell(c.Max))
	}
	return tw.Flush()
}

func cell(v interface{}) string {
	if v == nil {
		return "NA"
	}
	return fmt.Sprint(v)
}
