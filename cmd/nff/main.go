// Command nff inspects, prints and exports NFF table directories.
package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Cheburusska/datatable/pkg/config"
	"github.com/Cheburusska/datatable/pkg/logger"
	"github.com/Cheburusska/datatable/pkg/nff"
)

var version = "0.1.0"

// app carries the resolved settings shared by every subcommand.
type app struct {
	v   *viper.Viper
	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "nff",
		Short: "Inspect and export NFF table directories",
		Long: `nff works with directories written in the NFF layout: one binary file per
column plus a colspec naming each file, its stype and its meta.

Settings come from defaults, then the --config YAML file, then NFF_*
environment variables, then flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.Bool("no-mmap", false, "Read column files into memory instead of mapping them")
	flags.Bool("verify", false, "Verify string offsets of every loaded column")
	_ = a.v.BindPFlag("config", flags.Lookup("config"))
	_ = a.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("loader.no_mmap", flags.Lookup("no-mmap"))
	_ = a.v.BindPFlag("loader.verify", flags.Lookup("verify"))
	a.v.SetEnvPrefix("NFF")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "nff v%s\n", version)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})
	root.AddCommand(newInspectCmd(a), newHeadCmd(a), newExportCmd(a))
	return root
}

// init resolves the configuration and installs the logger.
func (a *app) init() error {
	cfg := config.Default()
	if path := a.v.GetString("config"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if lvl := a.v.GetString("logging.level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
	if a.v.GetBool("loader.no_mmap") {
		cfg.Loader.UseMmap = false
	}
	if a.v.GetBool("loader.verify") {
		cfg.Loader.Verify = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	logger.Set(l)
	a.cfg = cfg
	return nil
}

func (a *app) loader() *nff.Loader {
	return nff.NewLoader(a.cfg.Loader)
}
