package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gosuri/uiprogress"
	"github.com/maseology/mmio"
	hydrotrend "github.com/mcflugen/sedflux-sub001"
	"github.com/mcflugen/sedflux-sub001/config"
	"github.com/mcflugen/sedflux-sub001/forcing"
	"github.com/mcflugen/sedflux-sub001/logger"
	"github.com/mcflugen/sedflux-sub001/rng"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgPath, mode, outDir string
	seed                  int64
)

var rootCmd = &cobra.Command{
	Use:   "hydrotrend",
	Short: "Daily river discharge and sediment flux at a basin outlet",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "configuration file (.hjson, .json or .yaml); built-in sample when empty")
	rootCmd.PersistentFlags().StringVar(&mode, "mode", logger.Verbose, "log mode: verbose, quiet or table")
	rootCmd.PersistentFlags().StringVar(&outDir, "out", ".", "output directory")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (overrides config)")
	rootCmd.AddCommand(runCmd(), checkCmd(), ensembleCmd(), climateCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	c := config.Default()
	if cfgPath != "" {
		var err error
		if c, err = config.Load(cfgPath); err != nil {
			return nil, err
		}
	}
	if seed != 0 {
		c.Seed = seed
	}
	return c, nil
}

// newLogger writes to stderr and the per-seed run log.
func newLogger(c *config.Config) (*logrus.Logger, func(), error) {
	f, err := logger.RunFile(outDir, c.Seed)
	if err != nil {
		return nil, nil, err
	}
	return logger.New(mode, io.MultiWriter(os.Stderr, f)), func() { f.Close() }, nil
}

func runCmd() *cobra.Command {
	var (
		csvOut, binOut, stateIn, stateOut string
		progress                          bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate every epoch and write the outlet series",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			lg, done, err := newLogger(c)
			if err != nil {
				return err
			}
			defer done()

			tt := mmio.NewTimer()
			defer tt.Lap(fmt.Sprintf("\nRun complete. n processes: %v", runtime.GOMAXPROCS(0)))

			opts := []hydrotrend.Option{hydrotrend.WithLogger(lg)}
			if stateIn != "" {
				st, err := hydrotrend.LoadGobState(stateIn)
				if err != nil {
					return err
				}
				opts = append(opts, hydrotrend.WithState(st))
			}
			if progress {
				uiprogress.Start()
				bar := uiprogress.AddBar(c.Years()).AppendCompleted().PrependElapsed()
				opts = append(opts, hydrotrend.WithProgress(func(int) { bar.Incr() }))
				defer uiprogress.Stop()
			}
			sim, err := hydrotrend.New(c, opts...)
			if err != nil {
				return err
			}

			var sinks hydrotrend.MultiSink
			if csvOut != "" {
				cs := hydrotrend.NewCSVSink(filepath.Join(outDir, csvOut))
				defer cs.Close()
				sinks = append(sinks, cs)
			}
			var bs *hydrotrend.BinarySink
			if binOut != "" {
				bs = hydrotrend.NewBinarySink(filepath.Join(outDir, binOut))
				sinks = append(sinks, bs)
			}
			if err := sim.Run(sinks); err != nil {
				return err
			}
			tt.Print("simulation complete\n")
			if bs != nil {
				if err := bs.Close(); err != nil {
					return err
				}
			}
			if stateOut != "" {
				if err := sim.State().SaveGob(filepath.Join(outDir, stateOut)); err != nil {
					return err
				}
			}
			for _, r := range sim.Reports {
				r.Print(cmd.OutOrStdout())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&csvOut, "csv", "hydrotrend.csv", "csv output file name (empty to skip)")
	cmd.Flags().StringVar(&binOut, "bin", "", "binary q/qs/qb/w/d/v output file name")
	cmd.Flags().StringVar(&stateIn, "state-in", "", "start from a saved carry state")
	cmd.Flags().StringVar(&stateOut, "state-out", "", "save the final carry state")
	cmd.Flags().BoolVar(&progress, "progress", false, "show a progress bar")
	return cmd
}

func checkCmd() *cobra.Command {
	var write string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a configuration and report epoch drift",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, " %d epochs, %d years, seed %d\n", len(c.Epochs), c.Years(), c.Seed)
			for _, d := range c.Drift() {
				fmt.Fprintf(w, " warning: %s\n", d)
			}
			if write != "" {
				return c.Save(write)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&write, "write", "", "write the configuration, defaults applied, to this file")
	return cmd
}

func ensembleCmd() *cobra.Command {
	var n, workers int
	cmd := &cobra.Command{
		Use:   "ensemble",
		Short: "Run realizations that differ only in seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			tt := mmio.NewTimer()
			ens, err := hydrotrend.RunEnsemble(c, n, workers)
			if ens == nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, m := range ens.Members {
				if m.Err == nil {
					fmt.Fprintf(w, " seed %d: Q %.3f m³/s  Qs %.4f kg/s\n", m.Seed, m.MeanQ, m.MeanQs)
				}
			}
			fmt.Fprintf(w, " ensemble: Q %.3f ± %.3f  Qs %.4f ± %.4f\n", ens.MeanQ, ens.StdQ, ens.MeanQs, ens.StdQs)
			tt.Lap("ensemble complete")
			return err
		},
	}
	cmd.Flags().IntVar(&n, "n", 10, "number of members")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent members (0: all CPUs)")
	return cmd
}

func climateCmd() *cobra.Command {
	var (
		out  string
		show bool
	)
	cmd := &cobra.Command{
		Use:   "climate",
		Short: "Realize the daily climate of every epoch and save it as a forcing series",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig()
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			lg, done, err := newLogger(c)
			if err != nil {
				return err
			}
			defer done()

			rs := rng.NewSet(c.Seed)
			fs := &forcing.Series{Start: c.Epochs[0].Start}
			for k := range c.Epochs {
				e := &c.Epochs[k]
				rs.BeginEpoch(k)
				rz := &forcing.Realizer{C: e.Climate, Start: e.Start, RS: rs, Log: lg}
				for y := e.Start; y < e.End(); y++ {
					rs.BeginYear(y)
					frc, err := rz.Year(y)
					if err != nil {
						return err
					}
					if show {
						frc.CheckAndPrint(cmd.OutOrStdout())
					}
					fs.T = append(fs.T, frc.Tc...)
					fs.P = append(fs.P, frc.P...)
				}
			}
			return fs.SaveGob(filepath.Join(outDir, out))
		},
	}
	cmd.Flags().StringVar(&out, "series", "hydrotrend.forcing.gob", "output forcing series")
	cmd.Flags().BoolVar(&show, "show", false, "print a summary of each realized year")
	return cmd
}
