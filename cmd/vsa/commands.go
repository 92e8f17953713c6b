package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"meshapprox/src/config"
	"meshapprox/src/render"
	"meshapprox/src/surface/geometry"
	"meshapprox/src/surface/vsa"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	config  string
	verbose bool
	log     *slog.Logger
}

func newRootCmd() *cobra.Command {
	rf := &rootFlags{}
	cmd := &cobra.Command{
		Use:          "vsa",
		Short:        "Variational shape approximation of triangle meshes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if rf.verbose {
				level = slog.LevelDebug
			}
			rf.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}
	cmd.PersistentFlags().StringVarP(&rf.config, "config", "c", "", "options file (.toml, .yaml or .yml)")
	cmd.PersistentFlags().BoolVarP(&rf.verbose, "verbose", "v", false, "log every relaxation step")

	cmd.AddCommand(newApproximateCmd(rf), newSegmentCmd(rf))
	return cmd
}

// runFlags are the options every subcommand can override.
type runFlags struct {
	metric     string
	seeding    string
	proxies    int
	errorDrop  float64
	iterations int
	teleport   int
	output     string
}

func (r *runFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.metric, "metric", "l21", "error metric: l21, l2 or compact")
	f.StringVar(&r.seeding, "seeding", "hierarchical", "seeding method: random, incremental or hierarchical")
	f.IntVar(&r.proxies, "proxies", 20, "maximum number of proxies")
	f.Float64Var(&r.errorDrop, "error-drop", 0, "stop seeding once the error falls to this fraction")
	f.IntVar(&r.iterations, "iterations", 30, "relaxation steps after seeding")
	f.IntVar(&r.teleport, "teleport", 0, "proxies to teleport after relaxation")
	f.StringVarP(&r.output, "output", "o", "", "output file, standard output when empty")
}

// options loads the config file and applies the flags set on cmd.
func (r *runFlags) options(cmd *cobra.Command, rf *rootFlags) (vsa.Options, error) {
	opts := vsa.DefaultOptions()
	if rf.config != "" {
		var err error
		if opts, err = config.Load(rf.config); err != nil {
			return opts, err
		}
	}
	f := cmd.Flags()
	if f.Changed("metric") {
		if err := opts.Metric.UnmarshalText([]byte(r.metric)); err != nil {
			return opts, err
		}
	}
	if f.Changed("seeding") {
		if err := opts.Seeding.UnmarshalText([]byte(r.seeding)); err != nil {
			return opts, err
		}
	}
	if f.Changed("proxies") {
		opts.MaxProxies = r.proxies
	}
	if f.Changed("error-drop") {
		opts.MinErrorDrop = r.errorDrop
	}
	if f.Changed("iterations") {
		opts.Iterations = r.iterations
	}
	opts.Logger = rf.log
	return opts, opts.Validate()
}

// partition seeds and relaxes the mesh in path, checking ctx between
// relaxation steps.
func (r *runFlags) partition(ctx context.Context, path string, opts vsa.Options) (vsa.Approximator, error) {
	m, err := readMesh(path)
	if err != nil {
		return nil, err
	}
	a, err := vsa.New(m, opts.Metric, opts)
	if err != nil {
		return nil, err
	}
	if _, err := a.Seed(opts.Seeding, opts.Target(), opts.InnerIterations); err != nil {
		return nil, err
	}
	if err := relax(ctx, a, opts.Iterations); err != nil {
		return nil, err
	}
	if r.teleport > 0 {
		n := a.TeleportProxies(r.teleport, nil, true)
		opts.Logger.Info("teleported proxies", "count", n)
		if err := relax(ctx, a, opts.Iterations); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func relax(ctx context.Context, a vsa.Approximator, steps int) error {
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if a.RunOneStep() == 0 {
			break
		}
	}
	return nil
}

func readMesh(path string) (*geometry.Mesh, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	m, err := geometry.ReadOFF(fp)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// writeOutput runs write on the output file, or on the command's output
// when no file is set.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fp); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}

func newApproximateCmd(rf *rootFlags) *cobra.Command {
	r := &runFlags{}
	var chordError float64
	var pca, polygons bool
	cmd := &cobra.Command{
		Use:   "approximate <mesh.off>",
		Short: "Write the simplified mesh of a partition as OFF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := r.options(cmd, rf)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("chord-error") {
				opts.ChordError = chordError
			}
			if cmd.Flags().Changed("pca") {
				opts.PCAPlane = pca
			}
			a, err := r.partition(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			res, err := a.ExtractMesh(opts.ChordError, opts.PCAPlane)
			if err != nil {
				return err
			}
			return writeOutput(cmd, r.output, func(w io.Writer) error {
				if polygons {
					return render.WritePolygonsOFF(w, res)
				}
				return render.WriteOFF(w, res)
			})
		},
	}
	r.register(cmd)
	cmd.Flags().Float64Var(&chordError, "chord-error", 0.2, "maximum distance of a border vertex to its chord")
	cmd.Flags().BoolVar(&pca, "pca", false, "place anchors on least-squares planes")
	cmd.Flags().BoolVar(&polygons, "polygons", false, "write border polygons instead of triangles")
	return cmd
}

func newSegmentCmd(rf *rootFlags) *cobra.Command {
	r := &runFlags{}
	cmd := &cobra.Command{
		Use:   "segment <mesh.off>",
		Short: "Write the input mesh with faces colored by proxy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := r.options(cmd, rf)
			if err != nil {
				return err
			}
			a, err := r.partition(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return writeOutput(cmd, r.output, func(w io.Writer) error {
				return render.WriteSegmentation(w, a.Mesh(), a.ProxyMap())
			})
		},
	}
	r.register(cmd)
	return cmd
}
