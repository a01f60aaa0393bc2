package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/chazu/csgtree/internal/config"
	"github.com/chazu/csgtree/internal/logging"
	"github.com/chazu/csgtree/pkg/engine"
	"github.com/chazu/csgtree/pkg/kernel"
	"github.com/chazu/csgtree/pkg/kernel/manifold"
	"github.com/chazu/csgtree/pkg/kernel/sdfx"
	"github.com/chazu/csgtree/pkg/preview"
)

const rootLongDescription = `csgtree evaluates a model script into a tree of modeling nodes and
folds it into a CSG term tree: boolean operations over primitive leaves,
with highlighted and background parts collected separately.

Settings come from flags, CSGTREE_* environment variables and an optional
csgtree.yaml in the working directory.`

// cli carries the state shared by all commands of one invocation.
type cli struct {
	v       *viper.Viper
	cfgFile string
	verbose bool

	cfg config.Config
	log *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{v: config.New(), log: logging.NewNop()}

	root := &cobra.Command{
		Use:          "csgtree",
		Short:        "Build CSG term trees from model scripts",
		Long:         rootLongDescription,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.load()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	c.configureFlags(root)

	root.AddCommand(newTreeCmd(c), newMeshCmd(c), newValidateCmd(c))
	return root
}

func (c *cli) configureFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default ./csgtree.yaml)")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log at debug level")

	flags.String("kernel", c.v.GetString(config.KernelKey), "geometry kernel: sdfx or manifold")
	c.bindFlag(flags.Lookup("kernel"), config.KernelKey)

	flags.Int("cells", c.v.GetInt(config.MeshCellsKey), "marching cubes resolution (sdfx)")
	c.bindFlag(flags.Lookup("cells"), config.MeshCellsKey)

	flags.Int("segments", c.v.GetInt(config.MeshSegmentsKey), "default facet count of round primitives")
	c.bindFlag(flags.Lookup("segments"), config.MeshSegmentsKey)

	flags.Duration("timeout", c.v.GetDuration(config.EvalTimeoutKey), "script evaluation timeout")
	c.bindFlag(flags.Lookup("timeout"), config.EvalTimeoutKey)

	flags.Int("workers", c.v.GetInt(config.WorkersKey), "concurrent tessellation workers (0 = one per CPU)")
	c.bindFlag(flags.Lookup("workers"), config.WorkersKey)

	flags.StringP("output", "o", c.v.GetString(config.OutputFormatKey), "output format: text, yaml or json")
	c.bindFlag(flags.Lookup("output"), config.OutputFormatKey)

	flags.String("log-file", c.v.GetString(config.LogFilenameKey), "write logs to a rotating file instead of stderr")
	c.bindFlag(flags.Lookup("log-file"), config.LogFilenameKey)

	flags.String("log-level", c.v.GetString(config.LogLevelKey), "log level: debug, info, warn or error")
	c.bindFlag(flags.Lookup("log-level"), config.LogLevelKey)
}

// bindFlag wires a Cobra flag to a Viper key so config/env values feed the flag.
func (c *cli) bindFlag(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(c.v.BindPFlag(key, flag))
}

func (c *cli) load() error {
	if err := config.ReadFile(c.v, c.cfgFile); err != nil {
		return err
	}
	cfg, err := config.Load(c.v)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Log.Level = slog.LevelDebug
	}
	c.cfg = cfg
	c.log = logging.New(cfg.Log.LoggingOptions())
	return nil
}

func (c *cli) kernel() (kernel.Kernel, error) {
	switch c.cfg.Kernel {
	case config.KernelManifold:
		return manifold.New()
	default:
		return sdfx.New(sdfx.WithMeshCells(c.cfg.MeshCells)), nil
	}
}

func (c *cli) engine() *engine.Engine {
	return engine.NewEngine(engine.WithTimeout(c.cfg.EvalTimeout), engine.WithLogger(c.log))
}

func (c *cli) previewer() (*preview.Previewer, error) {
	k, err := c.kernel()
	if err != nil {
		return nil, err
	}
	return preview.New(k,
		preview.WithLogger(c.log),
		preview.WithEngine(c.engine()),
		preview.WithWorkers(c.cfg.Workers),
		preview.WithSegments(c.cfg.Segments),
	), nil
}

// readSource reads a model file; "-" reads standard input.
func readSource(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read model: %w", err)
	}
	return string(data), nil
}

// report prints diagnostics to stderr and fails when there are errors.
func report(cmd *cobra.Command, r preview.Result) error {
	w := cmd.ErrOrStderr()
	for _, d := range r.Warnings {
		fmt.Fprintf(w, "warning: %s\n", d)
	}
	for _, d := range r.Errors {
		fmt.Fprintf(w, "error: %s\n", d)
	}
	if !r.OK() {
		return fmt.Errorf("%d error(s)", len(r.Errors))
	}
	return nil
}
