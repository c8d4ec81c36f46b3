package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/njchilds90/stepsolver/internal/config"
	"github.com/njchilds90/stepsolver/internal/logging"
	"github.com/njchilds90/stepsolver/internal/render"
	"github.com/njchilds90/stepsolver/internal/server"
	"github.com/njchilds90/stepsolver/internal/solver"
)

var version = "dev"

// errUnsolved makes the process exit non-zero after a failed outcome has
// already been printed.
var errUnsolved = errors.New("could not solve")

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	v       *viper.Viper
	cfg     *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}
	root := &cobra.Command{
		Use:   "stepsolver",
		Short: "Step-by-step solver for arithmetic, quadratics, exponents and percent changes",
		Long: `stepsolver explains how it reaches an answer. It evaluates arithmetic
innermost group first, solves quadratic equations and inequalities,
simplifies exponent expressions, solves rational equations and reads
percent changes out of plain sentences.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/stepsolver/config.yaml)")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "console", "log format (console, json)")
	root.PersistentFlags().String("color", "auto", "color output (auto, always, never)")

	_ = a.v.BindPFlag("logging.level", root.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag("logging.format", root.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag("render.color", root.PersistentFlags().Lookup("color"))

	root.AddCommand(solveCmd(a))
	root.AddCommand(rationalCmd(a))
	root.AddCommand(batchCmd(a))
	root.AddCommand(replCmd(a))
	root.AddCommand(serveCmd(a))
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		if !errors.Is(err, errUnsolved) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	if _, err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	a.cfg = cfg
	server.Version = version
	return nil
}

func (a *app) solver() *solver.Solver {
	return solver.New(solver.WithLogger(slog.Default()))
}

// renderer returns a renderer for w, coloring only when render.color allows
// it for that writer.
func (a *app) renderer(w io.Writer) *render.Renderer {
	f, _ := w.(*os.File)
	color := a.cfg.Render.Color == "always"
	if f != nil {
		color = render.UseColor(a.cfg.Render.Color, f)
	}
	return render.New(w, color)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stepsolver %s\n", version)
		},
	}
}
