package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mchmarny/menued/pkg/api"
	"github.com/mchmarny/menued/pkg/config"
	"github.com/mchmarny/menued/pkg/editor"
	"github.com/mchmarny/menued/pkg/logger"
	"github.com/mchmarny/menued/pkg/menu"
	"github.com/mchmarny/menued/pkg/metric"
	"github.com/mchmarny/menued/pkg/seed"
	"github.com/mchmarny/menued/pkg/server"
)

func (a *app) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the menu editor API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.Int("port", server.DefaultPort, "port to listen on, 0 picks a free port")
	flags.String("seed", "", "YAML or JSON file with the initial menu")
	flags.Bool("watch", false, "reload the seed file when it changes")
	flags.Float64("indentation", menu.DefaultIndentation, "pixel width of one nesting level")
	flags.Duration("shutdown-timeout", server.DefaultShutdownTimeout, "grace period for in-flight requests")
	_ = a.v.BindPFlag(config.KeyPort, flags.Lookup("port"))
	_ = a.v.BindPFlag(config.KeySeed, flags.Lookup("seed"))
	_ = a.v.BindPFlag(config.KeyWatch, flags.Lookup("watch"))
	_ = a.v.BindPFlag(config.KeyIndentation, flags.Lookup("indentation"))
	_ = a.v.BindPFlag(config.KeyShutdownTimeout, flags.Lookup("shutdown-timeout"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	ed := editor.New(
		editor.WithIndentation(a.cfg.Indentation),
		editor.WithOperationCounter(metric.NewCounter(reg, "operations_total",
			"Menu operations by operation and result.", "op", "result")),
		editor.WithNodeGauge(metric.NewGauge(reg, "nodes", "Nodes in the menu tree.")),
		editor.WithLogger(a.log),
	)

	if err := a.loadSeed(ed); err != nil {
		return err
	}

	srv := server.New(
		server.WithPort(a.cfg.Port),
		server.WithShutdownTimeout(a.cfg.ShutdownTimeout),
		server.WithErrorLog(logger.NewLogLogger(a.log, slog.LevelError)),
		server.WithTLS(server.TLSConfig{CertFile: a.cfg.TLSCert, KeyFile: a.cfg.TLSKey}),
		server.WithSimpleHealth(),
		server.WithReadiness(server.ReadinessFunc(func(context.Context) error {
			if ed.Version() == 0 {
				return errors.New("menu not loaded")
			}
			return nil
		})),
		server.WithMetrics(reg),
		server.WithHandler(api.Prefix, api.New(ed)),
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gCtx)
	})

	if a.cfg.Watch {
		w, err := seed.NewWatcher(a.cfg.Seed, func(m *menu.Menu) {
			if err := ed.SetTree(m.Items); err != nil {
				a.log.Error("seed reload rejected", "path", a.cfg.Seed, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to watch seed: %w", err)
		}
		g.Go(func() error {
			return w.Run(gCtx)
		})
	}

	return g.Wait()
}

func (a *app) loadSeed(ed *editor.Editor) error {
	if a.cfg.Seed == "" {
		return ed.SetTree(nil)
	}

	m, err := seed.Load(a.cfg.Seed)
	if err != nil {
		return err
	}
	if err := ed.SetTree(m.Items); err != nil {
		return err
	}
	a.log.Info("seed loaded", "path", a.cfg.Seed, "title", m.Title, "nodes", menu.Count(m.Items))
	return nil
}
