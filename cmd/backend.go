package main

import (
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/handlers"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository/db"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/server"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/service"

	_ "github.com/PathumRathnayaka/employee-monitoring-system/docs"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runBackend(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("simulate") {
		cfg.Backend.Simulate, _ = cmd.Flags().GetBool("simulate")
	}
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	conn, err := db.InitDB(cfg.Backend.DBPath)
	if err != nil {
		log.Errorw("failed to init sqlite", "path", cfg.Backend.DBPath, "err", err)
		return err
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	hub := handlers.NewHub(log.Named("hub"))
	defer hub.Close()

	repos := repository.NewRepository(conn)
	services := service.NewService(repos, hub, cfg.Backend.PushMode, cfg.Backend.SimulateSubjects, log)
	api := handlers.NewHandler(services, hub, log)

	g, gctx := errgroup.WithContext(ctx)
	if cfg.Backend.Simulate {
		g.Go(func() error {
			services.Simulator.Run(gctx, cfg.Backend.SimulateTick)
			return nil
		})
	}
	g.Go(func() error {
		srv := &server.Server{}
		log.Infow("backend listening", "port", cfg.Backend.Port, "push_mode", cfg.Backend.PushMode, "simulate", cfg.Backend.Simulate)
		return srv.Serve(gctx, cfg.Backend.Port, api.InitRoutes())
	})

	err = g.Wait()
	log.Infow("backend stopped", "err", err)
	return err
}
