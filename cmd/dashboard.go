package main

import (
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/channel"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/dashboard"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/handlers"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/restclient"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func runDashboard(cmd *cobra.Command, _ []string) error {
	d := cfg.Dashboard
	if s, _ := cmd.Flags().GetString("subject"); s != "" {
		d.SubjectID = s
	}
	if p, _ := cmd.Flags().GetString("policy"); p != "" {
		d.Policy = p
	}
	policy, err := dashboard.ParsePolicy(d.Policy)
	if err != nil {
		return err
	}
	pushURL, err := d.PushEndpoint()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	rest, err := restclient.New(d.BaseURL, d.FetchTimeout, log.Named("rest"))
	if err != nil {
		return err
	}
	push := channel.NewClient(pushURL, d.ReconnectInterval, log.Named("push"))

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := dashboard.NewMetrics(reg)

	engine := dashboard.NewEngine(
		dashboard.Options{
			SubjectID:    d.SubjectID,
			Policy:       policy,
			PollInterval: d.PollInterval,
			TimelineMax:  d.TimelineMaxEvents,
		},
		dashboard.NewLoader(rest, d.SubjectID, metrics, log.Named("loader")),
		dashboard.NewMonitor(push, log.Named("monitor")),
		push,
		metrics,
		log.Named("engine"),
	)
	views := handlers.NewDashboardHandler(engine, reg, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return push.Run(gctx) })
	g.Go(func() error { return engine.Run(gctx) })
	g.Go(func() error {
		srv := &server.Server{}
		log.Infow("dashboard listening", "port", d.Port, "subject", d.SubjectID, "backend", d.BaseURL, "push", pushURL)
		return srv.Serve(gctx, d.Port, views.InitRoutes())
	})

	err = g.Wait()
	log.Infow("dashboard stopped", "err", err)
	return err
}
