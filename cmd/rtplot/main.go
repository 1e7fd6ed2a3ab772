package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go"
	"github.com/influxdata/influxdb-client-go/api"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/norasector/rtplot/pkg/config"
	"github.com/norasector/rtplot/pkg/figure"
	"github.com/norasector/rtplot/pkg/surface"
	"github.com/norasector/rtplot/pkg/surface/raster"
	"github.com/norasector/rtplot/pkg/surface/web"
	"github.com/norasector/rtplot/pkg/util"
)

const (
	defaultFrameDelay     = 16 * time.Millisecond
	defaultUpdateInterval = 100 * time.Millisecond
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.InfoLevel)
	configFile := flag.String("config", "", "YAML config file")
	demoName := flag.String("demo", "sine", "demo to run: sine, noise, qpsk, spectrum, udp, file")
	debug := flag.Bool("debug", false, "enable debug logging")

	flag.Parse()
	if *debug {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	}

	opts := &config.Config{}
	if *configFile != "" {
		var err error
		opts, err = config.Load(*configFile)
		if err != nil {
			log.Fatal().Err(err).Msg("error loading config file")
		}
	}

	var metrics api.WriteAPI = &util.MockWriteAPI{}
	if opts.InfluxDB.Host != "" {
		client := influxdb2.NewClient(opts.InfluxDB.Host, opts.InfluxDB.Token)
		defer client.Close()
		metrics = client.WriteAPI(opts.InfluxDB.Organization, opts.InfluxDB.Bucket)
		defer metrics.Flush()
		log.Info().Str("host", opts.InfluxDB.Host).Str("bucket", opts.InfluxDB.Bucket).Msg("writing metrics to influxdb")
	}

	var factory surface.Factory
	if opts.OutputPath != "" {
		factory = raster.NewFileFactory(opts.OutputPath, log.Logger)
	} else {
		interval := opts.VizServer.UpdateInterval
		if interval <= 0 {
			interval = defaultUpdateInterval
		}
		factory = web.NewFactory(opts.WebAddr(), interval, log.Logger)
	}

	d, err := newDemo(*demoName, opts, metrics)
	if err != nil {
		log.Fatal().Err(err).Str("demo", *demoName).Msg("failed to set up demo")
	}

	fig, err := opts.Figure.Apply(d.builder).Bind(factory,
		figure.WithLogger(log.Logger),
		figure.WithMetrics(metrics))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open figure")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eg, ctx := errgroup.WithContext(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	eg.Go(func() error {
		select {
		case s := <-sigChan:
			log.Info().Str("signal", s.String()).Msg("closing figure")
			cancel()
		case <-ctx.Done():
		}
		return nil
	})

	if d.start != nil {
		d.start(ctx, eg)
	}

	delay := opts.FrameDelay
	if delay <= 0 {
		delay = defaultFrameDelay
	}
	tick := time.NewTicker(delay)
	defer tick.Stop()

	eg.Go(func() error {
		defer cancel()
		return figure.RunContext(ctx, fig, func(f *figure.Figure) error {
			select {
			case <-ctx.Done():
				return nil
			case <-tick.C:
			}
			return d.frame(f)
		})
	})

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("exited program")
	}
	log.Info().Int("frames", fig.Frames()).Msg("figure closed")
}
