package server

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/custody/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind      = "bind"
	flagDebug     = "debug"
	flagLogLevel  = "log_level"
	flagCacheSize = "cache_size"
	flagMetrics   = "metrics"
)

// parseFlags overrides the values of conf with the flags given in args.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	startFlags.StringVar(&conf.LogLevel, flagLogLevel, conf.LogLevel, "one of debug, info, error, none")
	startFlags.IntVar(&conf.CacheSize, flagCacheSize, conf.CacheSize, "state tree nodes kept in memory")
	startFlags.StringVar(&conf.MetricsAddr, flagMetrics, conf.MetricsAddr, "address prometheus metrics are served on")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// Options are passed to the application generator.
type Options struct {
	Home      string
	Logger    log.Logger
	Debug     bool
	CacheSize int
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(*Options) (abci.Application, error)

// StartCmd initializes the application and serves it over an ABCI socket
// until the process receives an interrupt.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := LoadConfig(home)
	if err != nil {
		return err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return err
	}
	logger, err = filterLogger(logger, conf.LogLevel)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(&Options{
		Home:      home,
		Logger:    logger,
		Debug:     conf.Debug,
		CacheSize: conf.CacheSize,
	})
	if err != nil {
		return err
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)
	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrap(err, "create listener")
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrap(err, "start server")
	}

	if conf.MetricsAddr != "" {
		metrics := serveMetrics(conf.MetricsAddr, logger)
		defer metrics.Close()
	}

	// Wait for a signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	s := <-sig
	logger.Info("Shutting down", "signal", s.String())
	return svr.Stop()
}

func filterLogger(logger log.Logger, level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

// serveMetrics exposes the default prometheus registry under /metrics.
func serveMetrics(addr string, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Info("Serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server", "err", err)
		}
	}()
	return srv
}
