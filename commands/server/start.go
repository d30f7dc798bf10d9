package server

import (
	"context"
	"flag"
	"os"
	"strconv"

	"github.com/iov-one/tipjar/errors"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

const (
	flagBind  = "bind"
	flagDebug = "debug"

	// DefaultBind is the address tendermint connects to by default.
	DefaultBind = "tcp://localhost:26658"
)

// StartFlags configures the ABCI server.
type StartFlags struct {
	Bind  string
	Debug bool
}

// ParseStartFlags reads the start command flags. Defaults are taken from the
// TIPJAR_BIND and TIPJAR_DEBUG environment variables when set.
func ParseStartFlags(args []string) (StartFlags, error) {
	var res StartFlags
	debug, _ := strconv.ParseBool(os.Getenv("TIPJAR_DEBUG"))

	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&res.Bind, flagBind, envOr("TIPJAR_BIND", DefaultBind), "address server listens on")
	startFlags.BoolVar(&res.Debug, flagDebug, debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return res, errors.Wrap(errors.ErrInput, err.Error())
	}
	return res, nil
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags
type AppGenerator func(home string, logger log.Logger, debug bool) (abci.Application, error)

// Worker is a long running process started together with the ABCI server.
// It must return when the context is cancelled.
type Worker func(ctx context.Context) error

// StartCmd initializes the application and serves it until the context is
// cancelled or any of the workers fails.
func StartCmd(ctx context.Context, gen AppGenerator, logger log.Logger, home string, args []string, workers ...Worker) error {
	flags, err := ParseStartFlags(args)
	if err != nil {
		return err
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, flags.Debug)
	if err != nil {
		return errors.Wrap(err, "cannot create application")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return Serve(ctx, flags.Bind, app, logger)
	})
	for _, w := range workers {
		w := w
		g.Go(func() error { return w(ctx) })
	}
	return g.Wait()
}

// Serve runs an ABCI socket server for given application until the context
// is cancelled.
func Serve(ctx context.Context, addr string, app abci.Application, logger log.Logger) error {
	svr, err := server.NewServer(addr, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))

	logger.Info("Starting ABCI app", "bind", addr)
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot start server: %s", err)
	}

	<-ctx.Done()
	logger.Info("Stopping ABCI app")
	if err := svr.Stop(); err != nil {
		return errors.Wrapf(errors.ErrState, "cannot stop server: %s", err)
	}
	return nil
}
