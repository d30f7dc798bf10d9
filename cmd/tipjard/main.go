package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/iov-one/tipjar/cmd/tipjard/app"
	"github.com/iov-one/tipjar/commands/server"
	"github.com/iov-one/tipjar/eventsink"
	"github.com/iov-one/tipjar/weave"
	"github.com/tendermint/tendermint/libs/log"
)

func helpMessage() {
	fmt.Println("tipjard")
	fmt.Println("         Tip jar ABCI application")
	fmt.Println("")
	fmt.Println("help     Print this message")
	fmt.Println("init     Initialize app options in genesis file")
	fmt.Println("start    Run the abci server")
	fmt.Println("validate Validate the app state of genesis files")
	fmt.Println("getblock Extract a block from blockstore.db")
	fmt.Println("retry    Run last block again to ensure it produces same result")
	fmt.Println("version  Print the app version")
	fmt.Println(`
  -home string
        directory to store files under (default "$HOME/.tipjard", TIPJAR_HOME)
  -log-level string
        debug, info, error or none (default "info", TIPJAR_LOG_LEVEL)
  -event-sink string
        where events are published: none, kafka or amqp (TIPJAR_EVENT_SINK)`)
}

func main() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, args, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(args) == 0 {
		fmt.Println("Missing command:")
		helpMessage()
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cmd := args[0]
	rest := args[1:]

	switch cmd {
	case "help":
		helpMessage()
	case "init":
		err = server.InitCmd(app.GenInitOptions, logger, cfg.Home, rest)
	case "start":
		err = start(cfg, logger, rest)
	case "validate":
		err = server.ValidateGenesis(app.Initializers(), validatePaths(cfg, rest))
	case "getblock":
		err = server.GetBlockCmd(rest)
	case "retry":
		err = server.RetryCmd(app.InlineApp, logger, rest)
	case "version":
		fmt.Println(weave.Version())
	default:
		fmt.Printf("Unknown command: %s\n", cmd)
		helpMessage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Error: %+v\n\n", err)
		os.Exit(1)
	}
}

func newLogger(level string) (log.Logger, error) {
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, opt).With("module", "tipjar"), nil
}

// validatePaths defaults to the genesis file of the home directory.
func validatePaths(cfg config, args []string) []string {
	if len(args) == 0 {
		return []string{server.GenesisPath(cfg.Home)}
	}
	return args
}

// start runs the ABCI server until SIGINT or SIGTERM. When an event sink is
// configured, events of every block are stored in the outbox and forwarded
// to the broker in the background.
func start(cfg config, logger log.Logger, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.EventSink == sinkNone {
		return server.StartCmd(ctx, app.NewAppGenerator(nil), logger, cfg.Home, args)
	}

	outbox, err := eventsink.Open(cfg.Outbox)
	if err != nil {
		return err
	}
	defer outbox.Close()

	pub, closePub, err := cfg.publisher()
	if err != nil {
		return err
	}
	defer func() {
		if err := closePub(); err != nil {
			logger.Error("cannot close publisher", "err", err)
		}
	}()

	logger.Info("Forwarding events", "sink", cfg.EventSink, "outbox", cfg.Outbox)
	fwd := eventsink.NewForwarder(outbox, pub, cfg.ForwardInterval, logger)
	return server.StartCmd(ctx, app.NewAppGenerator(outbox), logger, cfg.Home, args, fwd.Run)
}
