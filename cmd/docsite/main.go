package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/phpnomad/documentation/cmd/docsite/commands"
	derrors "github.com/phpnomad/documentation/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cli commands.CLI
	globals := &commands.Global{Context: ctx, Stdout: os.Stdout, Stderr: os.Stderr}

	parser, err := commands.NewParser(&cli, globals)
	if err != nil {
		panic(err)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := kctx.Run(globals, &cli); err != nil {
		stop()
		derrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
