// Command prompter manages stored prompts from the command line using the
// adapter selected by the service configuration.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/JaimeStill/prompter/internal/adapters"
	"github.com/JaimeStill/prompter/internal/config"
	"github.com/JaimeStill/prompter/internal/infrastructure"
	"github.com/JaimeStill/prompter/internal/prompts"
)

const usage = `usage: prompter <command> [flags] [args]

commands:
  get ID                          print a prompt with its keywords and missing parameters
  render [-p KEY=VALUE]... ID     print the interpolated text
  create [-text T] [-p KEY=VALUE]... ID
                                  store a prompt, replacing any existing one
  update [-text T] [-p KEY=VALUE]... ID
                                  change the text or parameters of a stored prompt
  delete ID                       remove a stored prompt
  search QUERY                    print the ids of prompts whose text contains QUERY
  list                            print every stored id
  import FILE                     store every prompt in a YAML bundle
  export [FILE]                   write every stored prompt as a YAML bundle

KEY may be given with or without brackets: -p NAME=Ada sets [NAME].`

var errUsage = errors.New(usage)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return err
	}

	if err := infra.Start(); err != nil {
		return err
	}
	defer func() {
		if err := infra.Lifecycle.Shutdown(cfg.ShutdownTimeoutDuration()); err != nil {
			infra.Logger.Error("shutdown failed", "error", err)
		}
	}()

	if err := infra.Lifecycle.WaitForStartup(); err != nil {
		return err
	}

	adapter, err := adapters.New(ctx, cfg, infra)
	if err != nil {
		return err
	}

	return execute(ctx, prompts.NewManager(adapter, infra.Logger), args, out)
}
