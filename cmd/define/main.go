// Command define prints the stored definitions of a word.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/heartmarshall/wikidefine/internal/app"
	"github.com/heartmarshall/wikidefine/internal/cli"
	"github.com/heartmarshall/wikidefine/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := cli.NewCmdDefine(openLookup).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "define: %v\n", err)
		os.Exit(1)
	}
}

func openLookup(ctx context.Context, configPath string) (cli.Lookuper, func(), error) {
	if configPath == "" {
		configPath = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.LoadFile(configPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.Database.ApplicationName += "-define"
	logger := app.NewLoggerTo(os.Stderr, cfg.Log)

	lk, err := app.OpenLookup(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return lk.Service, lk.Close, nil
}
