// Command ingest loads a Wiktionary pages-articles dump into the
// definitions store. It is run offline, separately from the server.
//
// Flags:
//
//	--phase          comma-separated list of phases to run (default: all)
//	--dry-run        parse the dump without writing to DB
//	--dump           path to the dump (.xml or .xml.bz2), overrides config
//	--workers        parser goroutines, 0 = one per CPU, overrides config
//	--ingest-config  path to ingest YAML config file
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/heartmarshall/wikidefine/internal/adapter/postgres"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/source"
	"github.com/heartmarshall/wikidefine/internal/adapter/postgres/word"
	"github.com/heartmarshall/wikidefine/internal/app"
	"github.com/heartmarshall/wikidefine/internal/app/ingest"
	"github.com/heartmarshall/wikidefine/internal/config"
	"github.com/heartmarshall/wikidefine/internal/vocab"
)

var (
	_ ingest.WordRepo   = (*word.Repo)(nil)
	_ ingest.SourceRepo = (*source.Repo)(nil)
	_ ingest.TxManager  = (*postgres.TxManager)(nil)
)

func main() {
	phaseFlag := flag.String("phase", "", "comma-separated phases to run (default: all)")
	dryRunFlag := flag.Bool("dry-run", false, "parse the dump without writing to DB")
	dumpFlag := flag.String("dump", "", "path to the dump file (.xml or .xml.bz2)")
	workersFlag := flag.Int("workers", -1, "parser goroutines, 0 = one per CPU")
	ingestConfigFlag := flag.String("ingest-config", "", "path to ingest YAML config file")
	flag.Parse()

	appCfg, err := config.Load()
	if err != nil {
		log.Fatalf("load app config: %v", err)
	}

	logger := app.NewLogger(appCfg.Log)

	cfg, err := ingest.LoadConfig(*ingestConfigFlag)
	if err != nil {
		logger.Error("load ingest config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// CLI flags override config.
	if *dryRunFlag {
		cfg.DryRun = true
	}
	if *dumpFlag != "" {
		cfg.DumpPath = *dumpFlag
	}
	if *workersFlag >= 0 {
		cfg.Workers = *workersFlag
	}
	if cfg.DumpPath == "" {
		logger.Error("no dump given: pass --dump or set INGEST_DUMP_PATH")
		os.Exit(1)
	}

	var phases []string
	if *phaseFlag != "" {
		phases = strings.Split(*phaseFlag, ",")
		for i := range phases {
			phases[i] = strings.TrimSpace(phases[i])
		}
	}

	voc, err := vocab.Load(appCfg.Vocabulary.Path)
	if err != nil {
		logger.Error("load vocabulary", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg.Database.ApplicationName += "-ingest"
	pool, err := postgres.NewPool(ctx, appCfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	if !appCfg.Database.SkipMigrate {
		if err := postgres.Migrate(ctx, pool, logger); err != nil {
			logger.Error("migrate", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	pipeline := ingest.NewPipeline(
		logger,
		word.New(pool),
		source.New(pool),
		postgres.NewTxManager(pool),
		voc.Headings,
		ingest.OpenDump,
		*cfg,
	)
	if err := pipeline.Run(ctx, phases); err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if pipeline.HasErrors() {
		logger.Warn("pipeline completed with errors")
		os.Exit(1)
	}

	logger.Info("pipeline completed successfully")
}
