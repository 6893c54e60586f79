package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"skillforge.ai/internal/persistence/libstore"
	persistlog "skillforge.ai/internal/persistence/log"
	"skillforge.ai/internal/protocol"
	"skillforge.ai/internal/skill/catalog"
	"skillforge.ai/internal/skill/roster"
	"skillforge.ai/internal/sim/arena"
	"skillforge.ai/internal/sim/tuning"
	"skillforge.ai/internal/transport/ws"
)

type eventSink struct {
	logger   *log.Logger
	outcomes *persistlog.OutcomeLogger
	consols  *persistlog.ConsolidationLogger
	server   *ws.Server
}

func (s *eventSink) Outcome(ev protocol.OutcomeEventMsg) {
	if err := s.outcomes.WriteOutcome(ev); err != nil {
		s.logger.Printf("outcome log: %v", err)
	}
	s.server.Broadcast(ev)
}

func (s *eventSink) Consolidation(ev protocol.ConsolidationEventMsg) {
	if err := s.consols.WriteConsolidation(ev); err != nil {
		s.logger.Printf("consolidation log: %v", err)
	}
	s.server.Broadcast(ev)
}

func main() {
	var (
		addr       = flag.String("addr", ":8080", "http listen address")
		arenaID    = flag.String("arena", "arena_1", "arena id")
		configDir  = flag.String("configs", "./configs", "config directory")
		schemaDir  = flag.String("schemas", "./schemas", "schema directory")
		dataDir    = flag.String("data", "./data", "runtime data directory")
		tuningPath = flag.String("tuning", "", "path to tuning.yaml (default: <configs>/tuning.yaml)")
		actors     = flag.Int("actors", 60, "roster size for a fresh arena")
		resume     = flag.Bool("resume", true, "resume from the stored snapshot if present")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[arenad] ", log.LstdFlags|log.Lmicroseconds)

	cat, err := catalog.Load(*configDir, *schemaDir)
	if err != nil {
		logger.Fatalf("load catalog: %v", err)
	}
	logger.Printf("catalog loaded: %d chunks, digest %s", len(cat.Order), cat.Digest[:12])

	tp := strings.TrimSpace(*tuningPath)
	if tp == "" {
		tp = filepath.Join(*configDir, "tuning.yaml")
	}
	tune, err := tuning.Load(tp)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Printf("tuning not found (%s); using defaults", tp)
			tune = tuning.Defaults()
		} else {
			logger.Fatalf("load tuning: %v", err)
		}
	}

	arenaDir := filepath.Join(*dataDir, "arenas", *arenaID)
	store, err := libstore.Open(filepath.Join(arenaDir, "roster.db"))
	if err != nil {
		logger.Fatalf("open roster store: %v", err)
	}
	defer store.Close()

	var (
		ros       *roster.Roster
		startTick uint64
	)
	if *resume {
		ros, startTick, err = store.Load(cat.Digest)
		switch {
		case err == nil:
			logger.Printf("resumed %d actors at tick %d", ros.Len(), startTick)
		case errors.Is(err, sql.ErrNoRows):
			ros = nil
		default:
			logger.Fatalf("load snapshot: %v", err)
		}
	}
	if ros == nil {
		ros = roster.New()
		if err := arena.SeedRoster(ros, *actors, 0); err != nil {
			logger.Fatalf("seed roster: %v", err)
		}
		logger.Printf("seeded fresh roster of %d actors", ros.Len())
	}

	a := arena.New(arena.Config{ID: *arenaID}, cat, tune, ros, nil)
	a.SetTick(startTick)

	outcomes := persistlog.NewOutcomeLogger(arenaDir)
	defer outcomes.Close()
	consols := persistlog.NewConsolidationLogger(arenaDir)
	defer consols.Close()

	server := ws.NewServer(a, logger)
	a.SetSink(&eventSink{logger: logger, outcomes: outcomes, consols: consols, server: server})

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/observe", server.Handler())
	httpSrv := &http.Server{Addr: *addr, Handler: mux}
	go func() {
		logger.Printf("listening on %s", *addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = a.Run(ctx, func(tick uint64) {
		if tune.SnapshotEveryTicks > 0 && tick%uint64(tune.SnapshotEveryTicks) == 0 {
			if err := store.Save(ros, tick, cat.Digest); err != nil {
				logger.Printf("snapshot: %v", err)
			} else {
				logger.Printf("snapshot at tick %d", tick)
			}
		}
	})

	logger.Printf("shutting down at tick %d", a.Tick())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(shutdownCtx)
	// Flush pending experience before the final snapshot; the store does not
	// persist unconsolidated practice.
	a.Consolidate()
	if err := store.Save(ros, a.Tick(), cat.Digest); err != nil {
		logger.Printf("final snapshot: %v", err)
	}
}
