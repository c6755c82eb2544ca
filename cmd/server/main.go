package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	commentarymem "farmhand/internal/adapter/commentary/memory"
	httpadapter "farmhand/internal/adapter/http"
	metricsinmem "farmhand/internal/adapter/metrics/inmemory"
	gormrepo "farmhand/internal/adapter/repo/gorm"
	memrepo "farmhand/internal/adapter/repo/memory"
	"farmhand/internal/app/planner"
	"farmhand/internal/app/ports"
	"farmhand/internal/app/resolve"
	"farmhand/internal/app/session"
	"farmhand/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app/server"
)

func main() {
	tuning := mustLoadTuning()
	plans, notes, progress, events, txManager := buildRepos()
	kpiRecorder := metricsinmem.NewRecorder()
	sink := commentarymem.NewSink(intEnv("FARMHAND_COMMENTARY_BUFFER", 256))

	plannerUC := planner.UseCase{
		Resolver: resolve.Resolver{Tuning: tuning},
		Plans:    plans,
		Notes:    notes,
		Tx:       txManager,
		Now:      time.Now,
	}
	sessionUC := &session.UseCase{
		Planner:  plannerUC,
		Progress: progress,
		Events:   events,
		Sink:     sink,
		Metrics:  kpiRecorder,
		Tuning:   tuning,
		Now:      time.Now,
	}

	h := httpadapter.Handler{
		PlannerUC: plannerUC,
		SessionUC: sessionUC,
		Notes:     notes,
		Plans:     plans,
		KPI:       kpiRecorder,
	}

	addr := strings.TrimSpace(os.Getenv("FARMHAND_LISTEN_ADDR"))
	if addr == "" {
		addr = ":8080"
	}
	s := server.Default(server.WithHostPorts(addr))
	h.RegisterRoutes(s)

	log.Printf("farmhand server listening on %s", addr)
	s.Spin()
}

func mustLoadTuning() farm.Tuning {
	path := strings.TrimSpace(os.Getenv("FARMHAND_TUNING_PATH"))
	if path == "" {
		return farm.DefaultTuning()
	}
	tuning, err := farm.LoadTuning(path)
	if err != nil {
		log.Fatalf("load tuning %s: %v", path, err)
	}
	return tuning
}

// buildRepos wires postgres when FARMHAND_DB_DSN is set and falls back
// to the in-memory store otherwise, so the server runs without a
// database for local play.
func buildRepos() (ports.PlanRepository, ports.NoteRepository, ports.ProgressRepository, ports.EventRepository, ports.TxManager) {
	dsn := strings.TrimSpace(os.Getenv("FARMHAND_DB_DSN"))
	if dsn == "" {
		log.Println("FARMHAND_DB_DSN not set, using in-memory repositories")
		store := memrepo.NewStore()
		return memrepo.NewPlanRepo(store), memrepo.NewNoteRepo(store), memrepo.NewProgressRepo(store), memrepo.NewEventRepo(store), memrepo.NewTxManager(store)
	}

	db, err := gormrepo.OpenPostgres(dsn)
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}
	migrationsDir := strings.TrimSpace(os.Getenv("FARMHAND_MIGRATIONS_DIR"))
	if migrationsDir == "" {
		migrationsDir = "./migrations"
	}
	if err := gormrepo.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	return gormrepo.NewPlanRepo(db), gormrepo.NewNoteRepo(db), gormrepo.NewProgressRepo(db), gormrepo.NewEventRepo(db), gormrepo.NewTxManager(db)
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
