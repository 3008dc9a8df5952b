package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nocfacilities/plantao-calendar/internal/app"
	"github.com/nocfacilities/plantao-calendar/internal/commands"
	"github.com/nocfacilities/plantao-calendar/internal/session"
	"github.com/nocfacilities/plantao-calendar/internal/sharelink"
	"github.com/nocfacilities/plantao-calendar/internal/source"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

//go:embed static/edit.html
var editHTML []byte

func main() {
	// Subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "share-link":
			_ = godotenv.Load()
			commands.ShareLink(os.Args[2:])
			return
		}
	}

	// A local .env is optional.
	_ = godotenv.Load()
	cfg := app.ConfigFromEnv()

	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flag.BoolVar(&cfg.EditMode, "edit", false, "Enable edit mode (default is serve mode)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Data directory with the month JSON files")
	flag.Parse()

	zl, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := zl.Sugar()
	app.SetLogger(log)

	app.IndexHTML = indexHTML
	app.EditHTML = editHTML

	if cfg.EditMode {
		if err := app.LoadAuthCredentials(cfg.AuthFile); err != nil {
			log.Fatalw("failed to load auth credentials", "error", err)
		}
	}
	if cfg.LinkSecret == "" {
		log.Warnw("⚠️  LINK_SECRET not set — share links cannot be resolved")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := source.New(cfg.DataDir, cfg.EditMode, log)
	store.LoadAnnotations()
	if err := store.Watch(ctx); err != nil {
		log.Warnw("file watcher unavailable", "error", err)
	}

	sess := session.New(store, log)
	defer sess.Stop()

	now := time.Now()
	if err := sess.Start(ctx, now.Year(), now.Month()); err != nil {
		log.Fatalw("failed to load calendar data", "error", err)
	}

	// A share link baked into the deployment locks the whole kiosk.
	if token := os.Getenv("SHARE_LINK"); token != "" {
		seedShareLink(sess, cfg.LinkSecret, token, log)
	}

	server := app.NewServer(cfg, store, sess)
	mux := http.NewServeMux()
	mux.Handle("/", server.Router())
	mux.Handle("/static/", http.FileServer(http.FS(staticFiles)))

	mode := "serve"
	if cfg.EditMode {
		mode = "edit"
	}
	log.Infof("Starting Plantão Calendar in %s mode on http://localhost:%d", mode, cfg.Port)
	log.Infof("Data directory: %s", cfg.DataDir)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), mux); err != nil {
		log.Fatal(err)
	}
}

func seedShareLink(sess *session.Session, secret, token string, log *zap.SugaredLogger) {
	company, err := sharelink.Open(secret, token, time.Now())
	if err != nil {
		log.Warnw("ignoring invalid SHARE_LINK", "error", err)
		return
	}
	sess.LockCompany(company)
	log.Infow("session locked to company from share link", "company", company)
}
