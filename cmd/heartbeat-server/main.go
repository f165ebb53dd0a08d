package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pulseboard/heartbeat/internal/auth"
	"github.com/pulseboard/heartbeat/internal/logx"
	"github.com/pulseboard/heartbeat/internal/server"
	"github.com/pulseboard/heartbeat/internal/server/db"
	"github.com/pulseboard/heartbeat/internal/version"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	verbose := flag.Bool("verbose", false, "Enable verbose debug logs (same as --log-level debug)")
	logLevel := flag.String("log-level", "", "Log level: debug|info|warn|error (or HEARTBEAT_LOG_LEVEL)")
	flag.BoolVar(showVersion, "v", false, "Print version and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.String("heartbeat-server"))
		fmt.Fprintf(os.Stderr, "Heartbeat server records presence signals into a per-day ledger and serves the calendar API.\n\n")
		fmt.Fprintf(os.Stderr, "Environment variables:\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_DB_PATH           SQLite database path (default: heartbeat.db)\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_LISTEN_ADDR       Listen address (default: :8080)\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_REQUIRE_AUTH      Require id/secret on query and edit operations (default: true)\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_GOOGLE_CLIENT_ID  OAuth client id accepted by the identity exchange\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_EMAIL_REGEX       Accepted email pattern for identity binding\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_CORS_ORIGINS      Comma-separated allowed CORS origins\n")
		fmt.Fprintf(os.Stderr, "  HEARTBEAT_LOG_LEVEL         Log level: debug|info|warn|error (default: info)\n")
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("heartbeat-server"))
		os.Exit(0)
	}

	if err := logx.Configure(*logLevel, *verbose); err != nil {
		log.Fatalf("configure logging: %v", err)
	}

	cfg, err := server.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	store, err := db.NewStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer store.Close()

	verifier, err := auth.NewGoogleVerifier(context.Background())
	if err != nil {
		log.Fatalf("create token verifier: %v", err)
	}
	authn := auth.New(auth.Config{
		RequireAuth:  cfg.RequireAuth,
		ClientID:     cfg.GoogleClientID,
		EmailPattern: cfg.EmailPattern,
	}, store, verifier)

	r := server.NewRouter(store, cfg, authn)
	logx.Infof("server config: require_auth=%v db=%s", cfg.RequireAuth, cfg.DBPath)

	log.Printf("heartbeat-server listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
