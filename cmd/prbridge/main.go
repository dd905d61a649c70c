package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/genflow/prbridge/internal/config"
	"github.com/genflow/prbridge/internal/notion"
	"github.com/genflow/prbridge/internal/processor"
	"github.com/genflow/prbridge/internal/router"
	"github.com/genflow/prbridge/internal/server"
	"github.com/genflow/prbridge/internal/signature"
	"github.com/genflow/prbridge/internal/sysinfo"
	"github.com/genflow/prbridge/internal/taskid"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "version":
		fmt.Printf("prbridge v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: prbridge <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve    Start the webhook bridge")
	fmt.Println("  version  Print version information")
}

func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	// Load .env file if specified or exists
	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Printf("Warning: could not load env file %s: %v", *envFile, err)
		}
	} else {
		// Try default locations
		godotenv.Load(".env")
		godotenv.Load("/etc/prbridge/prbridge.env")
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger, err := buildLogger(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	extractor, err := taskid.NewExtractor(cfg.Notion.TaskIDPrefix)
	if err != nil {
		sugar.Fatalw("invalid task identifier prefix", "error", err)
	}

	store := notion.New(cfg.Notion, sugar)
	policy := signature.Policy{
		Secret:     cfg.GitHub.WebhookSecret,
		Permissive: cfg.Permissive(),
	}
	proc := processor.New(store, extractor, policy, sugar)
	rt := router.New(proc, sysinfo.NewRuntime(), cfg.APIVersion, cfg.Environment)
	srv := server.New(cfg, rt, sugar)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	sugar.Infow("starting prbridge",
		"addr", addr,
		"environment", cfg.Environment,
		"dry_run", cfg.Notion.DryRun,
	)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		sugar.Fatalw("server error", "error", err)
	}
}

func buildLogger(environment string) (*zap.Logger, error) {
	if environment == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
