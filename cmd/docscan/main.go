package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"docscan/internal/ocr"
	"docscan/internal/odoo"
	"docscan/internal/scan"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Load .env if present; flags and real env vars still win
	if err := godotenv.Load(); err == nil {
		slog.Info("Loaded configuration from .env")
	}

	fs := ff.NewFlagSet("docscan")
	var (
		port             = fs.IntLong("port", 8080, "HTTP server port")
		dbPath           = fs.StringLong("db", "docscan.db", "Database file path")
		storagePath      = fs.StringLong("storage", "./scans", "Storage directory path")
		ocrProvider      = fs.StringLong("ocr", "ocrspace", "OCR provider: 'ocrspace' or 'gemini'")
		ocrspaceEndpoint = fs.StringLong("ocrspace-endpoint", "", "OCR.space API endpoint (default https://api.ocr.space/parse/image)")
		ocrspaceKey      = fs.StringLong("ocrspace-key", "", "OCR.space API key (or set OCRSPACE_API_KEY env var)")
		ocrspaceEngine   = fs.IntLong("ocrspace-engine", 2, "OCR.space engine number")
		geminiKey        = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel      = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		odooURL          = fs.StringLong("odoo-url", "", "Odoo backend base URL (required)")
		authUser         = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass         = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion      = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCSCAN"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	if *odooURL == "" {
		slog.Error("Odoo backend URL is required. Set --odoo-url flag or DOCSCAN_ODOO_URL environment variable")
		os.Exit(1)
	}

	// Initialize database
	slog.Info("Initializing database...")
	db, err := scan.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize OCR provider
	var recognizer ocr.Recognizer
	switch *ocrProvider {
	case "ocrspace":
		apiKey := *ocrspaceKey
		if apiKey == "" {
			apiKey = os.Getenv("OCRSPACE_API_KEY")
		}
		slog.Info("Initializing OCR.space recognizer...", "engine", *ocrspaceEngine)
		recognizer, err = ocr.NewOCRSpace(*ocrspaceEndpoint, apiKey, *ocrspaceEngine)
		if err != nil {
			slog.Error("Failed to initialize OCR.space", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini recognizer...", "model", *geminiModel)
		recognizer, err = ocr.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid OCR provider", "provider", *ocrProvider, "valid", "ocrspace or gemini")
		os.Exit(1)
	}
	defer recognizer.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := scan.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize backend client and service
	backend := odoo.NewClient(*odooURL)
	scanService := scan.NewService(db, recognizer, backend, store)

	// Initialize server
	basicAuth := scan.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := scan.NewServer(scanService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "backend", *odooURL)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
