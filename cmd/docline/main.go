package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"docline/internal/archive"
	"docline/internal/conversation"
	"docline/internal/extract"
	"docline/internal/journal"
	"docline/internal/line"
	"docline/internal/ocr"
	"docline/internal/session"
	"docline/internal/sheet"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using system environment")
	}

	fs := ff.NewFlagSet("docline")
	var (
		port           = fs.IntLong("port", 3000, "HTTP server port")
		lineToken      = fs.StringLong("line-token", "", "LINE channel access token")
		lineAPIURL     = fs.StringLong("line-api-url", "https://api.line.me", "LINE messaging API base URL")
		lineDataURL    = fs.StringLong("line-data-url", "https://api-data.line.me", "LINE content API base URL")
		sheetURL       = fs.StringLong("sheet-url", "", "Google Apps Script web app URL")
		recognizerType = fs.StringLong("recognizer", "ocrspace", "Recognizer type: 'ocrspace', 'gemini' or 'ollama'")
		ocrspaceKey    = fs.StringLong("ocrspace-key", "", "OCR.space API key")
		ocrLanguage    = fs.StringLong("ocr-language", "tha", "OCR.space language code")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name")
		sessionTimeout = fs.DurationLong("session-timeout", conversation.DefaultConfig().SessionTimeout, "Inactivity timeout for non-idle sessions")
		searchTimeout  = fs.DurationLong("search-timeout", conversation.DefaultConfig().SearchTimeout, "Timeout for the search flow")
		maxImages      = fs.IntLong("max-images", conversation.DefaultConfig().MaxImages, "Images collected per upload batch")
		journalPath    = fs.StringLong("journal", "docline-journal.db", "Failure journal database path")
		archivePath    = fs.StringLong("archive", "./media", "Media archive directory path")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username for admin endpoints (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password for admin endpoints (optional)")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCLINE"),
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

	if *lineToken == "" {
		slog.Error("LINE channel access token is required. Set --line-token flag or DOCLINE_LINE_TOKEN environment variable")
		os.Exit(1)
	}
	if *sheetURL == "" {
		slog.Error("Sheet URL is required. Set --sheet-url flag or DOCLINE_SHEET_URL environment variable")
		os.Exit(1)
	}

	// Initialize failure journal
	slog.Info("Initializing failure journal...")
	fj, err := journal.NewBolt(*journalPath)
	if err != nil {
		slog.Error("Failed to initialize journal", "error", err)
		os.Exit(1)
	}
	defer fj.Close()

	// Initialize recognizer based on type
	var recognizer ocr.Recognizer
	switch *recognizerType {
	case "ocrspace":
		if *ocrspaceKey == "" {
			slog.Error("OCR.space API key is required. Set --ocrspace-key flag or DOCLINE_OCRSPACE_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing OCR.space recognizer...", "language", *ocrLanguage)
		recognizer, err = ocr.NewOCRSpace(*ocrspaceKey, *ocrLanguage)
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
	case "ollama":
		slog.Info("Initializing Ollama recognizer...", "url", *ollamaURL, "model", *ollamaModel)
		recognizer, err = ocr.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid recognizer type", "type", *recognizerType, "valid", "ocrspace, gemini or ollama")
		os.Exit(1)
	}
	defer recognizer.Close()

	// Initialize media archive
	slog.Info("Initializing media archive...")
	store, err := archive.NewLocal(*archivePath)
	if err != nil {
		slog.Error("Failed to initialize archive", "error", err)
		os.Exit(1)
	}

	client := line.NewClientWithURLs(*lineToken, *lineAPIURL, *lineDataURL, &http.Client{Timeout: 15 * time.Second})
	records := sheet.NewClient(*sheetURL)
	sessions := session.NewRepository()

	machine := conversation.NewMachine(
		sessions,
		extract.NewEngine(nil),
		client,
		recognizer,
		store,
		records,
		systemClock{},
		conversation.Config{
			SessionTimeout: *sessionTimeout,
			SearchTimeout:  *searchTimeout,
			MaxImages:      *maxImages,
		},
	)

	basicAuth := line.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := line.NewServer(machine, client, fj, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Webhook server started", "address", fmt.Sprintf("http://localhost%s/webhook", addr), "recognizer", *recognizerType)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled for admin endpoints", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
