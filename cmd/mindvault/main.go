package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mindvault/mindvault/internal/config"
	"github.com/mindvault/mindvault/internal/connector"
	"github.com/mindvault/mindvault/internal/db"
	"github.com/mindvault/mindvault/internal/identity"
	"github.com/mindvault/mindvault/internal/llm"
	"github.com/mindvault/mindvault/internal/services"
	"github.com/mindvault/mindvault/internal/tui"
	"github.com/mindvault/mindvault/internal/version"
)

func main() {
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/mindvault/config.json)")
	credPathFlag := flag.String("credentials", "", "Path to OAuth client credentials JSON (default: ~/.config/mindvault/credentials.json)")
	demoFlag := flag.Bool("demo", false, "Run with in-memory storage and demo data")
	setupFlag := flag.Bool("setup", false, "Run interactive setup wizard")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                        # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --demo                 # Try it without any setup\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --setup                # Run interactive setup wizard\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json   # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MINDVAULT_CONFIG       Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  MINDVAULT_CREDENTIALS  Override default credentials file path\n")
		fmt.Fprintf(os.Stderr, "  MINDVAULT_TOKEN        Override default token file path\n\n")
		fmt.Fprintf(os.Stderr, "For all other settings (LLM, identity, storage), edit the config file.\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	if *setupFlag {
		runSetupWizard()
		return
	}

	configPath := getConfigPath(*configPathFlag)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
		cfg = config.DefaultConfig()
	}

	ctx := context.Background()

	// Storage: SQLite by default, in-memory with seeded demo data for --demo
	var (
		threadRepo  services.ThreadRepository
		messageRepo services.MessageRepository
		accountRepo services.AccountRepository
		store       *db.Store
	)
	if *demoFlag || cfg.Storage.Path == "memory" {
		memThreads := services.NewMemoryThreadRepository()
		memMessages := services.NewMemoryMessageRepository()
		memAccounts := services.NewMemoryAccountRepository()
		if err := services.SeedDemoData(ctx, memThreads, memMessages, memAccounts); err != nil {
			log.Printf("Warning: could not seed demo data: %v", err)
		}
		threadRepo, messageRepo, accountRepo = memThreads, memMessages, memAccounts
	} else {
		dbPath := cfg.Storage.Path
		if dbPath == "" {
			dbPath = filepath.Join(config.DefaultDataDir(), "mindvault.sqlite3")
		}
		store, err = db.Open(ctx, dbPath)
		if err != nil {
			log.Fatalf("Could not open database at %s: %v", dbPath, err)
		}
		defer func() { _ = store.Close() }()
		threadRepo = services.NewSQLThreadRepository(store)
		messageRepo = services.NewSQLMessageRepository(store)
		accountRepo = services.NewSQLAccountRepository(store)
	}

	// Identity: remote endpoint when configured, local dev provider otherwise
	var identityProvider identity.Provider
	if cfg.Identity.Endpoint != "" {
		identityProvider = identity.NewClient(cfg.Identity.Endpoint, cfg.GetIdentityTimeout())
	} else {
		identityProvider = identity.NewDevProvider()
	}

	// LLM provider is optional; without one, the app answers with demo replies
	var llmProvider llm.Provider
	if cfg.LLM.Enabled && cfg.LLM.Model != "" {
		providerName := cfg.LLM.Provider
		if providerName == "" {
			providerName = "ollama"
		}

		arg := cfg.LLM.Endpoint
		if providerName == "bedrock" {
			arg = cfg.LLM.Region
			if arg == "" {
				arg = os.Getenv("AWS_REGION")
			}
		}

		llmProvider, err = llm.NewProviderFromConfig(providerName, arg, cfg.LLM.Model, cfg.GetLLMTimeout())
		if err != nil {
			log.Printf("Warning: could not initialize LLM provider (%s): %v", providerName, err)
		}
	}

	// Email connectors; only Gmail ships for now
	credPath := getCredentialsPath(*credPathFlag, cfg.Gmail.Credentials)
	tokenPath := getTokenPath(cfg.Gmail.Token)
	connectors := map[services.Provider]connector.EmailConnector{}
	if credPath != "" {
		if _, err := os.Stat(credPath); err == nil {
			connectors[services.ProviderGmail] = connector.NewGmailConnector(credPath, tokenPath)
		} else {
			log.Printf("Warning: Gmail credentials not found at %s; account linking disabled", credPath)
		}
	}

	threadService := services.NewThreadService(threadRepo, messageRepo)
	svcs := tui.Services{
		Session:     services.NewSessionService(identityProvider),
		Threads:     threadService,
		Messages:    services.NewMessageService(messageRepo, threadRepo, threadService, services.NewAIService(llmProvider, cfg.LLM)),
		Accounts:    services.NewAccountService(accountRepo, connectors),
		Attachments: services.NewAttachmentService(),
	}

	theme := config.NewThemeLoader(config.DefaultThemesDir()).LoadTheme(cfg.Theme)

	app := tui.NewApp(cfg, theme, svcs)
	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// getConfigPath resolves the config file path from flag, environment, then
// the default location
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("MINDVAULT_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}
	return config.DefaultConfigPath()
}

func getCredentialsPath(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("MINDVAULT_CREDENTIALS"); envPath != "" {
		return expandPath(envPath)
	}
	if configValue != "" {
		return expandPath(configValue)
	}
	credPath, _ := config.DefaultCredentialPaths()
	return credPath
}

func getTokenPath(configValue string) string {
	if envPath := os.Getenv("MINDVAULT_TOKEN"); envPath != "" {
		return expandPath(envPath)
	}
	if configValue != "" {
		return expandPath(configValue)
	}
	_, tokenPath := config.DefaultCredentialPaths()
	return tokenPath
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}

// runSetupWizard walks first-time users through configuration
func runSetupWizard() {
	fmt.Println("🧠 MindVault Setup Wizard")
	fmt.Println("=========================")
	fmt.Println()

	defaultConfigPath := config.DefaultConfigPath()
	credPath, tokenPath := config.DefaultCredentialPaths()

	if _, err := os.Stat(defaultConfigPath); err == nil {
		fmt.Printf("✅ Configuration file already exists: %s\n", defaultConfigPath)
	} else {
		fmt.Printf("📝 Will create configuration file: %s\n", defaultConfigPath)
	}

	if _, err := os.Stat(credPath); err == nil {
		fmt.Printf("✅ Gmail credentials file found: %s\n", credPath)
	} else {
		fmt.Printf("⚠️  Gmail credentials file missing: %s\n", credPath)
		fmt.Println()
		fmt.Println("📋 To link Gmail accounts:")
		fmt.Println("1. Go to https://console.cloud.google.com/")
		fmt.Println("2. Create a new project or select an existing one")
		fmt.Println("3. Enable the Gmail API")
		fmt.Println("4. Create OAuth 2.0 credentials (Desktop application)")
		fmt.Println("5. Download the JSON file and save it as:")
		fmt.Printf("   %s\n", credPath)
		fmt.Println()
		fmt.Println("Gmail linking is optional; the chat works without it.")
	}

	if _, err := os.Stat(tokenPath); err == nil {
		fmt.Printf("✅ Token file exists: %s\n", tokenPath)
	} else {
		fmt.Printf("🔐 Token will be created when you link an account: %s\n", tokenPath)
	}

	if _, err := os.Stat(defaultConfigPath); os.IsNotExist(err) {
		fmt.Println()
		fmt.Print("📄 Create default configuration file? [Y/n]: ")

		var response string
		_, _ = fmt.Scanln(&response)

		if response == "" || strings.EqualFold(response, "y") || strings.EqualFold(response, "yes") {
			cfg := config.DefaultConfig()
			if err := cfg.SaveConfig(defaultConfigPath); err != nil {
				fmt.Printf("❌ Failed to create config file: %v\n", err)
				os.Exit(1)
			}
			fmt.Printf("✅ Created configuration file: %s\n", defaultConfigPath)
		}
	}

	fmt.Println()
	fmt.Println("🚀 Setup complete! You can now run:")
	fmt.Printf("   %s\n", os.Args[0])
	fmt.Printf("   %s --demo   # no accounts or AI needed\n", os.Args[0])
}
