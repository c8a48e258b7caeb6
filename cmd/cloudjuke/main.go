// Package main provides the CloudJuke CLI application entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"cloudjuke/internal/card"
	"cloudjuke/internal/catalog"
	"cloudjuke/internal/chat"
	"cloudjuke/internal/chat/onebot"
	"cloudjuke/internal/core"
	"cloudjuke/internal/flood"
	httpserver "cloudjuke/internal/http"
	"cloudjuke/internal/i18n"
	"cloudjuke/internal/render"
	"cloudjuke/internal/store"
)

const (
	defaultServerHost = "0.0.0.0"
)

var (
	cfgFile  string
	config   *core.Config
	logger   *zap.Logger
	defaults = core.DefaultConfig()
)

var rootCmd = &cobra.Command{
	Use:   "cloudjuke",
	Short: "CloudJuke - NetEase Cloud Music tools for chat agents",
	Long: `CloudJuke exposes NetEase Cloud Music search and playback as HTTP tool
endpoints for chat agents, delivering songs into QQ chats through a OneBot v11
host as native shares, signed music cards or a plain text/cover/voice bundle.`,
	RunE: runCloudJuke,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file with flag-named keys (watched for hot reload)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("cookie", "", "NetEase Cloud Music cookie (needs MUSIC_U and __csrf)")
	rootCmd.PersistentFlags().String("catalog-base-url", defaults.Catalog.BaseURL, "Catalog API origin")
	rootCmd.PersistentFlags().Int("max-results", defaults.Catalog.MaxResults, "Maximum search results (1-20)")
	rootCmd.PersistentFlags().Int("http-timeout-secs", defaults.Catalog.TimeoutSecs, "Catalog and delivery timeout in seconds (5-60)")
	rootCmd.PersistentFlags().String("background-url", defaults.Image.BackgroundURL, "Search list background image URL")
	rootCmd.PersistentFlags().String("font-path", defaults.Image.FontPath, "CJK font file for list rendering")
	rootCmd.PersistentFlags().String("default-cover-url", defaults.Image.DefaultCoverURL, "Cover URL for songs without one")
	rootCmd.PersistentFlags().Bool("enable-list-image", defaults.Image.EnableList, "Render search results as an image")
	rootCmd.PersistentFlags().Bool("enable-card", defaults.Card.Enable, "Deliver songs as signed music cards")
	rootCmd.PersistentFlags().Bool("prefer-native-share", defaults.Card.PreferNativeShare, "Try the host's native music share first")
	rootCmd.PersistentFlags().String("card-api-url", defaults.Card.APIURL, "Card signing service URL")
	rootCmd.PersistentFlags().Int("cover-size", defaults.Card.CoverSize, "Cover size in pixels (0-1000, 0 disables covers)")
	rootCmd.PersistentFlags().String("onebot-api-url", defaults.OneBot.APIURL, "OneBot v11 HTTP API URL")
	rootCmd.PersistentFlags().String("onebot-access-token", "", "OneBot HTTP API access token")
	rootCmd.PersistentFlags().Int("flood-limit-per-minute", defaults.Flood.PlaysPerMinute, "Maximum deliveries per chat per minute (0 disables)")
	rootCmd.PersistentFlags().Int("cache-size", defaults.Cache.Size, "Track detail cache entries")
	rootCmd.PersistentFlags().Int("cache-ttl-secs", defaults.Cache.TTLSecs, "Track detail cache TTL in seconds")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")
	rootCmd.PersistentFlags().String("language", i18n.DefaultLanguage, fmt.Sprintf("Reply language (%s)", supportedLangs))
	rootCmd.PersistentFlags().String("server-host", defaultServerHost, "HTTP server host")
	rootCmd.PersistentFlags().Int("server-port", defaults.Server.Port, "HTTP server port")
	rootCmd.PersistentFlags().Bool("generate-env-example", false, "Generate .env.example file from current configuration and exit")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	// .env feeds AutomaticEnv below; a missing file is fine.
	if err := gotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}

	viper.SetEnvPrefix("CLOUDJUKE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("cloudjuke")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	configureCatalog(cfg)
	configureImage(cfg)
	configureCard(cfg)
	configureOneBot(cfg)
	configureLimits(cfg)
	configureServer(cfg)
	configureApp(cfg)

	return cfg
}

func configureCatalog(cfg *core.Config) {
	cfg.Catalog.Cookie = viper.GetString("cookie")
	cfg.Catalog.BaseURL = viper.GetString("catalog-base-url")
	if cfg.Catalog.BaseURL == "" {
		cfg.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	cfg.Catalog.MaxResults = clampInt("max-results", viper.GetInt("max-results"), 1, 20)
	cfg.Catalog.TimeoutSecs = clampInt("http-timeout-secs", viper.GetInt("http-timeout-secs"), 5, 60)
}

func configureImage(cfg *core.Config) {
	cfg.Image.BackgroundURL = viper.GetString("background-url")
	cfg.Image.FontPath = viper.GetString("font-path")
	cfg.Image.DefaultCoverURL = viper.GetString("default-cover-url")
	cfg.Image.EnableList = viper.GetBool("enable-list-image")
}

func configureCard(cfg *core.Config) {
	cfg.Card.Enable = viper.GetBool("enable-card")
	cfg.Card.PreferNativeShare = viper.GetBool("prefer-native-share")
	cfg.Card.APIURL = viper.GetString("card-api-url")
	cfg.Card.CoverSize = clampInt("cover-size", viper.GetInt("cover-size"), 0, 1000)
}

func configureOneBot(cfg *core.Config) {
	cfg.OneBot.APIURL = viper.GetString("onebot-api-url")
	cfg.OneBot.AccessToken = viper.GetString("onebot-access-token")
}

func configureLimits(cfg *core.Config) {
	// Zero and below disable the gate, so no lower clamp here.
	cfg.Flood.PlaysPerMinute = viper.GetInt("flood-limit-per-minute")

	cfg.Cache.Size = viper.GetInt("cache-size")
	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = defaults.Cache.Size
	}
	cfg.Cache.TTLSecs = viper.GetInt("cache-ttl-secs")
	if cfg.Cache.TTLSecs <= 0 {
		cfg.Cache.TTLSecs = defaults.Cache.TTLSecs
	}
}

func configureServer(cfg *core.Config) {
	cfg.Server.Host = viper.GetString("server-host")
	if cfg.Server.Host == "" {
		cfg.Server.Host = defaultServerHost
	}
	cfg.Server.Port = viper.GetInt("server-port")
	cfg.Log.Level = viper.GetString("log-level")
}

func configureApp(cfg *core.Config) {
	cfg.App.Language = viper.GetString("language")
	if cfg.App.Language == "" {
		cfg.App.Language = i18n.DefaultLanguage
	}

	supportedLanguages := i18n.GetSupportedLanguages()
	isSupported := false
	for _, lang := range supportedLanguages {
		if cfg.App.Language == lang {
			isSupported = true
			break
		}
	}
	if !isSupported {
		fmt.Fprintf(os.Stderr, "Warning: Unsupported language '%s', falling back to '%s'. Supported languages: %s\n",
			cfg.App.Language, i18n.DefaultLanguage, strings.Join(supportedLanguages, ", "))
		cfg.App.Language = i18n.DefaultLanguage
	}
}

func clampInt(name string, value, minValue, maxValue int) int {
	if value < minValue {
		fmt.Printf("Warning: %s=%d below minimum, using %d\n", name, value, minValue)
		return minValue
	}
	if value > maxValue {
		fmt.Printf("Warning: %s=%d above maximum, using %d\n", name, value, maxValue)
		return maxValue
	}
	return value
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}

	return builtLogger
}

func runCloudJuke(cmd *cobra.Command, _ []string) error {
	if viper.GetBool("generate-env-example") {
		return generateEnvExample(cmd)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting CloudJuke",
		zap.String("version", "1.0.0"),
		zap.String("language", config.App.Language),
		zap.Bool("card_enabled", config.Card.Enable),
		zap.Bool("list_image_enabled", config.Image.EnableList),
		zap.Int("flood_limit_per_minute", config.Flood.PlaysPerMinute))

	if err := validateConfig(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return runServices(ctx, initializeServices())
}

type services struct {
	provider   *core.Provider
	dispatcher *core.Dispatcher
	gate       *flood.Gate
	httpServer *httpserver.Server
}

func initializeServices() *services {
	provider := core.NewProvider(config)
	cfg := provider.Snapshot()

	localizer := i18n.NewLocalizer(cfg.App.Language)

	cache := store.NewCache(cfg.Cache.Size, time.Duration(cfg.Cache.TTLSecs)*time.Second)
	catalogClient := catalog.NewClient(&catalog.Config{
		BaseURL:      cfg.Catalog.BaseURL,
		UnknownAlbum: localizer.T("catalog.unknown_album"),
	}, logger.Named("catalog"), cache)

	signer := card.NewSigner(cfg.Card.APIURL, logger.Named("card"))
	renderer := render.NewCompositor(logger.Named("render"))
	gate := flood.New(cfg.Flood.PlaysPerMinute)

	onebotClient := onebot.NewClient(&onebot.Config{
		APIURL:      cfg.OneBot.APIURL,
		AccessToken: cfg.OneBot.AccessToken,
	}, logger.Named("onebot"))

	metrics := httpserver.NewMetrics()

	dispatcher := core.NewDispatcher(provider, catalogClient, signer, renderer, gate,
		[]chat.Transport{onebotClient}, metrics, logger.Named("dispatcher"))

	httpServer := httpserver.NewServer(&cfg.Server, dispatcher, gate, metrics, logger.Named("http"))

	return &services{
		provider:   provider,
		dispatcher: dispatcher,
		gate:       gate,
		httpServer: httpServer,
	}
}

func runServices(ctx context.Context, svcs *services) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return svcs.httpServer.Start(gCtx)
	})

	g.Go(func() error {
		watchConfig(svcs.provider)
		<-gCtx.Done()
		return nil
	})

	logger.Info("CloudJuke started successfully",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	err := g.Wait()
	svcs.dispatcher.Shutdown()

	if err != nil {
		logger.Error("CloudJuke stopped with error", zap.Error(err))
		return err
	}

	logger.Info("CloudJuke stopped gracefully")
	return nil
}

// watchConfig swaps in a rebuilt snapshot whenever the config file changes.
// Components that capture settings at construction (flood limit, language,
// listen address) keep their startup values; per-call settings like the
// cookie take effect on the next operation.
func watchConfig(provider *core.Provider) {
	if viper.ConfigFileUsed() == "" {
		return
	}

	viper.OnConfigChange(func(event fsnotify.Event) {
		provider.Replace(buildConfig())
		logger.Info("Configuration reloaded", zap.String("file", event.Name))
	})
	viper.WatchConfig()
}

func validateConfig() error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", config.Server.Port)
	}

	if config.Catalog.Cookie == "" {
		logger.Warn("No catalog cookie configured; tools will ask for credentials until one is provided")
	}

	return nil
}

func generateEnvExample(cmd *cobra.Command) error {
	fmt.Println("Generating .env.example file from current configuration...")

	content := generateEnvExampleContent(cmd)

	if err := os.WriteFile(".env.example", []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write .env.example: %w", err)
	}

	fmt.Println("✅ Successfully generated .env.example file")
	return nil
}

func generateEnvExampleContent(cmd *cobra.Command) string {
	var content strings.Builder

	content.WriteString("# =============================================================================\n")
	content.WriteString("# CloudJuke Configuration\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("#\n")
	content.WriteString("# Copy this file to .env and update with your values\n")
	content.WriteString("# All environment variables have CLI flag equivalents (use --help to see them)\n")
	content.WriteString("#\n")
	content.WriteString("# Format: CLOUDJUKE_<SETTING>=value\n")
	content.WriteString("# CLI equivalent: --<setting>\n")
	content.WriteString("#\n\n")

	generateCatalogSection(&content, cmd)
	generateImageSection(&content, cmd)
	generateCardSection(&content, cmd)
	generateOneBotSection(&content, cmd)
	generateLimitsSection(&content, cmd)
	generateServerSection(&content, cmd)
	generateQuickSetupGuide(&content)

	return content.String()
}

func flagToEnvVar(flagName string) string {
	return "CLOUDJUKE_" + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func getDefaultValueString(cmd *cobra.Command, flagName string) string {
	if f := cmd.PersistentFlags().Lookup(flagName); f != nil {
		return f.DefValue
	}
	return ""
}

func generateCatalogSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Catalog Configuration (Required)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --cookie, --catalog-base-url, --max-results, --http-timeout-secs\n")

	maxResultsDefault := getDefaultValueString(cmd, "max-results")
	timeoutDefault := getDefaultValueString(cmd, "http-timeout-secs")

	fmt.Fprintf(content, "%s=\"MUSIC_U=...; __csrf=...\"       # Cookie from music.163.com (both keys required)\n",
		flagToEnvVar("cookie"))
	fmt.Fprintf(content, "%s=%s       # Catalog API origin (default: %s)\n",
		flagToEnvVar("catalog-base-url"), getDefaultValueString(cmd, "catalog-base-url"), getDefaultValueString(cmd, "catalog-base-url"))
	fmt.Fprintf(content, "%s=%s                              # Search results per query, 1-20 (default: %s)\n",
		flagToEnvVar("max-results"), maxResultsDefault, maxResultsDefault)
	fmt.Fprintf(content, "%s=%s                        # Catalog/delivery timeout in seconds, 5-60 (default: %s)\n",
		flagToEnvVar("http-timeout-secs"), timeoutDefault, timeoutDefault)
	content.WriteString("\n")
}

func generateImageSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Search List Rendering\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --enable-list-image, --background-url, --font-path, --default-cover-url\n")

	enableDefault := getDefaultValueString(cmd, "enable-list-image")
	fontDefault := getDefaultValueString(cmd, "font-path")

	fmt.Fprintf(content, "%s=%s                        # Render search results as an 800x800 image (default: %s)\n",
		flagToEnvVar("enable-list-image"), enableDefault, enableDefault)
	fmt.Fprintf(content, "%s=https://...                   # Background image URL (default: bundled backdrop)\n",
		flagToEnvVar("background-url"))
	fmt.Fprintf(content, "%s=%s                            # CJK font file; the built-in fallback has no CJK glyphs (default: %s)\n",
		flagToEnvVar("font-path"), fontDefault, fontDefault)
	fmt.Fprintf(content, "%s=https://...                # Cover used when a song has none\n",
		flagToEnvVar("default-cover-url"))
	content.WriteString("\n")
}

func generateCardSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Delivery Ladder - native share, then signed card, then text/cover/voice\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --prefer-native-share, --enable-card, --card-api-url, --cover-size\n")

	shareDefault := getDefaultValueString(cmd, "prefer-native-share")
	cardDefault := getDefaultValueString(cmd, "enable-card")
	coverDefault := getDefaultValueString(cmd, "cover-size")

	fmt.Fprintf(content, "%s=%s                      # Try the host's native music share first (default: %s)\n",
		flagToEnvVar("prefer-native-share"), shareDefault, shareDefault)
	fmt.Fprintf(content, "%s=%s                              # Fall back to signed music cards (default: %s)\n",
		flagToEnvVar("enable-card"), cardDefault, cardDefault)
	fmt.Fprintf(content, "%s=%s    # Card signing service (default)\n",
		flagToEnvVar("card-api-url"), getDefaultValueString(cmd, "card-api-url"))
	fmt.Fprintf(content, "%s=%s                              # Cover size in pixels, 0-1000, 0 skips covers (default: %s)\n",
		flagToEnvVar("cover-size"), coverDefault, coverDefault)
	content.WriteString("\n")
}

func generateOneBotSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# OneBot v11 Host (Required for deliveries)\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --onebot-api-url, --onebot-access-token\n")

	urlDefault := getDefaultValueString(cmd, "onebot-api-url")

	fmt.Fprintf(content, "%s=%s          # HTTP API of your NapCat/go-cqhttp host (default: %s)\n",
		flagToEnvVar("onebot-api-url"), urlDefault, urlDefault)
	fmt.Fprintf(content, "%s=                          # Bearer token if the host requires one\n",
		flagToEnvVar("onebot-access-token"))
	content.WriteString("\n")
}

func generateLimitsSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# Rate Limiting and Caching\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --flood-limit-per-minute, --cache-size, --cache-ttl-secs\n")

	floodDefault := getDefaultValueString(cmd, "flood-limit-per-minute")
	cacheSizeDefault := getDefaultValueString(cmd, "cache-size")
	cacheTTLDefault := getDefaultValueString(cmd, "cache-ttl-secs")

	fmt.Fprintf(content, "%s=%s                   # Max deliveries per chat per minute, 0 disables (default: %s)\n",
		flagToEnvVar("flood-limit-per-minute"), floodDefault, floodDefault)
	fmt.Fprintf(content, "%s=%s                             # Track detail cache entries (default: %s)\n",
		flagToEnvVar("cache-size"), cacheSizeDefault, cacheSizeDefault)
	fmt.Fprintf(content, "%s=%s                          # Track detail cache TTL in seconds (default: %s)\n",
		flagToEnvVar("cache-ttl-secs"), cacheTTLDefault, cacheTTLDefault)
	content.WriteString("\n")
}

func generateServerSection(content *strings.Builder, cmd *cobra.Command) {
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# HTTP Server, Language and Logging\n")
	content.WriteString("# -----------------------------------------------------------------------------\n")
	content.WriteString("# CLI: --server-host, --server-port, --language, --log-level\n")

	hostDefault := getDefaultValueString(cmd, "server-host")
	portDefault := getDefaultValueString(cmd, "server-port")
	langDefault := getDefaultValueString(cmd, "language")
	logDefault := getDefaultValueString(cmd, "log-level")
	supportedLangs := strings.Join(i18n.GetSupportedLanguages(), ", ")

	fmt.Fprintf(content, "%s=%s                         # Server bind address (default: %s)\n",
		flagToEnvVar("server-host"), "127.0.0.1", hostDefault)
	fmt.Fprintf(content, "%s=%s                            # Server port (default: %s)\n",
		flagToEnvVar("server-port"), portDefault, portDefault)
	fmt.Fprintf(content, "%s=%s                               # Reply language: %s (default: %s)\n",
		flagToEnvVar("language"), langDefault, supportedLangs, langDefault)
	fmt.Fprintf(content, "%s=%s                             # Log level: debug, info, warn, error (default: %s)\n",
		flagToEnvVar("log-level"), logDefault, logDefault)
	content.WriteString("\n")
}

func generateQuickSetupGuide(content *strings.Builder) {
	content.WriteString("# =============================================================================\n")
	content.WriteString("# QUICK SETUP GUIDE\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("\n")
	content.WriteString("# 1. CATALOG COOKIE (Required):\n")
	content.WriteString("#    - Log into https://music.163.com in a browser\n")
	content.WriteString("#    - Copy the Cookie request header from DevTools (Network tab)\n")
	content.WriteString("#    - Paste it into CLOUDJUKE_COOKIE above; MUSIC_U and __csrf must be present\n")
	content.WriteString("#    - The cookie can be rotated at runtime via the watched config file\n")
	content.WriteString("\n")
	content.WriteString("# 2. ONEBOT HOST (Required for deliveries):\n")
	content.WriteString("#    - Run a OneBot v11 implementation (NapCat, go-cqhttp, Lagrange)\n")
	content.WriteString("#    - Enable its HTTP API and point CLOUDJUKE_ONEBOT_API_URL at it\n")
	content.WriteString("#    - Set CLOUDJUKE_ONEBOT_ACCESS_TOKEN if the host has one configured\n")
	content.WriteString("\n")
	content.WriteString("# 3. LIST FONT (Recommended):\n")
	content.WriteString("#    - Drop a CJK font next to the binary, e.g. simsun.ttc from a Windows host\n")
	content.WriteString("#    - Without one, Chinese titles render as boxes in the search list image\n")
	content.WriteString("\n")
	content.WriteString("# 4. TEST CONFIGURATION:\n")
	content.WriteString("#    go run ./cmd/cloudjuke --help                          # See all CLI options\n")
	content.WriteString("#    go run ./cmd/cloudjuke --log-level=debug               # Run with debug logging\n")
	content.WriteString("#    curl -X POST localhost:8080/v1/tools/search_songs \\\n")
	content.WriteString("#      -d '{\"keyword\": \"晴天\"}'                             # Exercise the search tool\n")
	content.WriteString("\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("# TROUBLESHOOTING\n")
	content.WriteString("# =============================================================================\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"tools keep asking for credentials\"\n")
	content.WriteString("# - NetEase cookies expire; re-copy MUSIC_U and __csrf from the browser\n")
	content.WriteString("# - Check both keys survived shell quoting (the value contains ; and =)\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"deliveries fail with a retcode error\"\n")
	content.WriteString("# - The OneBot host rejected the call; check the access token matches\n")
	content.WriteString("# - Verify the bot account is in the target group\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"search list image shows squares instead of Chinese\"\n")
	content.WriteString("# - The configured font was not found; CLOUDJUKE_FONT_PATH must point at a CJK font\n")
	content.WriteString("\n")
	content.WriteString("# Issue: \"covers missing from fallback deliveries\"\n")
	content.WriteString("# - CLOUDJUKE_COVER_SIZE=0 disables covers; set it back to 500\n")
}
