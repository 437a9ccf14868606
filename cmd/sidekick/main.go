// Package main provides the sidekick CLI entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/sync/errgroup"

	"sidekick/internal/agent"
	"sidekick/internal/auth"
	"sidekick/internal/core"
	"sidekick/internal/gcal"
	"sidekick/internal/gmail"
	httpserver "sidekick/internal/http"
	"sidekick/internal/llm"
	"sidekick/internal/player"
	"sidekick/internal/spotify"
	"sidekick/internal/store"
	"sidekick/internal/tools"
	"sidekick/internal/weather"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sidekick",
	Short: "Sidekick - personal assistant for Spotify, Gmail, Calendar and weather",
	Long: `Sidekick is an LLM-driven personal assistant. It exposes Spotify playback,
Gmail, Google Calendar and weather lookups as tools and lets a language model
drive them from a chat prompt.`,
	RunE: runChat,
}

var playCmd = &cobra.Command{
	Use:   "play <query>",
	Short: "Search Spotify and start playback directly, without the LLM",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlay,
}

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tools exposed to the language model",
	RunE:  runTools,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().String("google-client-id", "", "Google OAuth client ID")
	rootCmd.PersistentFlags().String("google-client-secret", "", "Google OAuth client secret")
	rootCmd.PersistentFlags().String("weather-api-key", "", "weatherapi.com API key")
	rootCmd.PersistentFlags().String("llm-provider", "none", "LLM provider (openai, anthropic, none)")
	rootCmd.PersistentFlags().String("llm-model", "", "LLM model name")
	rootCmd.PersistentFlags().String("llm-api-key", "", "LLM API key")
	rootCmd.PersistentFlags().String("token-db", "", "path to the OAuth token database")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(playCmd, toolsCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("SIDEKICK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")
	if v := viper.GetString("spotify-redirect-url"); v != "" {
		cfg.Spotify.RedirectURL = v
	}

	cfg.Google.ClientID = viper.GetString("google-client-id")
	cfg.Google.ClientSecret = viper.GetString("google-client-secret")

	cfg.Weather.APIKey = viper.GetString("weather-api-key")
	if v := viper.GetString("weather-base-url"); v != "" {
		cfg.Weather.BaseURL = v
	}

	cfg.LLM.Provider = viper.GetString("llm-provider")
	cfg.LLM.Model = viper.GetString("llm-model")
	cfg.LLM.APIKey = viper.GetString("llm-api-key")
	cfg.LLM.BaseURL = viper.GetString("llm-base-url")
	if v := viper.GetInt("llm-max-turns"); v > 0 {
		cfg.LLM.MaxTurns = v
	}

	if v := viper.GetString("server-host"); v != "" {
		cfg.Server.Host = v
	}
	cfg.Server.Port = viper.GetInt("server-port")

	cfg.Log.Level = viper.GetString("log-level")

	if v := viper.GetString("token-db"); v != "" {
		cfg.App.TokenDBPath = v
	}
	if v := viper.GetInt("search-limit"); v > 0 {
		cfg.App.SearchLimit = v
	}
	if v := viper.GetInt("launch-wait"); v > 0 {
		cfg.App.LaunchWaitSecs = v
	}

	return cfg
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

// services bundles everything a subcommand may need.
type services struct {
	tokens   *auth.TokenStore
	player   *player.Player
	history  *store.History
	registry *tools.Registry
}

func (s *services) Close() {
	if s.tokens != nil {
		s.tokens.Close()
	}
}

func buildServices(ctx context.Context) (*services, error) {
	if config.Spotify.ClientID == "" || config.Spotify.ClientSecret == "" {
		return nil, fmt.Errorf("spotify client ID and secret are required")
	}

	tokens, err := auth.OpenStore(config.App.TokenDBPath, logger.Named("auth"))
	if err != nil {
		return nil, err
	}

	spotifyClient, err := spotify.New(ctx, config.Spotify, tokens, logger.Named("spotify"))
	if err != nil {
		tokens.Close()
		return nil, err
	}

	history := store.NewHistory(config.App.HistorySize)
	launcher := spotify.NewDesktopLauncher(logger.Named("launcher"))

	p := player.New(spotifyClient, launcher, logger.Named("player"),
		player.WithSearchLimit(config.App.SearchLimit),
		player.WithLaunchWait(time.Duration(config.App.LaunchWaitSecs)*time.Second),
		player.WithHistory(history))

	registry := tools.NewRegistry(logger.Named("tools"))
	registry.Register(tools.MusicTools(p)...)

	weatherClient := weather.New(nil, config.Weather.APIKey, config.Weather.BaseURL,
		logger.Named("weather"))
	locator := weather.NewIPLocator(nil, config.Weather.GeoURL, logger.Named("locator"))
	registry.Register(tools.WeatherTools(weatherClient, locator)...)

	// Google tools are optional; without credentials the assistant still
	// handles music and weather.
	if config.Google.ClientID != "" && config.Google.ClientSecret != "" {
		googleHTTP, err := tokens.HTTPClient(ctx, gmail.TokenService, &oauth2.Config{
			ClientID:     config.Google.ClientID,
			ClientSecret: config.Google.ClientSecret,
			Endpoint:     google.Endpoint,
		})
		if err != nil {
			logger.Warn("Google token unavailable, mail and calendar tools disabled",
				zap.Error(err))
		} else {
			mailClient := gmail.New(googleHTTP, logger.Named("gmail"))
			calClient := gcal.New(googleHTTP, logger.Named("gcal"))
			registry.Register(tools.MailTools(mailClient)...)
			registry.Register(tools.CalendarTools(calClient)...)
		}
	}

	return &services{
		tokens:   tokens,
		player:   p,
		history:  history,
		registry: registry,
	}, nil
}

func runChat(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("Starting sidekick",
		zap.String("llm_provider", config.LLM.Provider))

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	chatter, err := llm.NewChatter(&config.LLM, logger.Named("llm"))
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}

	assistant := agent.New(chatter, svc.registry, logger.Named("agent"),
		agent.WithHistory(svc.history))
	httpServer := httpserver.NewServer(&config.Server, logger.Named("http"))
	svc.registry.SetRecorder(httpServer)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return httpServer.Start(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				httpServer.SetHistorySize(svc.history.Size())
			}
		}
	})

	g.Go(func() error {
		defer cancel()
		return repl(gCtx, assistant, httpServer)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Sidekick stopped with error", zap.Error(err))
		return err
	}

	logger.Info("Sidekick stopped gracefully")
	return nil
}

// repl reads user turns from stdin until EOF or cancellation.
func repl(ctx context.Context, assistant *agent.Agent, httpServer *httpserver.Server) error {
	fmt.Println("sidekick ready. Type a request, or \"exit\" to quit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "exit", "quit":
			return nil
		case "reset":
			assistant.Reset()
			fmt.Println("Conversation and playback history cleared.")
			continue
		}

		reply, err := assistant.HandleMessage(ctx, line)
		if err != nil {
			httpServer.RecordConversation("error")
			fmt.Printf("error: %v\n", err)
			continue
		}

		httpServer.RecordConversation("ok")
		fmt.Println(reply)
	}
}

func runPlay(_ *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	result := svc.player.SearchAndPlay(ctx, strings.Join(args, " "), "")
	fmt.Println(result.Message)

	if !result.OK() {
		return fmt.Errorf("playback failed")
	}
	return nil
}

func runTools(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	svc, err := buildServices(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	for _, t := range svc.registry.List() {
		fmt.Printf("%-22s %s\n", t.Name, t.Description)
	}
	return nil
}
