package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"social_auth/cmd/config"
	"social_auth/cmd/database"
	"social_auth/cmd/route"
	"social_auth/internal/event"
	"social_auth/internal/handler"
	"social_auth/internal/repository"
	"social_auth/internal/session"
	"social_auth/internal/socialite"
	"social_auth/internal/usecase"
	"social_auth/utils"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	utils.SetupLogger(cfg.LogLevel, cfg.LogJSON)
	utils.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	if err := database.ConnectDB(cfg.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Database is not reachable")
	}
	defer database.Close()

	manager, err := buildProviders(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid provider configuration")
	}

	//events
	bus := event.NewBus(100)
	bus.Subscribe(event.NewAuditListener(log.Logger))
	if cfg.EmailSender != "" {
		bus.Subscribe(event.NewWelcomeMailListener(utils.NewMailer(cfg.Mail())))
	}
	bus.Start()

	//auth
	store := session.NewStore([]byte(cfg.SessionSecret), cfg.SessionSecure)
	guard := session.NewSessionGuard(store, cfg.SessionName, cfg.SessionSecure)
	userRepo := repository.NewUserRepository(database.DB)
	accountRepo := repository.NewSocialAccountRepository(database.DB)
	loginUsecase := usecase.NewSocialLoginUsecase(userRepo, accountRepo, cfg.ExceptRoles)
	authHandler := handler.NewAuthHandler(manager, loginUsecase, store, guard, bus, handler.AuthOptions{
		SessionName: cfg.SessionName,
		RedirectTo:  cfg.RedirectTo,
	})

	//notifications
	notificationRepo := repository.NewNotificationRepository(database.DB)
	notificationUsecase := usecase.NewNotificationUsecase(notificationRepo)
	notificationHandler := handler.NewNotificationHandler(notificationUsecase)

	r := route.SetupRoute(authHandler, notificationHandler, store, guard)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", srv.Addr).Strs("providers", manager.Names()).Msg("Server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := bus.Stop(5 * time.Second); err != nil {
		log.Error().Err(err).Msg("Event bus shutdown failed")
	}
}

func buildProviders(cfg *config.Config) (*socialite.Manager, error) {
	services := cfg.Services()
	names := make([]string, 0, len(services))
	for name := range services {
		names = append(names, name)
	}
	sort.Strings(names)

	client := &http.Client{Timeout: 15 * time.Second}
	providers := make([]socialite.Provider, 0, len(names))
	for _, name := range names {
		opts := []socialite.Option{socialite.WithHTTPClient(client)}
		if name == "google" {
			verifier, err := config.NewGoogleVerifier(context.Background(), services[name].ClientID)
			if err != nil {
				log.Warn().Err(err).Msg("Google id_token verification disabled, using userinfo endpoint")
			} else {
				opts = append(opts, socialite.WithIDTokenVerifier(verifier))
			}
		}
		p, err := socialite.Build(name, services[name], opts...)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return socialite.NewManager(providers...), nil
}
