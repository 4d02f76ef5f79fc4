package main

import (
	"social_auth/cmd/config"
	"social_auth/cmd/database"
	"social_auth/model"
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

	if err := database.ConnectDB(cfg.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Database is not reachable")
	}
	defer database.Close()

	if err := database.DB.AutoMigrate(&model.User{}, &model.Role{}, &model.SocialAccount{}, &model.Notification{}); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	log.Info().Msg("Migration finished")
}
