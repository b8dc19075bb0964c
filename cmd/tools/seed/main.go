// cmd/tools/seed/main.go
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/codr1/leaguedesk/internal/config"
	"github.com/codr1/leaguedesk/internal/gateway"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "Path to console configuration")
		seedPath   = flag.String("file", "", "Path to the seed YAML file")
		username   = flag.String("username", os.Getenv("SEED_USERNAME"), "League API username")
	)
	flag.Parse()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if *seedPath == "" || *username == "" {
		log.Error().Msg("-file and -username are required")
		flag.PrintDefaults()
		os.Exit(1)
	}
	password := os.Getenv("SEED_PASSWORD")
	if password == "" {
		log.Fatal().Msg("SEED_PASSWORD must be set")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	gatewayCfg, err := cfg.GatewayConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid backend configuration")
	}

	data, err := os.ReadFile(*seedPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read seed file")
	}
	file, err := parseSeed(data)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid seed file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := gateway.New(gatewayCfg)
	session, err := client.Auth.Login(ctx, *username, password)
	if err != nil {
		log.Fatal().Err(err).Msg("Login failed")
	}
	ctx = gateway.WithToken(ctx, session.Token)

	result, err := seed(ctx, client, file)
	logger := log.Info()
	if err != nil {
		logger = log.Error().Err(err)
	}
	logger.Int("teams", result.Teams).Int("players", result.Players).Int("skipped", result.Skipped).Msg("Seed finished")
	if err != nil {
		os.Exit(1)
	}
}
