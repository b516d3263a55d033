package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"github.com/gigstage/show-booking/internal/config"
	"github.com/gigstage/show-booking/internal/database"
	"github.com/gigstage/show-booking/internal/handler"
	"github.com/gigstage/show-booking/internal/logger"
	"github.com/gigstage/show-booking/internal/queue"
	"github.com/gigstage/show-booking/internal/repository"
	"github.com/gigstage/show-booking/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger.Setup(cfg.Env)

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	artists := repository.NewArtistRepo(db)
	venues := repository.NewVenueRepo(db)
	shows := repository.NewShowRepo(db)
	members := repository.NewMemberRepo(db)
	votes := repository.NewVoteRepo(db)
	backlines := repository.NewBacklineRepo(db)
	tickets := repository.NewTicketRepo(db)

	h := router.Handlers{
		Auth:       handler.NewAuthHandler(cfg, users, tokens, artists),
		Shows:      handler.NewShowHandler(shows, venues, votes),
		Consensus:  handler.NewConsensusHandler(members, artists),
		Negotiator: handler.NewNegotiationHandler(shows, venues, artists),
		Votes:      handler.NewVoteHandler(votes, shows),
		Backline:   handler.NewBacklineHandler(backlines, shows, artists),
		Tickets:    handler.NewTicketHandler(tickets),
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())

	router.RegisterRoutes(e)
	router.RegisterAuth(e, h.Auth, cfg.JWTSecret)
	router.RegisterAPI(e, h, cfg, rdb)

	// Confirmation notifications are consumed in the background; the
	// consumer reconnects on its own and never takes the API down.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Error().Err(err).Msg("notification consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")

	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
