package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/courtbook/court-booking/internal/config"
	"github.com/courtbook/court-booking/internal/database"
	"github.com/courtbook/court-booking/internal/handler"
	"github.com/courtbook/court-booking/internal/notify"
	"github.com/courtbook/court-booking/internal/queue"
	"github.com/courtbook/court-booking/internal/repository"
	"github.com/courtbook/court-booking/internal/router"
	"github.com/courtbook/court-booking/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	loc := cfg.Location()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response cache disabled")
	}
	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()

	// Repositories
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	bookings := repository.NewBookingRepo(db)
	tournaments := repository.NewTournamentRepo(db)
	entries := repository.NewEntryRepo(db)

	// Outbound email: services publish to the queue, the consumer
	// delivers through Brevo in the background.
	publisher := queue.NewPublisher(cfg.AMQPURL)
	mailer := notify.NewBrevoMailer(cfg.BrevoAPIKey, cfg.FromEmail)
	go queue.StartEmailConsumer(cfg.AMQPURL, mailer)

	// Services
	bookingSvc := service.NewBookingService(bookings, publisher,
		cfg.HourlyRate, cfg.FrontendConfirmURL, cfg.AdminEmail, loc)
	tournamentSvc := service.NewTournamentService(tournaments, entries, users, publisher,
		cfg.HourlyRate, cfg.AdminEmail, loc)

	// Handlers
	authH := handler.NewAuthHandler(cfg, users, tokens)
	bookingH := handler.NewBookingHandler(bookingSvc)
	tournamentH := handler.NewTournamentHandler(tournamentSvc)
	contactH := handler.NewContactHandler(publisher, cfg.AdminEmail)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, bookingH, tournamentH, contactH, cacheCfg, rdb)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret, rlCfg, rdb)
	router.RegisterTournament(e, tournamentH, cfg.JWTSecret, rlCfg, rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, loc)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
