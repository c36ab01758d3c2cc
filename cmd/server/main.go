package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-catalog/internal/auth"
	"github.com/iliyamo/movie-catalog/internal/chat"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/cryptox"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/queue"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	queue_publisher "github.com/iliyamo/movie-catalog/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter fail open
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()

	users := repository.NewUserRepo(db)
	movies := repository.NewMovieRepo(db)
	cards := repository.NewCardRepo(db)

	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	authenticator := auth.NewAuthenticator(users, hasher)
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.AccessTTLMin)*time.Minute)
	verifier := auth.NewTokenVerifier([]byte(cfg.JWTSecret), users)
	totpMgr := auth.NewTOTPManager(cfg.TOTPIssuer, users)

	cipher, err := cryptox.NewFieldCipher(cfg.CardEncKey)
	if err != nil {
		log.Fatalf("card cipher: %v", err)
	}

	hub := chat.NewHub()
	go hub.Run()

	// Background consumer keeps retrying the broker on its own; losing it
	// never takes the API down.
	go func() {
		if err := queue.StartRegistrationConsumer(); err != nil {
			log.Printf("registration consumer stopped: %v", err)
		}
	}()

	userHandler := handler.NewUserHandler(users, hasher, queue_publisher.PublishUserRegistered)
	authHandler := handler.NewAuthHandler(authenticator, issuer)
	mfaHandler := handler.NewMFAHandler(verifier, totpMgr, users)
	movieHandler := handler.NewMovieHandler(movies, cacheCfg, rdb)
	cardHandler := handler.NewCardHandler(cards, cipher)
	chatHandler := handler.NewChatHandler(hub)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, userHandler, authHandler, verifier, rlCfg, rdb)
	router.RegisterMFA(e, mfaHandler)
	router.RegisterMovies(e, movieHandler, verifier, cacheCfg, rdb)
	router.RegisterCards(e, cardHandler, verifier)
	router.RegisterChat(e, chatHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
