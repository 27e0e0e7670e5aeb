package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/homereach/estate-api/internal/config"
	"github.com/homereach/estate-api/internal/database"
	"github.com/homereach/estate-api/internal/handler"
	"github.com/homereach/estate-api/internal/middleware"
	"github.com/homereach/estate-api/internal/queue"
	"github.com/homereach/estate-api/internal/repository"
	"github.com/homereach/estate-api/internal/router"
	"github.com/homereach/estate-api/prometheus"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	secCfg := config.LoadSecurityConfig()

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	prometheus.InitMetrics("estate")

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	verifications := repository.NewVerificationRepo(db)
	listings := repository.NewListingRepo(db)
	images := repository.NewImageRepo(db)
	tags := repository.NewTagRepo(db)
	reviews := repository.NewReviewRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	inquiries := repository.NewInquiryRepo(db)
	messages := repository.NewMessageRepo(db)
	agents := repository.NewAgentRepo(db)
	searches := repository.NewSavedSearchRepo(db)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, secCfg, users, tokens, verifications)
	acctH := handler.NewAccountHandler(cfg, users, tokens, verifications)
	publicH := &handler.PublicListingHandler{
		Cfg: cfg, Listings: listings, Images: images, Tags: tags,
		Reviews: reviews, Favorites: favorites,
	}
	ownerH := &handler.OwnerListingHandler{Users: users, Listings: listings, Images: images, Tags: tags}
	reviewH := &handler.ReviewHandler{Reviews: reviews, Listings: listings}
	favH := &handler.FavoriteHandler{Favorites: favorites, Listings: listings}
	inqH := &handler.InquiryHandler{Users: users, Listings: listings, Inquiries: inquiries}
	msgH := &handler.MessageHandler{Users: users, Messages: messages}
	agentH := &handler.AgentHandler{Agents: agents, Listings: listings}
	savedH := &handler.SavedSearchHandler{Searches: searches, Listings: listings}

	e := echo.New()
	e.Use(middleware.MetricsMiddleware)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	gated := []echo.MiddlewareFunc{
		middleware.JWTAuth(cfg.JWTSecret),
		middleware.SecurityGate(users, secCfg),
	}

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, acctH, cfg.JWTSecret, limiter)
	router.RegisterPublic(e, publicH, reviewH, agentH, acctH, cache)
	router.RegisterAccount(e, authH, acctH, reviewH, favH, inqH, msgH, savedH, gated...)
	router.RegisterOwner(e, ownerH, agentH, gated...)

	// Notification consumer runs for the life of the process and
	// reconnects on broker failure.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notify-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
