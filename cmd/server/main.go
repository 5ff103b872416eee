// cmd/server/main.go
package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/quickfire-games/mathrush/internal/auth"
	"github.com/quickfire-games/mathrush/internal/cache"
	"github.com/quickfire-games/mathrush/internal/handlers"
	"github.com/quickfire-games/mathrush/internal/lobby"
	"github.com/quickfire-games/mathrush/internal/middleware"
)

func main() {
	auth.Init()

	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	rooms := handlers.NewRooms(logger)

	opts := []lobby.Option{}
	if os.Getenv("REDIS_ADDR") != "" {
		rdb, err := cache.Connect()
		if err != nil {
			logger.Warnf("round history disabled: %v", err)
		} else {
			opts = append(opts, lobby.WithRecorder(cache.NewRoundPublisher(rdb)))
			logger.Info("round history publishing enabled")
		}
	}

	coord := lobby.New(logger, lobby.NewStore(), rooms, opts...)

	mux := http.NewServeMux()
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.GameWSHandler(logger, rooms, coord),
	)))
	mux.Handle("/health", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.HealthHandler(coord),
	)))

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logger.Infof("Running on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
