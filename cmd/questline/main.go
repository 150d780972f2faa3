package main

import (
	"context"

	"questline.io/questline/internal/cache"
	"questline.io/questline/internal/config"
	"questline.io/questline/internal/database"
	"questline.io/questline/internal/http"
	"questline.io/questline/pkg/errors"
	"questline.io/questline/pkg/log"
)

func main() {
	log.Infof("Starting app")
	startApp()
}

func startApp() {
	defer func() {
		if i := recover(); i != nil {
			log.Fatal(errors.ErrorfAndReport("%v", i))
		}
	}()
	config.Read()
	log.SetLevel(config.Global.LogLevel)
	if err := errors.NewSentryReporter(config.Global.SentryDSN); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	database.InitPostgres(&config.Global.Postgres)
	defer database.Close(ctx)
	if config.Global.HTTP.RateLimitPerMinute > 0 {
		cache.Init(&config.Global.Redis)
		defer cache.Close()
	}

	http.NewServer()
}
