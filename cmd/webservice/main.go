package main

import (
	_ "time/tzdata"

	"github.com/alimikegami/pi-callback-service/config"
	"github.com/alimikegami/pi-callback-service/internal/app"
	"github.com/alimikegami/pi-callback-service/internal/infrastructure/database/mongodb"
	"github.com/rs/zerolog/log"
)

func main() {
	conf := config.CreateNewConfig()

	application := app.App{
		Config: conf,
	}

	// A missing or unreachable store must not keep the callback endpoint
	// down: the network keeps retrying undelivered callbacks, so the
	// service comes up in unavailable mode and acknowledges best-effort.
	if conf.MongoConfig.URI == "" {
		log.Warn().Msg("MONGODB_URI is not set, notification store is unavailable")
	} else {
		db, err := mongodb.ConnectToMongoDB(conf.MongoConfig.URI, conf.MongoConfig.DBName)
		if err != nil {
			log.Error().Err(err).Msg("Failed to connect to MongoDB, notification store is unavailable")
		} else {
			application.DB = db
		}
	}

	application.Start()
}
