// Package handler is the serverless entry point. Background jobs do not run here;
// operators trigger them through the maintenance routes instead.
package handler

import (
	"net/http"
	"roombook/config"
	"roombook/di"
	"roombook/shared/logger"
	"sync"
)

var (
	app  *di.App
	once sync.Once
)

func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.Configure(cfg)

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.HTTP.Handler().ServeHTTP(w, r)
}
