package handler

import (
	"net/http"
	"stayfinder/config"
	"stayfinder/di"
	"stayfinder/shared/logger"
	stayHTTP "stayfinder/transport/http"
	"sync"
)

var (
	server   *stayHTTP.HTTP
	initOnce sync.Once
)

// Handler is the serverless entrypoint; warm invocations reuse the wired server.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	initOnce.Do(func() {
		logger.InitLogger()
		logger.Configure(config.Get())

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
