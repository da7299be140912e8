package main

import (
	"expvar"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.welcomeHandler)
	router.HandlerFunc(http.MethodGet, "/api/healthcheck", app.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/api/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, "/api/movie", app.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/api/movie/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodPatch, "/api/movie/:id", app.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/api/movie/:id", app.deleteMovieHandler)

	router.Handler(http.MethodGet, "/debug/vars", expvar.Handler())
	router.Handler(http.MethodGet, "/metrics", app.metrics.handler())

	return app.middleware(router)
}

// middleware 访问日志在 recoverPanic 外层，panic 的请求同样会被记录
func (app *application) middleware(next http.Handler) http.Handler {
	return app.instrument(app.logRequest(app.recoverPanic(app.enableCORS(app.rateLimiter(next)))))
}
