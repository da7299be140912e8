package main

import (
	"context"
	"net/http"
	"time"
)

// welcomeHandler 根路径
func (app *application) welcomeHandler(w http.ResponseWriter, r *http.Request) {
	err := app.writeJSON(w, http.StatusOK, envelope{"status": true, "message": "Welcome to Movie API"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// healthcheckHandler 返回运行环境和版本，数据库不可用时返回 503
func (app *application) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		app.logError(r, err)
		app.errorResponse(w, r, http.StatusServiceUnavailable, "database unavailable", nil)
		return
	}

	env := envelope{
		"status":  true,
		"message": "available",
		"data": map[string]string{
			"environment": app.config.env,
			"version":     version,
		},
	}

	err := app.writeJSON(w, http.StatusOK, env, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
