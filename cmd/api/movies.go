package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/liliang-cn/movieapi/internal/data"
	"github.com/liliang-cn/movieapi/internal/validator"
)

// listMoviesHandler 分页查询电影
func (app *application) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()

	filters := data.SanitizeFilters(data.ListQuery{
		Search:    qs.Get("search"),
		Page:      qs.Get("page"),
		Limit:     qs.Get("limit"),
		SortBy:    qs.Get("sortBy"),
		SortOrder: qs.Get("sortOrder"),
	})

	movies, pagination, err := app.models.Movies.GetAll(app.storeContext(r), filters)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status":     true,
		"message":    "Movies retrieved successfully",
		"data":       movies,
		"pagination": pagination,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler 按 id 查询
func (app *application) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.models.Movies.Get(app.storeContext(r), id)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r)
		default:
			app.storeErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status":  true,
		"message": "Movie retrieved successfully",
		"data":    movie,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieHandler 新建电影
func (app *application) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var input data.MovieInput

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateMovieInput(v, &input, false); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movie, err := app.models.Movies.Insert(app.storeContext(r), &input)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/api/movie/%d", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{
		"status":  true,
		"message": "Movie created successfully",
		"data":    movie,
	}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler 局部更新，只修改请求体中出现的字段
func (app *application) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input data.MovieInput

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if data.ValidateMovieInput(v, &input, true); !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return
	}

	movie, err := app.models.Movies.Update(app.storeContext(r), id, &input)
	if err != nil {
		switch {
		case errors.Is(err, data.ErrRecordNotFound):
			app.recordNotFoundResponse(w, r)
		default:
			app.storeErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{
		"status":  true,
		"message": "Movie updated successfully",
		"data":    movie,
	}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler 删除电影，成功时返回 204
func (app *application) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deleted, err := app.models.Movies.Delete(app.storeContext(r), id)
	if err != nil {
		app.storeErrorResponse(w, r, err)
		return
	}

	if !deleted {
		app.recordNotFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
