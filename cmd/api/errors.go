package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/liliang-cn/movieapi/internal/data"
)

// PostgreSQL SQLSTATE
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
)

// storeErrorKind 数据库错误在接口层的分类
type storeErrorKind int

const (
	storeErrorGeneric storeErrorKind = iota
	storeErrorDuplicate
	storeErrorForeignKey
)

// classifyStoreError 根据驱动自己的错误码区分唯一键冲突、外键冲突和其他错误
func classifyStoreError(err error) storeErrorKind {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return kindFromSQLState(string(pqErr.Code))
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return kindFromSQLState(pgErr.Code)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return storeErrorDuplicate
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return storeErrorForeignKey
		}
	}

	return storeErrorGeneric
}

func kindFromSQLState(code string) storeErrorKind {
	switch code {
	case sqlStateUniqueViolation:
		return storeErrorDuplicate
	case sqlStateForeignKeyViolation:
		return storeErrorForeignKey
	default:
		return storeErrorGeneric
	}
}

// logError 记录错误日志
func (app *application) logError(r *http.Request, err error) {
	app.logger.PrintError(err, map[string]string{
		"request_method": r.Method,
		"request_url":    r.URL.String(),
		"request_id":     app.contextGetRequestID(r),
	})
}

// errorResponse 输出 {status:false, message, ...} 格式的错误响应
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string, extra envelope) {
	env := envelope{"status": false, "message": message}
	for k, v := range extra {
		env[k] = v
	}

	err := app.writeJSON(w, status, env, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// serverErrorResponse 500
func (app *application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, "Internal server error", envelope{"error": err.Error()})
}

// storeErrorResponse 按驱动错误码映射为 409/400，其余当作 500
func (app *application) storeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch classifyStoreError(err) {
	case storeErrorDuplicate:
		app.errorResponse(w, r, http.StatusConflict, "Data already exists", nil)
	case storeErrorForeignKey:
		var storeErr *data.StoreError
		if errors.As(err, &storeErr) && storeErr.Op == "delete" {
			app.errorResponse(w, r, http.StatusBadRequest, "Cannot delete: data is referenced by other records", nil)
			return
		}
		app.errorResponse(w, r, http.StatusBadRequest, "Referenced data not found", nil)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// notFoundResponse 未匹配任何路由
func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("Route %s not found", r.URL.RequestURI())
	app.errorResponse(w, r, http.StatusNotFound, message, nil)
}

// recordNotFoundResponse 记录不存在
func (app *application) recordNotFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, "Movie not found", nil)
}

// methodNotAllowedResponse 405
func (app *application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorResponse(w, r, http.StatusMethodNotAllowed, message, nil)
}

// badRequestResponse 400
func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error(), nil)
}

// failedValidationResponse 校验失败
func (app *application) failedValidationResponse(w http.ResponseWriter, r *http.Request, errors map[string]string) {
	app.errorResponse(w, r, http.StatusBadRequest, "Validation error", envelope{"errors": errors})
}

// rateLimitExceededResponse 429
func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded", nil)
}
