package main

import (
	"context"
	"net/http"
)

// 基于string定义一个contextType
type contextKey string

// 从请求的 context 中获取请求 id
const requestIDContextKey = contextKey("request_id")

// contextSetRequestID 返回一个复制的 request，context 中带有请求 id
func (app *application) contextSetRequestID(r *http.Request, id string) *http.Request {
	ctx := context.WithValue(r.Context(), requestIDContextKey, id)
	return r.WithContext(ctx)
}

// contextGetRequestID 从 context 中取请求 id，没有经过 logRequest 时返回空字符串
func (app *application) contextGetRequestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDContextKey).(string)
	return id
}

// storeContext 数据库操作使用的 context：保留请求上的值，但客户端断开不会中断已经发出的语句
func (app *application) storeContext(r *http.Request) context.Context {
	return context.WithoutCancel(r.Context())
}
