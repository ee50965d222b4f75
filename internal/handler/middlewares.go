package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/roster"
)

type ResponseWriter struct {
	http.ResponseWriter
	StatusCode int
}

func (rw *ResponseWriter) WriteHeader(statusCode int) {
	rw.StatusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *ResponseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &ResponseWriter{ResponseWriter: w}
		next.ServeHTTP(rw, r)
		duration := time.Since(start)
		slog.Info("リクエストを処理しました", "status", rw.StatusCode, "ip", r.RemoteAddr, "method", r.Method, "path", r.URL.Path, "duration", duration)
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", err))
				stackTrace := string(debug.Stack())
				fmt.Print(stackTrace) // ここで slog を使うと読みにくくなる
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cookie からトークンを取り出す
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil {
			switch {
			case errors.Is(err, http.ErrNoCookie):
				h.errorResponse(w, r, "認証が必要です")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		// トークンを検証する
		tokenString := cookie.Value
		claims := &SettingsClaims{}
		_, err = jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil {
			h.errorResponse(w, r, "無効なトークンです")
			return
		}

		ctx := context.WithValue(r.Context(), SubCtxKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) memberInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		memberID := chi.URLParam(r, "id")

		member, err := h.repository.GetMemberByID(memberID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "メンバーが存在しません")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), MemberInfoCtx, member)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) dateKeyCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		dateKeyParam := chi.URLParam(r, "dateKey")
		if _, err := roster.ParseDateKey(dateKeyParam); err != nil {
			h.errorResponse(w, r, "日付の形式が無効です")
			return
		}

		ctx := context.WithValue(r.Context(), DateKeyCtx, dateKeyParam)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) dutyCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 担当名は日本語なのでパーセントエンコードされて届く
		dutyParam, err := url.PathUnescape(chi.URLParam(r, "duty"))
		if err != nil {
			h.errorResponse(w, r, "担当の名前が無効です")
			return
		}

		duty := domain.Duty(dutyParam)
		if !duty.IsValid() {
			h.errorResponse(w, r, "担当の名前が無効です")
			return
		}

		ctx := context.WithValue(r.Context(), DutyCtx, duty)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
