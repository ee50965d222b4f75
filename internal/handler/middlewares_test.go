package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

func TestDateKeyCtx(t *testing.T) {
	h := newTestHandler(t)

	mux := chi.NewRouter()
	var gotDateKey string
	mux.With(h.dateKeyCtx).Get("/schedule/{dateKey}", func(w http.ResponseWriter, r *http.Request) {
		gotDateKey = r.Context().Value(DateKeyCtx).(string)
	})

	r := httptest.NewRequest(http.MethodGet, "/schedule/2024-06-02", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, "2024-06-02", gotDateKey)
}

func TestDateKeyCtxRejectsInvalidDate(t *testing.T) {
	h := newTestHandler(t)

	mux := chi.NewRouter()
	mux.With(h.dateKeyCtx).Get("/schedule/{dateKey}", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler が呼ばれてはいけない")
	})

	for _, key := range []string{"2024-6-2", "today", "2024-06-02T00:00:00"} {
		r := httptest.NewRequest(http.MethodGet, "/schedule/"+key, nil)
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)

		resp := decodeResponse(t, w)
		assert.False(t, resp.Success, key)
		assert.Equal(t, "日付の形式が無効です", resp.Message)
	}
}

func TestDutyCtx(t *testing.T) {
	h := newTestHandler(t)

	mux := chi.NewRouter()
	var gotDuty domain.Duty
	mux.With(h.dutyCtx).Put("/assignments/{duty}", func(w http.ResponseWriter, r *http.Request) {
		gotDuty = r.Context().Value(DutyCtx).(domain.Duty)
	})

	r := httptest.NewRequest(http.MethodPut, "/assignments/祝福パン", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, domain.DutyBlessingBread, gotDuty)

	// パーセントエンコードされたパスでも同じように動く
	gotDuty = ""
	r = httptest.NewRequest(http.MethodPut, "/assignments/%E7%A5%9D%E7%A6%8F%E3%83%91%E3%83%B3", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	assert.Equal(t, domain.DutyBlessingBread, gotDuty)
}

func TestDutyCtxRejectsUnknownDuty(t *testing.T) {
	h := newTestHandler(t)

	mux := chi.NewRouter()
	mux.With(h.dutyCtx).Put("/assignments/{duty}", func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler が呼ばれてはいけない")
	})

	r := httptest.NewRequest(http.MethodPut, "/assignments/パス5", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, r)

	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "担当の名前が無効です", resp.Message)
}
