package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

func (h *Handler) GetAllMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.repository.GetAllMembers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "メンバー一覧を取得しました", members)
}

func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required"`
		Priesthood string `json:"priesthood" validate:"required,oneof=執事 教師 祭司 メルキゼデク"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := &domain.Member{
		Name:       req.Name,
		Priesthood: domain.Priesthood(req.Priesthood),
	}

	if err := h.repository.CreateMember(member); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionMembers)
	h.successResponse(w, r, "メンバーを登録しました", member)
}

// UpdateMember は ID を除く全フィールドを上書きする
func (h *Handler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name       string `json:"name" validate:"required"`
		Priesthood string `json:"priesthood" validate:"required,oneof=執事 教師 祭司 メルキゼデク"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	member := r.Context().Value(MemberInfoCtx).(*domain.Member)
	member.Name = req.Name
	member.Priesthood = domain.Priesthood(req.Priesthood)

	if err := h.repository.UpdateMember(member); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "メンバー情報の更新に失敗しました。もう一度お試しください")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.notifyChange(stream.CollectionMembers)
	h.successResponse(w, r, "メンバー情報を更新しました", member)
}

// DeleteMember は無条件にメンバーを削除する。
// 過去・未来の割り当てや不在リストに残る ID は取り消さない
func (h *Handler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	member := r.Context().Value(MemberInfoCtx).(*domain.Member)

	if err := h.repository.DeleteMember(member.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionMembers)
	h.successResponse(w, r, "メンバーを削除しました", nil)
}

// notifyChange は書き込み後の変更通知を送る。
// 書き込みはもう確定しているので、リクエストのコンテキストが切れても通知は届ける。
// 通知の失敗で書き込み自体を失敗扱いにはしない
func (h *Handler) notifyChange(collection string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.broker.Notify(ctx, collection); err != nil {
		slog.Error("変更通知の送信に失敗しました", "collection", collection, "error", err)
	}
}
