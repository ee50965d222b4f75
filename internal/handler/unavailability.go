package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

// AddUnavailableMember はその日の不在リストの末尾にメンバーを追加する。
// 重複の排除はしない（候補の絞り込みは選択側が行う）
func (h *Handler) AddUnavailableMember(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MemberID string `json:"memberID" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	dateKey := r.Context().Value(DateKeyCtx).(string)

	currentIDs, err := h.repository.GetUnavailableMemberIDs(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	newIDs := append(currentIDs, req.MemberID)
	if err := h.repository.ReplaceUnavailableMemberIDs(dateKey, newIDs); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionUnavailableMembers)
	h.successResponse(w, r, "不在メンバーを追加しました", newIDs)
}

// RemoveUnavailableMember は該当するメンバー ID をすべてリストから取り除く
func (h *Handler) RemoveUnavailableMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "memberID")
	dateKey := r.Context().Value(DateKeyCtx).(string)

	currentIDs, err := h.repository.GetUnavailableMemberIDs(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	newIDs := make([]string, 0, len(currentIDs))
	for _, id := range currentIDs {
		if id != memberID {
			newIDs = append(newIDs, id)
		}
	}

	if err := h.repository.ReplaceUnavailableMemberIDs(dateKey, newIDs); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionUnavailableMembers)
	h.successResponse(w, r, "不在メンバーを削除しました", newIDs)
}
