package handler

import (
	"net/http"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/roster"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

func (h *Handler) GetDuties(w http.ResponseWriter, r *http.Request) {
	h.successResponse(w, r, "担当一覧を取得しました", domain.Duties())
}

// GetDaySchedule はその日の割り当てと不在リストを返す。
// 記録が無い日はすべての担当が未割り当てとして返る
func (h *Handler) GetDaySchedule(w http.ResponseWriter, r *http.Request) {
	dateKey := r.Context().Value(DateKeyCtx).(string)

	assignments, err := h.repository.GetAssignmentsByDateKey(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 行の無い担当も nil で埋めて、常に 6 担当すべてを返す
	for _, duty := range domain.Duties() {
		if _, exists := assignments[duty]; !exists {
			assignments[duty] = nil
		}
	}

	unavailableIDs, err := h.repository.GetUnavailableMemberIDs(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	schedule := &domain.DaySchedule{
		DateKey:              dateKey,
		Assignments:          assignments,
		UnavailableMemberIDs: unavailableIDs,
	}

	h.successResponse(w, r, "スケジュールを取得しました", schedule)
}

// AssignDuty はセルを無条件に上書きする。
// 選択時に候補を絞っているため、書き込み時の再検証はしない
func (h *Handler) AssignDuty(w http.ResponseWriter, r *http.Request) {
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
	duty := r.Context().Value(DutyCtx).(domain.Duty)

	if err := h.repository.AssignDuty(dateKey, duty, req.MemberID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionAssignments)
	h.successResponse(w, r, "担当を割り当てました", nil)
}

func (h *Handler) UnassignDuty(w http.ResponseWriter, r *http.Request) {
	dateKey := r.Context().Value(DateKeyCtx).(string)
	duty := r.Context().Value(DutyCtx).(domain.Duty)

	if err := h.repository.UnassignDuty(dateKey, duty); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.notifyChange(stream.CollectionAssignments)
	h.successResponse(w, r, "割り当てを解除しました", nil)
}

// GetEligibleMembers はその日その担当に割り当て可能なメンバーを返す。
// duty クエリを省略すると不在者を除いた全メンバー（不在登録の候補）を返す
func (h *Handler) GetEligibleMembers(w http.ResponseWriter, r *http.Request) {
	dateKey := r.Context().Value(DateKeyCtx).(string)

	duty := domain.Duty(r.URL.Query().Get("duty"))
	if duty != "" && !duty.IsValid() {
		h.errorResponse(w, r, "担当の名前が無効です")
		return
	}

	members, err := h.repository.GetAllMembers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	unavailableIDs, err := h.repository.GetUnavailableMemberIDs(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	eligible := roster.EligibleMembers(members, unavailableIDs, duty)

	h.successResponse(w, r, "割り当て可能なメンバーを取得しました", eligible)
}
