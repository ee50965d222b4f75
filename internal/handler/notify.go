package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
)

// NotifyWeeklyRoster はその週の担当表をメールで配信するようワーカーに依頼する
func (h *Handler) NotifyWeeklyRoster(w http.ResponseWriter, r *http.Request) {
	dateKey := r.Context().Value(DateKeyCtx).(string)

	assignments, err := h.repository.GetAssignmentsByDateKey(dateKey)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	members, err := h.repository.GetAllMembers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	membersByID := make(map[string]*domain.Member, len(members))
	for _, m := range members {
		membersByID[m.ID] = m
	}

	rows := make([]domain.WeeklyRosterRow, 0, len(domain.Duties()))
	for _, duty := range domain.Duties() {
		name := "未定"
		if memberID, exists := assignments[duty]; exists && memberID != nil {
			if member, found := membersByID[*memberID]; found {
				name = member.Name
			} else {
				// 削除済みメンバーへの割り当てが残っている場合
				name = "不明なメンバー"
			}
		}
		rows = append(rows, domain.WeeklyRosterRow{Duty: string(duty), MemberName: name})
	}

	// メールを準備する
	mailMessage := domain.MailMessage{
		Type: "weekly_roster",
		To:   h.config.Email.RosterRecipient,
		Data: domain.WeeklyRosterMailData{
			DateKey: dateKey,
			Rows:    rows,
		},
	}

	// メールをシリアライズする
	mailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// メッセージキューに送る
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        mailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "担当表のメール送信を受け付けました", nil)
}
