package handler

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/ja"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ja_translations "github.com/go-playground/validator/v10/translations/ja"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/hirakawa-ward/sacrament-roster/backend/internal/config"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/domain"
	"github.com/hirakawa-ward/sacrament-roster/backend/internal/stream"
)

// Store は handler が利用するストアの操作。*repository.Repository が実装する
type Store interface {
	CreateMember(member *domain.Member) error
	GetMemberByID(id string) (*domain.Member, error)
	GetAllMembers() ([]*domain.Member, error)
	UpdateMember(member *domain.Member) error
	DeleteMember(id string) error
	GetAssignmentsByDateKey(dateKey string) (domain.DutyAssignments, error)
	AssignDuty(dateKey string, duty domain.Duty, memberID string) error
	UnassignDuty(dateKey string, duty domain.Duty) error
	GetUnavailableMemberIDs(dateKey string) ([]string, error)
	ReplaceUnavailableMemberIDs(dateKey string, memberIDs []string) error
}

// Broker は変更通知の送信と購読。*stream.Broker が実装する
type Broker interface {
	Notify(ctx context.Context, collection string) error
	Subscribe() *stream.Subscription
	Snapshot(collection string) (stream.Event, error)
}

type Handler struct {
	validate     *validator.Validate
	config       *config.Config
	repository   Store
	translator   ut.Translator
	mailChannel  *amqp.Channel
	broker       Broker
	passwordHash []byte

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo Store, mailCh *amqp.Channel, broker Broker) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	ja := ja.New()
	uni := ut.New(ja, ja)
	trans, _ := uni.GetTranslator("ja")
	if err := ja_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	// 共有パスワードは起動時にハッシュ化して、以後は平文を持ち回らない
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Settings.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:     validate,
		config:       cfg,
		repository:   repo,
		translator:   trans,
		mailChannel:  mailCh,
		broker:       broker,
		passwordHash: passwordHash,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 認証関連
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
	})

	h.Mux.Get("/duties", h.GetDuties)
	h.Mux.Get("/events", h.StreamEvents)

	// メンバー名簿。閲覧は誰でもできるが、変更は設定画面のパスワードで守る
	h.Mux.Route("/members", func(r chi.Router) {
		r.Get("/", h.GetAllMembers)
		r.With(h.auth).Post("/", h.CreateMember)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.memberInfo)
			r.With(h.auth).Patch("/", h.UpdateMember)
			r.With(h.auth).Delete("/", h.DeleteMember)
		})
	})

	h.Mux.Route("/schedule/{dateKey}", func(r chi.Router) {
		r.Use(h.dateKeyCtx)
		r.Get("/", h.GetDaySchedule)
		r.Get("/eligible-members", h.GetEligibleMembers)
		r.Route("/assignments/{duty}", func(r chi.Router) {
			r.Use(h.dutyCtx)
			r.Put("/", h.AssignDuty)
			r.Delete("/", h.UnassignDuty)
		})
		r.Post("/unavailable-members", h.AddUnavailableMember)
		r.Delete("/unavailable-members/{memberID}", h.RemoveUnavailableMember)
		r.With(h.auth).Post("/notify", h.NotifyWeeklyRoster)
	})
}
