package handler

import (
	"fmt"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/aerops-dev/crew-scheduler/backend/internal/config"
	"github.com/aerops-dev/crew-scheduler/backend/internal/feed"
	"github.com/aerops-dev/crew-scheduler/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	feedClient  *feed.Client
	feedService *feed.Service
	location    *time.Location

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client, feedClient *feed.Client, feedService *feed.Service) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		feedClient:  feedClient,
		feedService: feedService,
		location:    loc,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.metrics)
	h.Mux.Use(h.recoverer)

	h.Mux.Handle("/metrics", promhttp.Handler())

	h.Mux.Route("/api", func(r chi.Router) {
		// raw provider proxy, kept for the flight board view
		r.Get("/flights", h.ProxyFlights)

		r.Route("/schedule", func(r chi.Router) {
			r.Post("/refresh", h.RefreshSchedule)
		})
		r.Get("/turnarounds", h.GetTurnarounds)

		r.Route("/teams", func(r chi.Router) {
			r.Get("/", h.GetAllTeams)
			r.Post("/", h.CreateTeam)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.team)
				r.Get("/", h.GetTeam)
				r.Patch("/", h.UpdateTeam)
				r.Delete("/", h.DeleteTeam)
			})
		})

		r.Route("/assignments", func(r chi.Router) {
			r.Get("/", h.GetAssignments)
			r.Post("/auto", h.AutoAssign)
			r.Post("/manual", h.ManualAssign)
			r.Post("/pin", h.PinAssignment)
		})

		r.Route("/planner", func(r chi.Router) {
			r.Post("/plan", h.PlanCapacity)
		})

		r.Get("/roster/{member}", h.GetMemberRoster)
	})
}
