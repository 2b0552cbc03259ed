package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bcardz/bcard-backend/api/controllers"
	"github.com/bcardz/bcard-backend/api/middleware"
	"github.com/bcardz/bcard-backend/internal/cards"
	"github.com/bcardz/bcard-backend/internal/users"
	"github.com/bcardz/bcard-backend/pkg/config"
	"github.com/bcardz/bcard-backend/pkg/db"
	"github.com/bcardz/bcard-backend/pkg/logger"
	"github.com/bcardz/bcard-backend/pkg/metrics"
	"github.com/bcardz/bcard-backend/pkg/redis"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           db.Pinger
	Redis        *redis.Client
	HTTPMetrics  *metrics.HTTPMetrics
	MetricsHTTP  http.Handler
	UsersService users.Service
	CardsService cards.Service
}

// NewRouter assembles the full route tree.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, logg))
	})

	metricsHandler := p.MetricsHTTP
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/users", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).
			Post("/", controllers.UsersRegister(p.UsersService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).
			Post("/login", controllers.UsersLogin(p.UsersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.With(middleware.RequireAdmin(logg)).
				Get("/", controllers.UsersList(p.UsersService, logg))

			r.Route("/{id}", func(r chi.Router) {
				r.Use(middleware.RequireSelfOrAdmin("id", logg))
				r.Get("/", controllers.UsersGet(p.UsersService, logg))
				r.Put("/", controllers.UsersUpdate(p.UsersService, logg))
				r.Patch("/", controllers.UsersSetBusiness(p.UsersService, logg))
				r.Delete("/", controllers.UsersDelete(p.UsersService, logg))
			})
		})
	})

	r.Route("/cards", func(r chi.Router) {
		r.Get("/", controllers.CardsList(p.CardsService, logg))
		r.Get("/{id}", controllers.CardsGet(p.CardsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))

			r.Get("/my-cards", controllers.CardsListMine(p.CardsService, logg))
			r.With(middleware.RequireBusiness(logg)).
				Post("/", controllers.CardsCreate(p.CardsService, logg))
			r.With(middleware.RequireAdmin(logg)).
				Patch("/bizz-number/{id}", controllers.CardsSetBizNumber(p.CardsService, logg))

			// ownership of update/delete is enforced in the service
			r.Put("/{id}", controllers.CardsUpdate(p.CardsService, logg))
			r.Patch("/{id}", controllers.CardsToggleLike(p.CardsService, logg))
			r.Delete("/{id}", controllers.CardsDelete(p.CardsService, logg))
		})
	})

	return r
}
