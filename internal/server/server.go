// Package server assembles the fiber application: middleware, routes and
// error pages.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"immoportal/internal/config"
	"immoportal/internal/domain"
	"immoportal/internal/http/handlers"
	applog "immoportal/internal/log"
	"immoportal/internal/metrics"
	"immoportal/internal/repos"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Server struct {
	App      *fiber.App
	Deps     *handlers.Deps
	Registry *prometheus.Registry

	cfg      config.Config
	sessions *repos.SessionRepo
}

// New builds the application around an open, migrated database.
func New(cfg config.Config, db *sqlx.DB) *Server {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewCollector(reg)

	deps := handlers.NewDeps(db, cfg, m)
	reg.MustRegister(metrics.NewListingGauge(func() map[string]int {
		out := map[string]int{}
		list, err := deps.Properties.All(context.Background())
		if err != nil {
			return out
		}
		for _, p := range list {
			out[string(p.Status)]++
		}
		return out
	}))

	app := fiber.New(fiber.Config{
		Views:        NewEngine(cfg.TemplatesDir),
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: ErrorHandler,
	})

	s := &Server{App: app, Deps: deps, Registry: reg, cfg: cfg, sessions: repos.NewSessionRepo(db)}
	s.middleware(m)
	s.routes(m)
	return s
}

// ErrorHandler renders fiber errors as the friendly error page, or as JSON
// under /api/. Internal details are logged, never shown.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			msg = "Page not found"
		case fiber.StatusRequestEntityTooLarge:
			msg = "The submitted form is too large."
		case fiber.StatusMethodNotAllowed:
			msg = "This action is not allowed here."
		}
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg, "User": c.Locals("user")}); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}

func (s *Server) middleware(m *metrics.Collector) {
	app := s.App
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New(helmet.Config{
		// listing photos are served from third-party hosts
		CrossOriginEmbedderPolicy: "unsafe-none",
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(m.Middleware())
	// Attach the signed-in profile for templates, guards and logs
	app.Use(handlers.LoadSession(s.Deps.Auth))
	app.Use(limiter.New(limiter.Config{
		Max:        s.cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || p == "/healthz" || p == "/metrics"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests. Please slow down.")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   s.cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"err": err.Error()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{
				"Message": "Security check failed. Please refresh and try again.",
			})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})
}

func (s *Server) routes(m *metrics.Collector) {
	app, d := s.App, s.Deps

	log.Printf("[static] /static -> %s", s.cfg.StaticDir)
	app.Static("/static", s.cfg.StaticDir)

	// Public pages
	app.Get("/", d.PageHandler.Home)
	app.Get("/properties", d.PropertyHandler.List)
	app.Get("/properties/:id", d.PropertyHandler.Detail)
	app.Get("/services", d.PageHandler.Services)
	app.Get("/about", d.PageHandler.About)
	app.Get("/news", d.NewsHandler.List)
	app.Get("/news/:id", d.NewsHandler.Article)
	app.Get("/contact", d.PageHandler.ContactForm)
	app.Post("/contact", d.PageHandler.Contact)
	app.Get("/newsletter", d.PageHandler.NewsletterForm)
	app.Post("/newsletter", d.PageHandler.Subscribe)

	// Auth (sign-in throttled)
	app.Get("/auth/signin", d.AuthHandler.SignInForm)
	app.Post("/auth/signin", limiter.New(limiter.Config{
		Max:        s.cfg.LoginRateLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|signin"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.signin.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("signin", fiber.Map{
				"Err": "Too many attempts. Please try again later.", "CSRFToken": c.Locals("CSRFToken"),
			})
		},
	}), d.AuthHandler.SignIn)
	app.Get("/auth/signup", d.AuthHandler.SignUpForm)
	app.Post("/auth/signup", d.AuthHandler.SignUp)
	app.Post("/auth/signout", d.AuthHandler.SignOut)

	// Dashboard
	dash := app.Group("/dashboard", handlers.RequireAuth())
	dash.Get("/", d.DashboardHandler.Home)
	dash.Get("/profile", d.DashboardHandler.ProfileForm)
	dash.Post("/profile", d.DashboardHandler.UpdateProfile)
	dash.Post("/favorites/:id", handlers.RequireRole(domain.RoleClient), d.DashboardHandler.ToggleFavorite)

	manage := handlers.RequireRole(domain.RoleAdmin, domain.RoleAgent)
	dash.Get("/properties", d.PropertyHandler.DashboardList)
	dash.Get("/properties/new", manage, d.PropertyHandler.NewForm)
	dash.Post("/properties", manage, d.PropertyHandler.Create)
	dash.Get("/properties/:id", d.PropertyHandler.Detail)
	dash.Get("/properties/:id/edit", manage, d.PropertyHandler.EditForm)
	dash.Post("/properties/:id", manage, d.PropertyHandler.Update)
	dash.Post("/properties/:id/delete", manage, d.PropertyHandler.Delete)

	users := dash.Group("/users", handlers.RequireRole(domain.RoleAdmin))
	users.Get("/", d.UserHandler.List)
	users.Get("/new", d.UserHandler.NewForm)
	users.Post("/", d.UserHandler.Create)
	users.Get("/:id/edit", d.UserHandler.EditForm)
	users.Post("/:id", d.UserHandler.Update)
	users.Post("/:id/delete", d.UserHandler.Delete)

	// JSON API
	api := app.Group("/api/v1")
	api.Get("/properties", d.APIHandler.List)
	api.Get("/properties/:id", d.APIHandler.Property)
	api.Get("/session", d.APIHandler.Session)

	// Ops
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", metrics.Handler(s.Registry))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{
			"Message": "Page not found", "User": c.Locals("user"),
		})
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully. Expired
// sessions are purged in the background while running.
func (s *Server) Run(ctx context.Context) error {
	go s.purgeSessions(ctx, time.Hour)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on :%s", s.cfg.Port)
		errCh <- s.App.Listen(":" + s.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Printf("[server] shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.App.ShutdownWithContext(shutCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

func (s *Server) purgeSessions(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := s.sessions.Cleanup(ctx)
			if err != nil {
				applog.Background("error", "sessions.cleanup.fail", err, nil)
				continue
			}
			if n > 0 {
				applog.Background("info", "sessions.cleanup", nil, map[string]any{"removed": n})
			}
		}
	}
}
