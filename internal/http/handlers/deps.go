package handlers

import (
	"immoportal/internal/auth"
	"immoportal/internal/config"
	"immoportal/internal/metrics"
	"immoportal/internal/news"
	"immoportal/internal/repos"
	"immoportal/internal/services"

	"github.com/jmoiron/sqlx"
)

// Deps holds the long-lived services and the handlers built on them. The
// stores are shared by every request.
type Deps struct {
	Auth       *services.AuthService
	Properties *services.PropertyStore
	Users      *services.UserStore
	Favorites  *services.FavoriteService
	Inbox      *services.InboxService
	News       *news.Service

	AuthHandler      *AuthHandler
	PageHandler      *PageHandler
	PropertyHandler  *PropertyHandler
	DashboardHandler *DashboardHandler
	UserHandler      *UserHandler
	NewsHandler      *NewsHandler
	APIHandler       *APIHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, m *metrics.Collector) *Deps {
	profileRepo := repos.NewProfileRepo(db)
	sessionRepo := repos.NewSessionRepo(db)
	propRepo := repos.NewPropertyRepo(db)
	favRepo := repos.NewFavoriteRepo(db)
	inboxRepo := repos.NewInboxRepo(db)

	users := services.NewUserStore(profileRepo)
	props := services.NewPropertyStore(propRepo)
	favs := services.NewFavoriteService(favRepo, props)
	inbox := services.NewInboxService(inboxRepo)
	authSvc := &services.AuthService{
		Profiles: profileRepo,
		Sessions: sessionRepo,
		Tokens:   auth.NewTokenIssuer(cfg.SessionSecret, cfg.SessionTTL),
		Users:    users,
	}
	newsSvc := news.New(cfg.NewsFeedURL, cfg.NewsFeedTTL)

	return &Deps{
		Auth:       authSvc,
		Properties: props,
		Users:      users,
		Favorites:  favs,
		Inbox:      inbox,
		News:       newsSvc,

		AuthHandler:     &AuthHandler{Auth: authSvc, Metrics: m, SecureCookie: cfg.CookieSecure},
		PageHandler:     &PageHandler{Properties: props, Inbox: inbox},
		PropertyHandler: &PropertyHandler{Properties: props, Users: users, Favorites: favs, Metrics: m},
		DashboardHandler: &DashboardHandler{
			Auth: authSvc, Properties: props, Users: users, Favorites: favs, Inbox: inbox,
		},
		UserHandler: &UserHandler{Users: users},
		NewsHandler: &NewsHandler{News: newsSvc},
		APIHandler:  &APIHandler{Properties: props},
	}
}
