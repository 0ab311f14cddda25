package services_test

import (
	"context"
	"testing"
	"time"

	"immoportal/internal/auth"
	"immoportal/internal/repos"
	"immoportal/internal/services"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

type env struct {
	db    *sqlx.DB
	auth  *services.AuthService
	users *services.UserStore
	props *services.PropertyStore
	favs  *services.FavoriteService
	inbox *services.InboxService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Seed(context.Background(), db, services.HashPassword))

	profiles := repos.NewProfileRepo(db)
	users := services.NewUserStore(profiles)
	props := services.NewPropertyStore(repos.NewPropertyRepo(db))
	return &env{
		db:    db,
		users: users,
		props: props,
		auth: &services.AuthService{
			Profiles: profiles,
			Sessions: repos.NewSessionRepo(db),
			Tokens:   auth.NewTokenIssuer("test-secret", time.Hour),
			Users:    users,
		},
		favs:  services.NewFavoriteService(repos.NewFavoriteRepo(db), props),
		inbox: services.NewInboxService(repos.NewInboxRepo(db)),
	}
}
