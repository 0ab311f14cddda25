package services_test

import (
	"context"
	"testing"

	"immoportal/internal/domain"
	"immoportal/internal/repos"
	"immoportal/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	stats, err := e.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.UserStats{Total: 4, Admins: 1, Agents: 2, Clients: 1}, stats)

	p, err := e.users.Add(ctx, services.NewUser{
		FullName: "Mariama Ka", Email: "mariama@example.com", Role: domain.RoleAgent, Password: "Str0ng!pass",
	})
	require.NoError(t, err)

	_, err = e.users.Add(ctx, services.NewUser{
		FullName: "Dup", Email: "MARIAMA@example.com", Role: domain.RoleClient, Password: "Str0ng!pass",
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	_, err = e.users.Add(ctx, services.NewUser{FullName: "X", Email: "x@example.com", Role: "owner"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	up, err := e.users.Update(ctx, p.ID, services.UserUpdate{
		FullName: "Mariama Ka", Email: "mariama@example.com", Role: domain.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, up.Role)

	_, err = e.users.Update(ctx, p.ID, services.UserUpdate{
		FullName: "Mariama Ka", Email: "awa@immoportal.test", Role: domain.RoleAdmin,
	})
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	stats, err = e.users.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 2, stats.Admins)

	assert.ErrorIs(t, e.users.Delete(ctx, repos.DemoAdminID, repos.DemoAdminID), services.ErrSelfDelete)
	require.NoError(t, e.users.Delete(ctx, repos.DemoAdminID, p.ID))
	_, err = e.users.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repos.ErrNotFound)
	assert.ErrorIs(t, e.users.Delete(ctx, repos.DemoAdminID, p.ID), repos.ErrNotFound)
}

func TestFavoriteService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	client := &domain.Profile{ID: repos.DemoClientID, Role: domain.RoleClient}

	on, err := e.favs.Toggle(ctx, client, "p-saly-apartment")
	require.NoError(t, err)
	assert.True(t, on)

	ids, err := e.favs.IDs(ctx, client.ID)
	require.NoError(t, err)
	assert.True(t, ids["p-saly-apartment"])

	on, err = e.favs.Toggle(ctx, client, "p-saly-apartment")
	require.NoError(t, err)
	assert.False(t, on)

	list, err := e.favs.List(ctx, client.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = e.favs.Toggle(ctx, client, "p-missing")
	assert.ErrorIs(t, err, repos.ErrNotFound)

	_, err = e.favs.Toggle(ctx, &domain.Profile{ID: repos.DemoAgentID, Role: domain.RoleAgent}, "p-saly-apartment")
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestInboxService(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.inbox.Contact(ctx, services.ContactInput{Name: "A", Email: "a@example.com", Subject: "Hi"})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	m, err := e.inbox.Contact(ctx, services.ContactInput{Name: "A", Email: "a@example.com", Subject: "Hi", Message: "Visit?"})
	require.NoError(t, err)
	recent, err := e.inbox.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, m.ID, recent[0].ID)

	added, err := e.inbox.Subscribe(ctx, "a@example.com")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = e.inbox.Subscribe(ctx, "a@example.com")
	require.NoError(t, err)
	assert.False(t, added)
}
