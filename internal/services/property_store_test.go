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

func actor(id string, role domain.Role) *domain.Profile {
	return &domain.Profile{ID: id, Role: role}
}

func sampleInput() services.PropertyInput {
	return services.PropertyInput{
		Title: "Duplex in Ngor", Type: domain.TypeHouse, Price: 180000000,
		Bedrooms: 3, Bathrooms: 2, Location: "Ngor village", Region: "Dakar",
		Status: domain.StatusAvailable, Images: []string{"https://img.example/ngor.jpg", " "},
	}
}

func TestPropertyStore_FetchAndFilter(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	all, err := e.props.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)

	dakar, err := e.props.Filtered(ctx, domain.PropertyFilter{Region: "Dakar", Status: string(domain.StatusAvailable)})
	require.NoError(t, err)
	require.Len(t, dakar, 1)
	assert.Equal(t, "p-almadies-villa", dakar[0].ID)

	mine, err := e.props.ByAgent(ctx, repos.DemoAgent2ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)

	// callers get copies
	all[0].Title = "mutated"
	again, err := e.props.All(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Title)
}

func TestPropertyStore_AddUpdateDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	agent := actor(repos.DemoAgentID, domain.RoleAgent)

	_, err := e.props.Add(ctx, actor(repos.DemoClientID, domain.RoleClient), sampleInput())
	assert.ErrorIs(t, err, services.ErrForbidden)

	bad := sampleInput()
	bad.Price = 0
	_, err = e.props.Add(ctx, agent, bad)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	p, err := e.props.Add(ctx, agent, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, repos.DemoAgentID, p.AgentID)
	assert.Equal(t, []string{"https://img.example/ngor.jpg"}, p.Images())

	all, err := e.props.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 7)
	assert.Equal(t, p.ID, all[0].ID)

	in := services.InputFrom(*p)
	in.Status = domain.StatusSold
	updated, err := e.props.Update(ctx, agent, p.ID, in)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, updated.Status)

	got, err := e.props.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSold, got.Status)

	require.NoError(t, e.props.Delete(ctx, agent, p.ID))
	after, err := e.props.All(ctx)
	require.NoError(t, err)
	assert.Len(t, after, 6)
	for _, x := range after {
		assert.NotEqual(t, p.ID, x.ID)
	}
	_, err = e.props.Get(ctx, p.ID)
	assert.ErrorIs(t, err, repos.ErrNotFound)
}

func TestPropertyStore_Ownership(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	other := actor(repos.DemoAgent2ID, domain.RoleAgent)
	admin := actor(repos.DemoAdminID, domain.RoleAdmin)

	villa, err := e.props.Get(ctx, "p-almadies-villa")
	require.NoError(t, err)
	assert.False(t, services.CanEdit(other, *villa))
	assert.True(t, services.CanEdit(admin, *villa))
	assert.False(t, services.CanEdit(nil, *villa))

	_, err = e.props.Update(ctx, other, villa.ID, services.InputFrom(*villa))
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.ErrorIs(t, e.props.Delete(ctx, other, villa.ID), services.ErrForbidden)

	require.NoError(t, e.props.Delete(ctx, admin, villa.ID))
	rest, err := e.props.All(ctx)
	require.NoError(t, err)
	assert.Len(t, rest, 5)
}
