package seeders_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/appaccess/app/repositories"
	"github.com/shashiranjanraj/appaccess/database/seeders"
	"github.com/shashiranjanraj/appaccess/pkg/database"
)

func newRepo(t *testing.T) *repositories.CustomerRepository {
	t.Helper()
	db, err := database.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	repo := repositories.NewCustomerRepository(db)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.EnsureSchema(context.Background()))
	return repo
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"demo_customers", "bulk_transactions"}, seeders.Names())
}

func TestRun_All(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, seeders.Run(ctx, repo, &out))
	assert.Contains(t, out.String(), "Running seeder: demo_customers … done")
	assert.Contains(t, out.String(), "Running seeder: bulk_transactions … done")

	matches, err := repo.SearchByEmail(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matches, 7)
}

func TestRun_Named(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	var out bytes.Buffer

	require.NoError(t, seeders.Run(ctx, repo, &out, "demo_customers"))
	assert.NotContains(t, out.String(), "bulk_transactions")

	s, err := repo.FindWithTotals(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", s.Name)
	assert.InDelta(t, 1029.98, s.TotalSpent, 0.001)
}

func TestRun_Unknown(t *testing.T) {
	repo := newRepo(t)
	err := seeders.Run(context.Background(), repo, &bytes.Buffer{}, "nope")
	assert.ErrorContains(t, err, `"nope"`)
}
