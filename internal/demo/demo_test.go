package demo

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_Golden(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{
		Driver:    "sqlite",
		DSN:       filepath.Join(t.TempDir(), "demo.db"),
		BulkCount: 2,
		Out:       &out,
	})
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "demo", out.Bytes())
}

func TestRun_ConnectionFailure(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), Config{Driver: "oracle", DSN: "x", Out: &out})
	require.Error(t, err)

	assert.Contains(t, out.String(), "✗ Database connection failed")
	assert.Contains(t, out.String(), "✗ Application error:")
	assert.NotContains(t, out.String(), "Customer Registration Simulation")
	assert.NotContains(t, out.String(), "Database connection closed")
}

func TestRun_TwiceOnSameDatabase(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "demo.db")

	for _, wantJohn := range []string{"(ID: 1)", "(ID: 5)"} {
		var out bytes.Buffer
		err := Run(context.Background(), Config{Driver: "sqlite", DSN: dsn, BulkCount: 2, Out: &out})
		require.NoError(t, err, out.String())

		assert.Contains(t, out.String(), "✓ Database schema created")
		assert.Contains(t, out.String(), "✓ Added customer: John Doe "+wantJohn)
		assert.NotContains(t, out.String(), "✗")
	}
}
