package studio

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/flashcharts/internal/analytics"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/database/common"
	"github.com/Lumos-Labs-HQ/flashcharts/internal/types"
)

type emptySource struct{}

func (emptySource) GetAllTableNames(context.Context) ([]string, error) { return nil, nil }

func (emptySource) GetTableColumns(context.Context, string) ([]types.SchemaColumn, error) {
	return nil, nil
}

func newTestRegistry(max int) *sessionRegistry {
	pipeline := analytics.NewPipeline(common.SQLiteDialect, nil, nil)
	return newSessionRegistry(max, func(id string) *analytics.Session {
		return analytics.NewSession(id, emptySource{}, pipeline)
	})
}

func TestSessionRegistryReusesSessions(t *testing.T) {
	r := newTestRegistry(4)

	a := r.get("a")
	assert.Same(t, a, r.get("a"))
	assert.NotSame(t, a, r.get("b"))

	anon := r.get("")
	assert.NotEmpty(t, anon.ID())
	assert.Equal(t, 3, r.count())
}

func TestSessionRegistryEvictsLeastRecentlyUsed(t *testing.T) {
	r := newTestRegistry(2)

	first := r.get("first")
	time.Sleep(5 * time.Millisecond)
	r.get("second")
	time.Sleep(5 * time.Millisecond)
	_, err := r.get("second").Catalog(context.Background())
	require.NoError(t, err)

	r.get("third")
	assert.Equal(t, 2, r.count())
	assert.NotSame(t, first, r.get("first"))
}

func TestSessionRegistrySweep(t *testing.T) {
	r := newTestRegistry(10)
	r.get("old")
	time.Sleep(20 * time.Millisecond)
	r.get("fresh")

	assert.Equal(t, 1, r.sweep(10*time.Millisecond))
	assert.Equal(t, 1, r.count())
}
