package members

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/entrust/internal/common"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateListOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	for _, id := range []string{"COT-3000", "COT-1000", "COT-2000"} {
		_, err := r.Create(ctx, sample(id))
		require.NoError(t, err)
	}

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "COT-3000", list[0].ID)
	assert.Equal(t, "COT-1000", list[1].ID)
	assert.Equal(t, "COT-2000", list[2].ID)

	_, err = r.Create(ctx, sample("COT-1000"))
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	in := sample("COT-1001")
	in.Password = "secret"
	created, err := r.Create(ctx, in)
	require.NoError(t, err)
	assert.Empty(t, created.Password)

	created.Name = "mutated"
	got, err := r.Get(ctx, "COT-1001")
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)
}

func TestMemoryRepository_Replace(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, err := r.Create(ctx, sample("COT-1001"))
	require.NoError(t, err)

	upd := sample("COT-1001")
	upd.Location = "Coimbatore"
	got, err := r.Replace(ctx, upd, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, "Coimbatore", got.Location)

	_, err = r.Replace(ctx, upd, 1)
	assert.ErrorIs(t, err, common.ErrVersionConflict)

	// zero version is last write wins
	_, err = r.Replace(ctx, upd, 0)
	assert.NoError(t, err)

	_, err = r.Replace(ctx, sample("COT-4040"), 0)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a := sample("COT-1001")
	b := sample("COT-1002")
	b.Phone = "8000000000"
	b.Emergency = "9000000001"
	_, _ = r.Create(ctx, a)
	_, _ = r.Create(ctx, b)

	found, err := r.FindByLogin(ctx, "COT-1002")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "COT-1002", found[0].ID)

	found, err = r.FindByLogin(ctx, "9000000001")
	require.NoError(t, err)
	require.Len(t, found, 1)

	first, err := r.FindByPhone(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, "COT-1001", first.ID)

	byEmergency, err := r.FindByPhone(ctx, "9000000002")
	require.NoError(t, err)
	assert.Equal(t, "COT-1001", byEmergency.ID)

	_, err = r.FindByPhone(ctx, "0000")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _ = r.Create(ctx, sample("COT-1001"))

	got, err := r.UpdateStatus(ctx, "COT-1001", domain.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusActive, got.Status)
	assert.Equal(t, int64(2), got.Version)

	_, err = r.UpdateStatus(ctx, "COT-0000", domain.StatusActive)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
