package postgres_test

import (
	"context"
	"testing"

	"github.com/dom/haikyu-team-builder/internal/repository/postgres"
	"github.com/dom/haikyu-team-builder/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBondRepository_GetAll(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewBondRepository(testDB.DB)
	ctx := context.Background()

	testutil.NewBondBuilder().WithName("Nekoma").Build(t, testDB.DB)
	testutil.NewBondBuilder().WithName("Karasuno").WithDescription("Fly high").Build(t, testDB.DB)

	bonds, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, bonds, 2)
	assert.Equal(t, "Karasuno", bonds[0].Name)
	require.NotNil(t, bonds[0].Description)
	assert.Equal(t, "Fly high", *bonds[0].Description)
	assert.Nil(t, bonds[1].Description)
}

func TestCharacterBondRepository_Replace(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repo := postgres.NewCharacterBondRepository(testDB.DB)
	ctx := context.Background()

	hinata := testutil.NewCharacterBuilder().WithName("Hinata").Build(t, testDB.DB)
	kageyama := testutil.NewCharacterBuilder().WithName("Kageyama").Build(t, testDB.DB)
	quick := testutil.NewBondBuilder().WithName("Freak Quick").WithMembers(hinata, kageyama).Build(t, testDB.DB)
	decoy := testutil.NewBondBuilder().WithName("Decoy").Build(t, testDB.DB)
	rivals := testutil.NewBondBuilder().WithName("Rivals").WithMembers(kageyama).Build(t, testDB.DB)

	ids, err := repo.GetBondIDs(ctx, hinata.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{quick.ID}, ids)

	require.NoError(t, repo.Replace(ctx, hinata.ID, []int64{decoy.ID, rivals.ID, decoy.ID}))
	ids, err = repo.GetBondIDs(ctx, hinata.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{decoy.ID, rivals.ID}, ids)

	// Kageyama's links are untouched.
	ids, err = repo.GetBondIDs(ctx, kageyama.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{quick.ID, rivals.ID}, ids)

	require.NoError(t, repo.Replace(ctx, hinata.ID, nil))
	ids, err = repo.GetBondIDs(ctx, hinata.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	links, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}
