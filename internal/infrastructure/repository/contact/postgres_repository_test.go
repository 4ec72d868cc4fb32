//go:build integration

package contact

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/infrastructure/database/databasetest"
	"github.com/janhq/leads-api/internal/infrastructure/database/entities"
)

var pg *databasetest.Postgres

func TestMain(m *testing.M) {
	ctx := context.Background()
	var err error
	pg, err = databasetest.Start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "start postgres: %v\n", err)
		os.Exit(1)
	}
	code := m.Run()
	pg.Terminate(ctx)
	os.Exit(code)
}

func TestList_AggregatesSessions(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	ana := databasetest.Contact("Ana", "ana@x.com", 5511911112222)
	first := databasetest.Session(ana, base)
	second := databasetest.Session(ana, base.Add(48*time.Hour))
	lonely := databasetest.Contact("No Sessions", "", 0)
	databasetest.Seed(t, pg.Pool, ana, lonely, first, second)
	databasetest.Seed(t, pg.Pool, databasetest.Messages(first, 4)...)
	databasetest.Seed(t, pg.Pool, databasetest.Messages(second, 6)...)

	crmID := "CRM-9"
	lead := databasetest.Lead(second, "qualified")
	lead.CRMID = &crmID
	databasetest.Seed(t, pg.Pool, lead)

	page, err := NewPostgresRepository(pg.Pool).List(context.Background(), query.NewFilter(query.NewPagination(1, 20)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)

	c := page.Data[0]
	assert.Equal(t, ana.ID, c.ID)
	assert.Equal(t, int64(2), c.SessionCount)
	assert.Equal(t, int64(10), c.TotalMessageCount)
	assert.True(t, c.Transferred)
	assert.True(t, c.LastActivityAt.Equal(second.CreatedAt))
	require.NotNil(t, c.CRMID)
	assert.Equal(t, "CRM-9", *c.CRMID)
}

func TestList_OrderedByLastActivity(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	older := databasetest.Contact("Older", "", 0)
	newer := databasetest.Contact("Newer", "", 0)
	databasetest.Seed(t, pg.Pool, older, newer,
		databasetest.Session(older, base),
		databasetest.Session(newer, base.Add(time.Hour)))

	page, err := NewPostgresRepository(pg.Pool).List(context.Background(), query.NewFilter(query.NewPagination(1, 20)))
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, newer.ID, page.Data[0].ID)
	assert.False(t, page.Data[0].Transferred)
	assert.Nil(t, page.Data[0].CRMID)
}

func TestSearch_ByName(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	ana := databasetest.Contact("Ana Souza", "", 0)
	bob := databasetest.Contact("Bob", "", 0)
	databasetest.Seed(t, pg.Pool, ana, bob,
		databasetest.Session(ana, time.Now().UTC()),
		databasetest.Session(ana, time.Now().UTC()),
		databasetest.Session(bob, time.Now().UTC()))

	page, err := NewPostgresRepository(pg.Pool).List(context.Background(), query.NewSearchFilter("souza", query.NewPagination(1, 20)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, int64(2), page.Data[0].SessionCount)
}

func TestSearch_SkipsContactsWithoutSessions(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	active := databasetest.Contact("Carla Mendes", "", 0)
	idle := databasetest.Contact("Carla Idle", "carla@idle.com", 0)
	databasetest.Seed(t, pg.Pool, active, idle, databasetest.Session(active, time.Now().UTC()))

	page, err := NewPostgresRepository(pg.Pool).List(context.Background(), query.NewSearchFilter("carla", query.NewPagination(1, 20)))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, active.ID, page.Data[0].ID)
	for _, c := range page.Data {
		assert.NotEqual(t, idle.ID, c.ID)
	}
}

func TestFindByID_ComposesAcrossSessions(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	base := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)

	ana := databasetest.Contact("Ana", "", 5511911112222)
	later := databasetest.Session(ana, base.Add(24*time.Hour))
	earlier := databasetest.Session(ana, base)
	databasetest.Seed(t, pg.Pool, ana, later, earlier)
	databasetest.Seed(t, pg.Pool, databasetest.Messages(later, 2)...)
	databasetest.Seed(t, pg.Pool, databasetest.Messages(earlier, 1)...)
	databasetest.Seed(t, pg.Pool,
		&entities.KnowledgeVault{ContactID: ana.ID, SessionID: later.ID, Key: "roof", Value: "tile"},
		&entities.SessionDocument{SessionID: earlier.ID, ImageID: "img-1", Link: "https://files/img-1"},
		databasetest.Lead(earlier, "qualified"))

	detail, err := NewPostgresRepository(pg.Pool).FindByID(context.Background(), ana.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)

	require.Len(t, detail.Sessions, 2)
	assert.Equal(t, earlier.ID, detail.Sessions[0].ID)
	assert.True(t, detail.Sessions[0].Transferred)
	assert.Equal(t, int64(1), detail.Sessions[0].MessageCount)
	assert.False(t, detail.Sessions[1].Transferred)

	require.Len(t, detail.Messages, 3)
	assert.Equal(t, earlier.ID, detail.Messages[0].SessionID)
	assert.Len(t, detail.KnowledgeVault, 1)
	require.Len(t, detail.Documents, 1)
	assert.Nil(t, detail.Documents[0].Category)
	assert.Equal(t, "img-1", detail.Documents[0].ImageID)
}

func TestFindByID_NotFound(t *testing.T) {
	databasetest.Reset(t, pg.Pool)
	lonely := databasetest.Contact("No Sessions", "", 0)
	databasetest.Seed(t, pg.Pool, lonely)

	repo := NewPostgresRepository(pg.Pool)
	for _, id := range []string{lonely.ID, "not-a-uuid"} {
		detail, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Nil(t, detail)
	}
}
