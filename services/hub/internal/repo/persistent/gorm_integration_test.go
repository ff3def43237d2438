//go:build integration

package persistent

import (
	"context"
	"testing"
	"time"

	"veltta-hub/migrations"
	"veltta-hub/pkg/database"
	"veltta-hub/pkg/models"
	"veltta-hub/services/hub/internal/entity"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

func setupGormStore(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("veltta_test"),
		postgres.WithUsername("veltta"),
		postgres.WithPassword("veltta_test"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(dsn)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	goose.SetBaseFS(migrations.FS)
	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.Up(sqlDB, "."))

	return NewGormStore(db)
}

func TestGormStore_VotingFlow(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	s := &entity.Suggestion{Name: "Ana", Suggestion: "Add supplier scorecard", Status: entity.StatusPending}
	require.NoError(t, store.Suggestions.Create(ctx, s))
	require.NotEmpty(t, s.ID)

	pending, err := store.Suggestions.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, store.Suggestions.UpdateStatus(ctx, s.ID, entity.StatusVoting))
	require.NoError(t, store.Votes.Create(ctx, s.ID, "voter_abc"))
	assert.ErrorIs(t, store.Votes.Create(ctx, s.ID, "voter_abc"), ErrConflict)
	require.NoError(t, store.Suggestions.IncrementVotes(ctx, s.ID))

	got, err := store.Suggestions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Votes)
	assert.Equal(t, entity.StatusVoting, got.Status)

	count, err := store.Votes.CountBySuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.Suggestions.Delete(ctx, s.ID))
	_, err = store.Suggestions.GetByID(ctx, s.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStore_ContentRoundTrip(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, SeedContents(ctx, store.Contents, models.InitialContents()))

	c := &entity.Content{
		Type:         entity.TypeTool,
		Title:        "Template RFP",
		VideoURL:     "https://www.youtube.com/embed/x",
		DownloadURL:  "https://cdn/rfp.docx",
		DownloadName: "RFP.docx",
		FileSize:     "12 KB",
		FileType:     "docx",
		ReadTime:     "5 min",
		Tags:         []string{"rfp"},
		CreatedAt:    time.Now().UTC().Add(time.Minute),
	}
	require.NoError(t, store.Contents.Create(ctx, c))

	list, err := store.Contents.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	first := list[0]
	assert.Equal(t, c.ID, first.ID)
	assert.Equal(t, "https://www.youtube.com/embed/x", first.VideoURL)
	assert.Equal(t, "https://cdn/rfp.docx", first.DownloadURL)
	assert.Equal(t, "RFP.docx", first.DownloadName)
	assert.Equal(t, "12 KB", first.FileSize)
	assert.Equal(t, "docx", first.FileType)
	assert.Equal(t, "5 min", first.ReadTime)
	assert.Equal(t, []string{"rfp"}, first.Tags)
}

func TestGormStore_LeadConflict(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	require.NoError(t, store.Leads.Create(ctx, &entity.Lead{Name: "Ana", Email: "ana@empresa.com", Source: entity.SourceCourseWaitlist}))
	err := store.Leads.Create(ctx, &entity.Lead{Name: "Ana", Email: "ana@empresa.com", Source: entity.SourceCourseWaitlist})
	assert.ErrorIs(t, err, ErrConflict)
}
