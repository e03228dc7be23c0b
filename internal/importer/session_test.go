package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/embedarr/internal/batch"
	"github.com/vmunix/embedarr/internal/events"
	"github.com/vmunix/embedarr/internal/ingest"
	"github.com/vmunix/embedarr/internal/library"
	"github.com/vmunix/embedarr/internal/library/mocks"
	"github.com/vmunix/embedarr/pkg/sources"
)

const catalogID = 42

func setupStore(t *testing.T) *library.SQLiteStore {
	t.Helper()
	db, err := library.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return library.NewSQLiteStore(db)
}

func testConfig() Config {
	return Config{
		Insert:          batch.DefaultInsertOptions,
		Delete:          batch.DefaultDeleteOptions,
		DefaultLanguage: "vostfr",
	}
}

func showMeta() ingest.Meta {
	season := 1
	return ingest.Meta{Title: "Show", Kind: "anime", Season: &season}
}

func TestSession_Import(t *testing.T) {
	store := setupStore(t)
	s := NewSession(store, catalogID, testConfig())
	ctx := context.Background()

	res, err := s.Import(ctx, `var eps = ['https://sibnet.ru/v/1','https://sibnet.ru/v/2']`, showMeta())
	require.NoError(t, err)

	assert.Equal(t, sources.StrategyNamedArrays, res.Parse.Strategy)
	assert.Equal(t, batch.StatusDoneSuccess, res.Summary.Status)
	assert.Equal(t, 2, res.Summary.Succeeded)

	got := s.Sources()
	require.Len(t, got, 2)
	assert.Equal(t, "Show - Sibnet S01E01", got[0].Label)
	assert.Equal(t, "Show - Sibnet S01E02", got[1].Label)
	assert.NotEmpty(t, got[0].ID)

	stored, err := store.List(ctx, library.Filter{})
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestSession_Import_PartialDuplicates(t *testing.T) {
	store := setupStore(t)
	s := NewSession(store, catalogID, testConfig())
	ctx := context.Background()

	_, err := s.Import(ctx, "https://sibnet.ru/v/2\n", showMeta())
	require.NoError(t, err)

	res, err := s.Import(ctx, "https://sibnet.ru/v/1\nhttps://sibnet.ru/v/2\nhttps://sibnet.ru/v/3\n", showMeta())
	require.NoError(t, err)

	assert.Equal(t, batch.StatusDonePartial, res.Summary.Status)
	assert.Equal(t, 2, res.Summary.Succeeded)
	assert.Equal(t, 1, res.Summary.Failed)
	require.Len(t, res.Pending, 1)
	assert.Equal(t, "https://sibnet.ru/v/2", res.Pending[0].URL)
	require.Len(t, res.Summary.Failures, 1)
	assert.Equal(t, batch.KindConflict, res.Summary.Failures[0].Kind)

	assert.Len(t, s.Sources(), 3, "only committed records join the collection")
}

func TestSession_Import_RejectsBeforeJob(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl) // no calls expected
	s := NewSession(repo, catalogID, testConfig())
	ctx := context.Background()

	_, err := s.Import(ctx, "no urls in here", showMeta())
	assert.ErrorIs(t, err, ingest.ErrNoURLs)

	meta := showMeta()
	meta.Title = " \n "
	_, err = s.Import(ctx, "https://sibnet.ru/v/1", meta)
	var verr *ingest.ValidationError
	require.ErrorAs(t, err, &verr)

	meta = showMeta()
	meta.CatalogID = 7
	_, err = s.Import(ctx, "https://sibnet.ru/v/1", meta)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "bound to 42")
}

func TestSession_AddOne(t *testing.T) {
	store := setupStore(t)
	s := NewSession(store, catalogID, testConfig())
	ctx := context.Background()

	res, err := s.AddOne(ctx, showMeta(), "https://vudeo.net/embed-x.html", 4)
	require.NoError(t, err)
	assert.Equal(t, batch.StatusDoneSuccess, res.Summary.Status)

	got := s.Sources()
	require.Len(t, got, 1)
	assert.Equal(t, "Show - Vudeo S01E04", got[0].Label)
	assert.Equal(t, 4, got[0].Episode)

	_, err = s.AddOne(ctx, showMeta(), "not a url", 0)
	var verr *ingest.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Errors, 2)
}

func TestSession_Delete(t *testing.T) {
	store := setupStore(t)
	s := NewSession(store, catalogID, testConfig())
	ctx := context.Background()

	var lines []string
	for i := range 5 {
		lines = append(lines, fmt.Sprintf("https://sibnet.ru/v/%d", i))
	}
	_, err := s.Import(ctx, strings.Join(lines, "\n"), showMeta())
	require.NoError(t, err)

	// Reload from the store, as a fresh process would.
	fresh := NewSession(store, catalogID, testConfig())
	require.NoError(t, fresh.Load(ctx))
	require.Len(t, fresh.Sources(), 5)

	fresh.SelectAll()
	res, err := fresh.Delete(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, batch.StatusDoneSuccess, res.Summary.Status)
	assert.Len(t, res.Deleted, 5)
	assert.Empty(t, fresh.Sources())
	assert.Empty(t, fresh.Selection())

	_, err = fresh.Delete(ctx, nil)
	assert.ErrorIs(t, err, ErrNothingSelected)
}

func TestSession_Delete_MalformedIDs(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl) // no calls expected
	s := NewSession(repo, catalogID, testConfig())

	_, err := s.Delete(context.Background(), []string{uuid.NewString(), "not-a-uuid"})
	var verr *ingest.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "not-a-uuid")
}

func TestSession_Delete_FailedItemsStaySelected(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	srcs := make([]library.Source, 3)
	for i := range srcs {
		srcs[i] = library.Source{ID: uuid.NewString(), CatalogID: catalogID, Episode: i + 1}
	}
	ids := []string{srcs[0].ID, srcs[1].ID, srcs[2].ID}

	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(srcs, nil)
	repo.EXPECT().DeleteManyByIDs(gomock.Any(), ids).Return(errors.New("lock timeout"))
	repo.EXPECT().DeleteOneByID(gomock.Any(), ids[0]).Return(nil)
	repo.EXPECT().DeleteOneByID(gomock.Any(), ids[1]).Return(library.ErrPermission)
	repo.EXPECT().DeleteOneByID(gomock.Any(), ids[2]).Return(nil)

	s := NewSession(repo, catalogID, testConfig())
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))
	s.Select(ids...)

	res, err := s.Delete(ctx, nil)
	require.NoError(t, err)

	assert.Equal(t, batch.StatusDonePartial, res.Summary.Status)
	assert.Equal(t, []string{ids[1]}, res.Pending)
	assert.Equal(t, []string{ids[1]}, s.Selection())
	remaining := s.Sources()
	require.Len(t, remaining, 1)
	assert.Equal(t, ids[1], remaining[0].ID)
}

func TestSession_OneJobAtATime(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockRepository(ctrl)

	started := make(chan struct{})
	unblock := make(chan struct{})
	repo.EXPECT().InsertMany(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in []library.Source) ([]library.Source, error) {
			close(started)
			<-unblock
			return in, nil
		})

	s := NewSession(repo, catalogID, testConfig())
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := s.Import(ctx, "https://sibnet.ru/v/1", showMeta())
		done <- err
	}()

	<-started
	assert.True(t, s.Busy())
	_, err := s.Delete(ctx, []string{uuid.NewString()})
	assert.ErrorIs(t, err, ErrJobRunning)

	close(unblock)
	require.NoError(t, <-done)
	assert.False(t, s.Busy())
}

func TestSession_PublishesEvents(t *testing.T) {
	store := setupStore(t)
	bus := events.NewBus(nil, nil)
	defer bus.Close()
	ch := bus.Subscribe(events.EventBatchCompleted, 1)

	var snaps []batch.Snapshot
	s := NewSession(store, catalogID, testConfig(),
		WithBus(bus),
		WithReporter(batch.ReporterFunc(func(_ context.Context, snap batch.Snapshot) {
			snaps = append(snaps, snap)
		})))

	_, err := s.Import(context.Background(), "https://sibnet.ru/v/1", showMeta())
	require.NoError(t, err)

	e := <-ch
	completed, ok := e.(*events.BatchCompleted)
	require.True(t, ok)
	assert.Equal(t, batch.StatusDoneSuccess, completed.Status)
	assert.Equal(t, int64(catalogID), completed.EntityID())
	assert.NotEmpty(t, snaps)
}
