package pending

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memex/internal/domain"
	"memex/internal/pending/mocks"
	"memex/internal/pipeline"
	"memex/internal/pipeline/pipelinetest"
	"memex/internal/queue"
	"memex/internal/storage/sqlite"
)

type pipelineFunc func(ctx context.Context, sc pipeline.StepContext) pipeline.RunReport

func (f pipelineFunc) Run(ctx context.Context, sc pipeline.StepContext) pipeline.RunReport {
	return f(ctx, sc)
}

type ProcessorTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	local  *sqlite.PendingStore
	remote *mocks.MockRemotePending
	store  *pipelinetest.MemStore
	runs   atomic.Int32

	processor *Processor
}

func (s *ProcessorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(s.T().TempDir(), "memex.db"))
	s.Require().NoError(err)
	s.T().Cleanup(func() { db.Close() })

	s.local = sqlite.NewPendingStore(db)
	s.remote = mocks.NewMockRemotePending(s.ctrl)
	s.store = pipelinetest.NewMemStore()
	s.runs.Store(0)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	enrich := pipelineFunc(func(ctx context.Context, sc pipeline.StepContext) pipeline.RunReport {
		s.runs.Add(1)
		title := "Enriched"
		_, _ = s.store.UpdateItem(ctx, sc.ItemID, domain.ItemPatch{Title: &title})
		return pipeline.RunReport{ItemID: sc.ItemID}
	})
	q := queue.New(ctx, s.store, enrich, nil, logger)

	s.remote.EXPECT().UpdateStatus(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.processor = NewProcessor(s.local, s.remote, s.store, q, Config{Concurrency: 2}, logger)
}

func (s *ProcessorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestProcessorTestSuite(t *testing.T) {
	suite.Run(t, new(ProcessorTestSuite))
}

func (s *ProcessorTestSuite) status(url string) *domain.PendingItem {
	rec, err := s.local.GetByURL(context.Background(), url)
	s.Require().NoError(err)
	return rec
}

func (s *ProcessorTestSuite) TestProcessPendingItems_ReconcilesAll() {
	ctx := context.Background()
	created := time.Now().Add(-time.Minute).UTC()

	s.store.Put(domain.Item{
		ID:           "done",
		URL:          "https://example.com/done",
		Title:        "Done",
		Description:  "Already enriched",
		ThumbnailURL: "https://example.com/done.png",
		ContentType:  domain.ContentTypeBookmark,
	})

	s.remote.EXPECT().ListOpen(ctx).Return([]domain.PendingItem{
		{ID: "p1", URL: "https://example.com/new", Status: domain.PendingStatusPending, CreatedAt: created},
		{ID: "p2", URL: "https://example.com/done", Status: domain.PendingStatusProcessing, CreatedAt: created},
	}, nil)

	_, err := s.local.InsertIfAbsent(ctx, &domain.PendingItem{
		ID:      "p3",
		Content: "look at this https://example.com/shared later",
		Status:  domain.PendingStatusPending,
	})
	s.Require().NoError(err)

	summary := s.processor.ProcessPendingItems(ctx)

	s.Equal(2, summary.Completed)
	s.Equal(1, summary.Skipped)
	s.Zero(summary.Failed)
	s.EqualValues(2, s.runs.Load())

	p1 := s.status("https://example.com/new")
	s.Equal(domain.PendingStatusCompleted, p1.Status)
	s.NotEmpty(p1.ItemID)

	p2 := s.status("https://example.com/done")
	s.Equal(domain.PendingStatusCompleted, p2.Status)
	s.Equal("done", p2.ItemID)

	shared, err := s.store.FindByURL(ctx, "https://example.com/shared")
	s.Require().NoError(err)
	s.Equal("Enriched", shared.Title)

	open, err := s.local.ListOpen(ctx)
	s.Require().NoError(err)
	s.Empty(open)
}

func (s *ProcessorTestSuite) TestProcessPendingItems_FailureIsIsolated() {
	ctx := context.Background()
	s.remote.EXPECT().ListOpen(ctx).Return(nil, errors.New("remote unavailable"))

	for _, rec := range []domain.PendingItem{
		{ID: "empty", Status: domain.PendingStatusPending},
		{ID: "ok", URL: "https://example.com/ok", Status: domain.PendingStatusPending},
	} {
		_, err := s.local.InsertIfAbsent(ctx, &rec)
		s.Require().NoError(err)
	}

	summary := s.processor.ProcessPendingItems(ctx)

	s.Equal(1, summary.Completed)
	s.Equal(1, summary.Failed)
	s.Equal(domain.PendingStatusCompleted, s.status("https://example.com/ok").Status)

	failed := s.status("")
	s.Equal(domain.PendingStatusFailed, failed.Status)
	s.NotEmpty(failed.Error)
}

func (s *ProcessorTestSuite) TestProcessPendingItems_ExistingItemIsReenriched() {
	ctx := context.Background()
	s.store.Put(domain.Item{ID: "stub", URL: "https://example.com/stub", ContentType: domain.ContentTypeBookmark})
	s.remote.EXPECT().ListOpen(ctx).Return([]domain.PendingItem{
		{ID: "p1", URL: "https://example.com/stub", Status: domain.PendingStatusPending},
	}, nil)

	summary := s.processor.ProcessPendingItems(ctx)

	s.Equal(1, summary.Completed)
	s.Zero(s.store.Created())
	s.Equal("stub", s.status("https://example.com/stub").ItemID)
}

func (s *ProcessorTestSuite) TestProcessPendingItemByURL_PullsFromRemote() {
	ctx := context.Background()
	s.remote.EXPECT().GetByURL(ctx, "https://example.com/new").Return(&domain.PendingItem{
		ID:     "p1",
		URL:    "https://example.com/new",
		Status: domain.PendingStatusPending,
	}, nil)

	s.Require().NoError(s.processor.ProcessPendingItemByURL(ctx, " https://example.com/new "))

	s.Equal(domain.PendingStatusCompleted, s.status("https://example.com/new").Status)
	s.EqualValues(1, s.runs.Load())
}

func (s *ProcessorTestSuite) TestProcessPendingItemByURL_FinalizedIsIgnored() {
	ctx := context.Background()
	_, err := s.local.InsertIfAbsent(ctx, &domain.PendingItem{
		ID:     "p1",
		URL:    "https://example.com/old",
		Status: domain.PendingStatusCompleted,
	})
	s.Require().NoError(err)

	s.Require().NoError(s.processor.ProcessPendingItemByURL(ctx, "https://example.com/old"))
	s.Zero(s.runs.Load())
}

func (s *ProcessorTestSuite) TestProcessPendingItemByURL_Unknown() {
	ctx := context.Background()
	s.remote.EXPECT().GetByURL(ctx, "https://example.com/nope").
		Return(nil, domain.ErrNotFound)

	err := s.processor.ProcessPendingItemByURL(ctx, "https://example.com/nope")
	s.ErrorIs(err, domain.ErrNotFound)
}

func TestTarget(t *testing.T) {
	tests := []struct {
		rec   domain.PendingItem
		want  string
		isURL bool
	}{
		{domain.PendingItem{URL: " https://a.com "}, "https://a.com", true},
		{domain.PendingItem{Content: "see https://b.com/x, cool"}, "https://b.com/x", true},
		{domain.PendingItem{Content: " buy milk "}, "buy milk", false},
	}
	for _, tt := range tests {
		got, isURL := target(&tt.rec)
		if got != tt.want || isURL != tt.isURL {
			t.Errorf("target(%+v) = %q, %v; want %q, %v", tt.rec, got, isURL, tt.want, tt.isURL)
		}
	}
}
