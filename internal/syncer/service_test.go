package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memex/internal/domain"
	"memex/internal/syncer/mocks"
)

type SyncServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	remote  *mocks.MockRemote
	queue   *mocks.MockOfflineQueue
	status  *mocks.MockStatusStore
	checker *mocks.MockConnectivityChecker

	service *Service
	logger  *slog.Logger
}

func (s *SyncServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.remote = mocks.NewMockRemote(s.ctrl)
	s.queue = mocks.NewMockOfflineQueue(s.ctrl)
	s.status = mocks.NewMockStatusStore(s.ctrl)
	s.checker = mocks.NewMockConnectivityChecker(s.ctrl)

	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.queue.EXPECT().Counts(gomock.Any()).Return(0, 0, nil).AnyTimes()
	s.status.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.service = NewService(s.remote, s.queue, s.status, s.checker, Config{MaxAttempts: 3}, s.logger)
}

func (s *SyncServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func (s *SyncServiceTestSuite) goOnline(ctx context.Context) {
	s.queue.EXPECT().Replayable(ctx, 3).Return(nil, nil)
	s.Require().NoError(s.service.SetOnline(ctx, true))
}

func entry(id int64, action domain.SyncAction, payload any) domain.OfflineQueueEntry {
	body, _ := json.Marshal(payload)
	return domain.OfflineQueueEntry{
		ID:       id,
		Action:   action,
		TargetID: "item",
		Payload:  body,
		Status:   domain.OfflineEntryPending,
	}
}

func (s *SyncServiceTestSuite) TestInit_StartsOffline() {
	ctx := context.Background()
	s.status.EXPECT().Load(ctx).Return(&domain.SyncStatus{Online: true, Syncing: true, LastError: "boom"}, nil)

	s.NoError(s.service.Init(ctx))

	st := s.service.Status()
	s.False(st.Online)
	s.False(st.Syncing)
	s.Equal("boom", st.LastError)
}

func (s *SyncServiceTestSuite) TestPush_OfflineQueuesWithoutRemoteCall() {
	ctx := context.Background()
	item := domain.RemoteItem{ID: "a", Title: "Title"}

	s.queue.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.OfflineQueueEntry) error {
			s.Equal(domain.SyncActionUpdateItem, e.Action)
			s.Equal("a", e.TargetID)
			s.Equal(domain.OfflineEntryPending, e.Status)

			var got domain.RemoteItem
			s.NoError(json.Unmarshal(e.Payload, &got))
			s.Equal("Title", got.Title)
			return nil
		},
	)

	s.NoError(s.service.Push(ctx, domain.SyncActionUpdateItem, "a", item))
}

func (s *SyncServiceTestSuite) TestPush_OnlineWritesRemote() {
	ctx := context.Background()
	s.goOnline(ctx)

	s.remote.EXPECT().UpsertItem(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, item *domain.RemoteItem) error {
			s.Equal("a", item.ID)
			return nil
		},
	)

	s.NoError(s.service.Push(ctx, domain.SyncActionCreateItem, "a", domain.RemoteItem{ID: "a"}))
	s.NotNil(s.service.Status().LastSyncAt)
}

func (s *SyncServiceTestSuite) TestPush_DeleteSendsTombstone() {
	ctx := context.Background()
	s.goOnline(ctx)

	deletedAt := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	s.remote.EXPECT().DeleteItem(ctx, domain.Tombstone{ID: "a", UserID: "u1", DeletedAt: deletedAt}).Return(nil)

	s.NoError(s.service.Push(ctx, domain.SyncActionDeleteItem, "a",
		domain.Tombstone{ID: "a", UserID: "u1", DeletedAt: deletedAt}))
}

func (s *SyncServiceTestSuite) TestPush_RemoteFailureFallsBackToQueue() {
	ctx := context.Background()
	s.goOnline(ctx)

	s.remote.EXPECT().UpsertItem(ctx, gomock.Any()).Return(errors.New("connection reset"))
	s.queue.EXPECT().Append(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, e *domain.OfflineQueueEntry) error {
			s.Equal("connection reset", e.LastError)
			return nil
		},
	)

	s.NoError(s.service.Push(ctx, domain.SyncActionUpdateItem, "a", domain.RemoteItem{ID: "a"}))
	s.Equal("connection reset", s.service.Status().LastError)
}

func (s *SyncServiceTestSuite) TestPush_AppendFailureIsReturned() {
	ctx := context.Background()
	s.queue.EXPECT().Append(ctx, gomock.Any()).Return(errors.New("disk full"))

	err := s.service.Push(ctx, domain.SyncActionUpdateItem, "a", domain.RemoteItem{ID: "a"})

	s.Error(err)
	s.Contains(err.Error(), "disk full")
}

func (s *SyncServiceTestSuite) TestDrain_ReplaysInOrderAndKeepsFailures() {
	ctx := context.Background()
	s.goOnline(ctx)

	entries := []domain.OfflineQueueEntry{
		entry(1, domain.SyncActionCreateItem, domain.RemoteItem{ID: "a"}),
		entry(2, domain.SyncActionUpdateItem, domain.RemoteItem{ID: "b"}),
		entry(3, domain.SyncActionDeleteItem, domain.Tombstone{ID: "c"}),
	}
	s.queue.EXPECT().Replayable(ctx, 3).Return(entries, nil)

	gomock.InOrder(
		s.remote.EXPECT().UpsertItem(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, item *domain.RemoteItem) error {
				s.Equal("a", item.ID)
				return nil
			},
		),
		s.queue.EXPECT().Delete(ctx, int64(1)).Return(nil),
		s.remote.EXPECT().UpsertItem(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, item *domain.RemoteItem) error {
				s.Equal("b", item.ID)
				return errors.New("timeout")
			},
		),
		s.queue.EXPECT().MarkFailed(ctx, int64(2), "timeout").Return(nil),
		s.remote.EXPECT().DeleteItem(ctx, gomock.Any()).Return(nil),
		s.queue.EXPECT().Delete(ctx, int64(3)).Return(nil),
	)

	stats, err := s.service.Drain(ctx)

	s.NoError(err)
	s.Equal(2, stats.Replayed)
	s.Equal(1, stats.Failed)
	s.False(s.service.Status().Syncing)
}

func (s *SyncServiceTestSuite) TestDrain_OfflineIsNoop() {
	stats, err := s.service.Drain(context.Background())

	s.NoError(err)
	s.Zero(stats.Replayed)
}

func (s *SyncServiceTestSuite) TestDrain_ListError() {
	ctx := context.Background()
	s.goOnline(ctx)

	s.queue.EXPECT().Replayable(ctx, 3).Return(nil, errors.New("locked"))

	_, err := s.service.Drain(ctx)

	s.Error(err)
	s.Equal("locked", s.service.Status().LastError)
}

func (s *SyncServiceTestSuite) TestProbe_TransitionDrains() {
	ctx := context.Background()

	s.checker.EXPECT().Check(ctx).Return(true)
	s.queue.EXPECT().Replayable(ctx, 3).Return([]domain.OfflineQueueEntry{
		entry(7, domain.SyncActionUpdateItem, domain.RemoteItem{ID: "a"}),
	}, nil)
	s.remote.EXPECT().UpsertItem(ctx, gomock.Any()).Return(nil)
	s.queue.EXPECT().Delete(ctx, int64(7)).Return(nil)

	st, err := s.service.Probe(ctx)

	s.NoError(err)
	s.True(st.Online)
	s.NotNil(st.LastSyncAt)
}

func (s *SyncServiceTestSuite) TestProbe_OfflineDoesNotDrain() {
	ctx := context.Background()
	s.checker.EXPECT().Check(ctx).Return(false)

	st, err := s.service.Probe(ctx)

	s.NoError(err)
	s.False(st.Online)
}

func (s *SyncServiceTestSuite) TestProbe_StayingOnlineWithEmptyQueueSkipsDrain() {
	ctx := context.Background()
	s.goOnline(ctx)

	s.checker.EXPECT().Check(ctx).Return(true)

	st, err := s.service.Probe(ctx)

	s.NoError(err)
	s.True(st.Online)
}
