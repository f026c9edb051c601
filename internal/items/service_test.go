package items

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"memex/internal/domain"
	"memex/internal/items/mocks"
	"memex/internal/storage/sqlite"
)

type ItemServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	db     *sqlx.DB
	syncer *mocks.MockSyncer
	svc    *Service
}

func (s *ItemServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.syncer = mocks.NewMockSyncer(s.ctrl)

	db, err := sqlite.Open(context.Background(), filepath.Join(s.T().TempDir(), "memex.db"))
	s.Require().NoError(err)
	s.db = db

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s.svc = NewService(sqlite.NewItemStore(db), s.syncer, "user-1", logger)
}

func (s *ItemServiceTestSuite) TearDownTest() {
	s.db.Close()
	s.ctrl.Finish()
}

func TestItemServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ItemServiceTestSuite))
}

func (s *ItemServiceTestSuite) create(url string) *domain.Item {
	s.syncer.EXPECT().Push(gomock.Any(), domain.SyncActionCreateItem, gomock.Any(), gomock.Any()).Return(nil)
	item, err := s.svc.CreateItem(context.Background(), domain.NewItem{URL: url, Source: domain.CaptureSourceApp})
	s.Require().NoError(err)
	return item
}

func (s *ItemServiceTestSuite) TestCreateItem_DefaultsToBookmark() {
	ctx := context.Background()

	s.syncer.EXPECT().Push(ctx, domain.SyncActionCreateItem, gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.SyncAction, id string, payload any) error {
			row, ok := payload.(domain.RemoteItem)
			s.Require().True(ok)
			s.Equal(id, row.ID)
			s.Equal("user-1", row.UserID)
			s.Equal(domain.ContentTypeBookmark, row.ContentType)
			return nil
		},
	)

	item, err := s.svc.CreateItem(ctx, domain.NewItem{URL: " https://example.com/a ", Content: "shared text"})

	s.Require().NoError(err)
	s.NotEmpty(item.ID)
	s.Equal("https://example.com/a", item.URL)
	s.Equal("shared text", item.RawText)

	found, err := s.svc.FindByURL(ctx, "HTTPS://EXAMPLE.COM/A")
	s.Require().NoError(err)
	s.Equal(item.ID, found.ID)
}

func (s *ItemServiceTestSuite) TestUpdateItem_PersistsAndPushes() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	title := "Real title"
	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).Return(nil)

	updated, err := s.svc.UpdateItem(ctx, item.ID, domain.ItemPatch{Title: &title})

	s.Require().NoError(err)
	s.Equal("Real title", updated.Title)

	stored, err := s.svc.GetItem(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal("Real title", stored.Title)
	s.True(stored.UpdatedAt.Equal(updated.UpdatedAt))
}

func (s *ItemServiceTestSuite) TestUpdateItem_NoChangeSkipsPush() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	url := item.URL
	_, err := s.svc.UpdateItem(ctx, item.ID, domain.ItemPatch{URL: &url})

	s.NoError(err)
}

func (s *ItemServiceTestSuite) TestUpdateItem_IgnoresDowngradeToBookmark() {
	ctx := context.Background()
	item := s.create("https://www.youtube.com/watch?v=abc")

	youtube := domain.ContentTypeYouTube
	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).Return(nil)
	_, err := s.svc.UpdateItem(ctx, item.ID, domain.ItemPatch{ContentType: &youtube})
	s.Require().NoError(err)

	bookmark := domain.ContentTypeBookmark
	got, err := s.svc.UpdateItem(ctx, item.ID, domain.ItemPatch{ContentType: &bookmark})

	s.Require().NoError(err)
	s.Equal(domain.ContentTypeYouTube, got.ContentType)
}

func (s *ItemServiceTestSuite) TestDeleteItem_TombstonesAndHides() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	s.syncer.EXPECT().Push(ctx, domain.SyncActionDeleteItem, item.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.SyncAction, _ string, payload any) error {
			ts, ok := payload.(domain.Tombstone)
			s.Require().True(ok)
			s.Equal(item.ID, ts.ID)
			s.Equal("user-1", ts.UserID)
			s.False(ts.DeletedAt.IsZero())
			return nil
		},
	)

	s.Require().NoError(s.svc.DeleteItem(ctx, item.ID))

	stored, err := s.svc.GetItem(ctx, item.ID)
	s.Require().NoError(err)
	s.True(stored.IsDeleted)
	s.NotNil(stored.DeletedAt)

	visible, err := s.svc.VisibleItems(ctx, true)
	s.Require().NoError(err)
	s.Empty(visible)

	_, err = s.svc.FindByURL(ctx, item.URL)
	s.ErrorIs(err, domain.ErrNotFound)

	// Deleting twice is a no-op.
	s.NoError(s.svc.DeleteItem(ctx, item.ID))
}

func (s *ItemServiceTestSuite) TestArchive_HiddenUnlessIncluded() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).Return(nil).Times(2)

	archived, err := s.svc.ArchiveItem(ctx, item.ID, true)
	s.Require().NoError(err)
	s.True(archived.IsArchived)
	s.True(archived.AutoArchived)
	s.NotNil(archived.ArchivedAt)

	visible, err := s.svc.VisibleItems(ctx, false)
	s.Require().NoError(err)
	s.Empty(visible)

	visible, err = s.svc.VisibleItems(ctx, true)
	s.Require().NoError(err)
	s.Len(visible, 1)

	restored, err := s.svc.UnarchiveItem(ctx, item.ID)
	s.Require().NoError(err)
	s.False(restored.IsArchived)
	s.False(restored.AutoArchived)
	s.Nil(restored.ArchivedAt)
}

func (s *ItemServiceTestSuite) TestUpsertMetadata_MergesFields() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).Return(nil).Times(2)

	published := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	s.Require().NoError(s.svc.UpsertMetadata(ctx, item.ID, domain.ItemMetadata{Author: "Ann", Domain: "example.com"}))
	s.Require().NoError(s.svc.UpsertMetadata(ctx, item.ID, domain.ItemMetadata{Username: "ann", PublishedDate: &published}))

	// Same values again change nothing and are not pushed.
	s.Require().NoError(s.svc.UpsertMetadata(ctx, item.ID, domain.ItemMetadata{Author: "Ann"}))

	md, err := s.svc.GetMetadata(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal("Ann", md.Author)
	s.Equal("ann", md.Username)
	s.Equal("example.com", md.Domain)
	s.True(md.PublishedDate.Equal(published))
}

func (s *ItemServiceTestSuite) TestUpsertTypeMetadata_ReplacesAndIsIdempotent() {
	ctx := context.Background()
	item := s.create("https://example.com/a")

	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.SyncAction, _ string, payload any) error {
			row := payload.(domain.RemoteItem)
			s.Require().NotNil(row.TypeMetadata)
			s.Equal("abc", row.TypeMetadata.VideoID)
			return nil
		},
	)

	tmd := domain.ItemTypeMetadata{VideoID: "abc", ImageURLs: []string{"https://img/1.jpg"}}
	s.Require().NoError(s.svc.UpsertTypeMetadata(ctx, item.ID, tmd))
	s.Require().NoError(s.svc.UpsertTypeMetadata(ctx, item.ID, tmd))

	got, err := s.svc.GetTypeMetadata(ctx, item.ID)
	s.Require().NoError(err)
	s.Equal(domain.ContentTypeBookmark, got.ContentType)
	s.Equal([]string{"https://img/1.jpg"}, got.ImageURLs)
}

func (s *ItemServiceTestSuite) TestGetMetadata_MissingIsNil() {
	item := s.create("https://example.com/a")

	md, err := s.svc.GetMetadata(context.Background(), item.ID)
	s.NoError(err)
	s.Nil(md)

	tmd, err := s.svc.GetTypeMetadata(context.Background(), item.ID)
	s.NoError(err)
	s.Nil(tmd)
}

func (s *ItemServiceTestSuite) TestMetadataPushes_StrictlyIncreasingUpdatedAt() {
	ctx := context.Background()
	item := s.create("https://www.youtube.com/watch?v=abc")

	frozen := item.UpdatedAt
	s.svc.now = func() time.Time { return frozen }

	var pushed []time.Time
	s.syncer.EXPECT().Push(ctx, domain.SyncActionUpdateItem, item.ID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ domain.SyncAction, _ string, payload any) error {
			pushed = append(pushed, payload.(domain.RemoteItem).UpdatedAt)
			return nil
		},
	).Times(3)

	s.Require().NoError(s.svc.UpsertMetadata(ctx, item.ID, domain.ItemMetadata{Author: "Ann"}))
	s.Require().NoError(s.svc.UpsertTypeMetadata(ctx, item.ID, domain.ItemTypeMetadata{VideoID: "abc"}))
	s.Require().NoError(s.svc.UpsertTypeMetadata(ctx, item.ID, domain.ItemTypeMetadata{VideoID: "abc", Transcript: "hello"}))

	s.Require().Len(pushed, 3)
	s.True(pushed[0].After(item.UpdatedAt))
	s.True(pushed[1].After(pushed[0]))
	s.True(pushed[2].After(pushed[1]))

	stored, err := s.svc.GetItem(ctx, item.ID)
	s.Require().NoError(err)
	s.True(stored.UpdatedAt.Equal(pushed[2]))
}
