package memecat_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/memecat/memecat"
)

type SpyMemeRepo struct {
	mock.Mock
}

func (s *SpyMemeRepo) Upsert(ctx context.Context, res memecat.SyncResult) (memecat.Meme, error) {
	args := s.Called(ctx, res)
	return args.Get(0).(memecat.Meme), args.Error(1)
}

func (s *SpyMemeRepo) Get(ctx context.Context, id int64) (memecat.Meme, error) {
	args := s.Called(ctx, id)
	return args.Get(0).(memecat.Meme), args.Error(1)
}

func (s *SpyMemeRepo) GetByName(ctx context.Context, name string) (memecat.Meme, error) {
	args := s.Called(ctx, name)
	return args.Get(0).(memecat.Meme), args.Error(1)
}

func (s *SpyMemeRepo) List(ctx context.Context, q memecat.ListQuery) ([]memecat.Meme, error) {
	args := s.Called(ctx, q)
	return args.Get(0).([]memecat.Meme), args.Error(1)
}

func (s *SpyMemeRepo) Update(ctx context.Context, id int64, patch memecat.MemePatch) (memecat.Meme, error) {
	args := s.Called(ctx, id, patch)
	return args.Get(0).(memecat.Meme), args.Error(1)
}

func (s *SpyMemeRepo) Delete(ctx context.Context, id int64) error {
	args := s.Called(ctx, id)
	return args.Error(0)
}

type SpyGateway struct {
	mock.Mock
}

func (s *SpyGateway) CreateOrUpdate(ctx context.Context, name string, content io.Reader, description string) (memecat.SyncResult, error) {
	args := s.Called(ctx, name, content, description)
	return args.Get(0).(memecat.SyncResult), args.Error(1)
}

func (s *SpyGateway) Get(ctx context.Context, name string) (memecat.SyncResult, error) {
	args := s.Called(ctx, name)
	return args.Get(0).(memecat.SyncResult), args.Error(1)
}

func (s *SpyGateway) List(ctx context.Context) ([]memecat.SyncResult, error) {
	args := s.Called(ctx)
	return args.Get(0).([]memecat.SyncResult), args.Error(1)
}

func (s *SpyGateway) Delete(ctx context.Context, name string) (memecat.SyncResult, error) {
	args := s.Called(ctx, name)
	return args.Get(0).(memecat.SyncResult), args.Error(1)
}

func NewCatalogService(t *testing.T) (*memecat.CatalogService, *SpyMemeRepo, *SpyGateway) {
	t.Helper()
	spyRepo := new(SpyMemeRepo)
	spyGateway := new(SpyGateway)
	s, err := memecat.NewCatalogService(spyRepo, spyGateway)
	assert.NoError(t, err, "new catalog service")
	return s, spyRepo, spyGateway
}

func TestCatalogService_Create(t *testing.T) {
	t.Run("success - new meme", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("image bytes")
		now := memecat.NormalizeTime(time.Now())

		syncRes := memecat.SyncResult{
			Status:        "Modified",
			Name:          "shark.jpg",
			Description:   memecat.StringPtr("test"),
			LastUpdatedAt: now,
		}
		expected := memecat.Meme{
			ID:            1,
			Name:          "shark.jpg",
			Description:   memecat.StringPtr("test"),
			LastUpdatedAt: now,
		}

		gateway.On("CreateOrUpdate", ctx, "shark.jpg", content, "test").Return(syncRes, nil)
		repo.On("Upsert", ctx, syncRes).Return(expected, nil)

		meme, err := service.Create(ctx, "shark.jpg", content, "test")
		assert.NoError(t, err)
		assert.Equal(t, expected, meme)

		gateway.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("success - re-upload keeps existing id", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("new bytes")
		now := memecat.NormalizeTime(time.Now())

		syncRes := memecat.SyncResult{
			Status:        "Modified",
			Name:          "shark.jpg",
			Description:   memecat.StringPtr("updated"),
			LastUpdatedAt: now,
		}
		existing := memecat.Meme{
			ID:            7,
			Name:          "shark.jpg",
			Description:   memecat.StringPtr("updated"),
			LastUpdatedAt: now,
		}

		gateway.On("CreateOrUpdate", ctx, "shark.jpg", content, "updated").Return(syncRes, nil)
		repo.On("Upsert", ctx, syncRes).Return(existing, nil)

		meme, err := service.Create(ctx, "shark.jpg", content, "updated")
		assert.NoError(t, err)
		assert.Equal(t, int64(7), meme.ID)

		gateway.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("error - invalid name", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("data")

		_, err := service.Create(ctx, "../etc/passwd", content, "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrInvalidInput)

		gateway.AssertNotCalled(t, "CreateOrUpdate")
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("error - empty name", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("data")

		_, err := service.Create(ctx, "", content, "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrInvalidInput)

		gateway.AssertNotCalled(t, "CreateOrUpdate")
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("error - gateway failure leaves catalog untouched", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("data")

		gateway.On("CreateOrUpdate", ctx, "cat.png", content, "").
			Return(memecat.SyncResult{}, memecat.ErrStorageUnavailable)

		_, err := service.Create(ctx, "cat.png", content, "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrStorageUnavailable)

		gateway.AssertExpectations(t)
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("error - unconfirmed write propagates", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("data")

		gateway.On("CreateOrUpdate", ctx, "cat.png", content, "").
			Return(memecat.SyncResult{}, memecat.ErrUnprocessable)

		_, err := service.Create(ctx, "cat.png", content, "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrUnprocessable)

		gateway.AssertExpectations(t)
		repo.AssertNotCalled(t, "Upsert")
	})

	t.Run("error - upsert fails after confirmed write", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		content := bytes.NewBufferString("data")

		syncRes := memecat.SyncResult{Status: "Modified", Name: "cat.png"}
		dbErr := errors.New("database error")

		gateway.On("CreateOrUpdate", ctx, "cat.png", content, "").Return(syncRes, nil)
		repo.On("Upsert", ctx, syncRes).Return(memecat.Meme{}, dbErr)

		_, err := service.Create(ctx, "cat.png", content, "")
		assert.Error(t, err)

		gateway.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("error - context cancelled before operation", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.Create(ctx, "cat.png", bytes.NewBufferString("data"), "")
		assert.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		gateway.AssertNotCalled(t, "CreateOrUpdate")
		repo.AssertNotCalled(t, "Upsert")
	})
}

func TestCatalogService_Get(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		expected := memecat.Meme{ID: 1, Name: "shark.jpg"}
		repo.On("Get", ctx, int64(1)).Return(expected, nil)

		meme, err := service.Get(ctx, 1)
		assert.NoError(t, err)
		assert.Equal(t, expected, meme)

		repo.AssertExpectations(t)
	})

	t.Run("error - not found", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		repo.On("Get", ctx, int64(99)).Return(memecat.Meme{}, memecat.ErrNotFound)

		_, err := service.Get(ctx, 99)
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrNotFound)

		repo.AssertExpectations(t)
	})

	t.Run("error - context cancelled before operation", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := service.Get(ctx, 1)
		assert.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		repo.AssertNotCalled(t, "Get")
	})
}

func TestCatalogService_List(t *testing.T) {
	t.Run("success - returns records in id order", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		q := memecat.ListQuery{Offset: 0, Limit: 10}
		expected := []memecat.Meme{
			{ID: 1, Name: "shark.jpg"},
			{ID: 2, Name: "cat.png"},
		}

		repo.On("List", ctx, q).Return(expected, nil)

		memes, err := service.List(ctx, q)
		assert.NoError(t, err)
		assert.Equal(t, expected, memes)

		repo.AssertExpectations(t)
	})

	t.Run("success - empty catalog", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		q := memecat.ListQuery{Limit: 10}
		repo.On("List", ctx, q).Return([]memecat.Meme{}, nil)

		memes, err := service.List(ctx, q)
		assert.NoError(t, err)
		assert.Empty(t, memes)

		repo.AssertExpectations(t)
	})

	t.Run("error - repository list fails", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		dbErr := errors.New("database error")
		repo.On("List", ctx, memecat.ListQuery{Limit: 10}).Return([]memecat.Meme{}, dbErr)

		_, err := service.List(ctx, memecat.ListQuery{Limit: 10})
		assert.Error(t, err)

		repo.AssertExpectations(t)
	})
}

func TestCatalogService_Update(t *testing.T) {
	t.Run("success - patches catalog only", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		patch := memecat.MemePatch{Description: memecat.StringPtr("renamed")}
		expected := memecat.Meme{ID: 1, Name: "shark.jpg", Description: memecat.StringPtr("renamed")}

		repo.On("Update", ctx, int64(1), patch).Return(expected, nil)

		meme, err := service.Update(ctx, 1, patch)
		assert.NoError(t, err)
		assert.Equal(t, expected, meme)

		repo.AssertExpectations(t)
		gateway.AssertNotCalled(t, "CreateOrUpdate")
	})

	t.Run("error - invalid new name", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		patch := memecat.MemePatch{Name: memecat.StringPtr("../escape")}

		_, err := service.Update(ctx, 1, patch)
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrInvalidInput)

		repo.AssertNotCalled(t, "Update")
	})

	t.Run("error - not found", func(t *testing.T) {
		service, repo, _ := NewCatalogService(t)
		ctx := context.Background()

		patch := memecat.MemePatch{}
		repo.On("Update", ctx, int64(42), patch).Return(memecat.Meme{}, memecat.ErrNotFound)

		_, err := service.Update(ctx, 42, patch)
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrNotFound)

		repo.AssertExpectations(t)
	})
}

func TestCatalogService_Delete(t *testing.T) {
	t.Run("success - blob removed before catalog row", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		meme := memecat.Meme{ID: 1, Name: "shark.jpg"}
		snapshot := memecat.SyncResult{Status: "Deleted", Name: "shark.jpg"}

		repo.On("Get", ctx, int64(1)).Return(meme, nil)
		gateway.On("Delete", ctx, "shark.jpg").Return(snapshot, nil)
		repo.On("Delete", ctx, int64(1)).Return(nil)

		err := service.Delete(ctx, 1)
		assert.NoError(t, err)

		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("success - gateway failure still removes catalog row", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		meme := memecat.Meme{ID: 1, Name: "shark.jpg"}

		repo.On("Get", ctx, int64(1)).Return(meme, nil)
		gateway.On("Delete", ctx, "shark.jpg").
			Return(memecat.SyncResult{}, memecat.ErrStorageUnavailable)
		repo.On("Delete", ctx, int64(1)).Return(nil)

		err := service.Delete(ctx, 1)
		assert.NoError(t, err)

		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("error - unknown id", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		repo.On("Get", ctx, int64(99)).Return(memecat.Meme{}, memecat.ErrNotFound)

		err := service.Delete(ctx, 99)
		assert.Error(t, err)
		assert.ErrorIs(t, err, memecat.ErrNotFound)

		repo.AssertExpectations(t)
		gateway.AssertNotCalled(t, "Delete")
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("error - catalog delete fails", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx := context.Background()

		meme := memecat.Meme{ID: 1, Name: "shark.jpg"}
		snapshot := memecat.SyncResult{Status: "Deleted", Name: "shark.jpg"}
		dbErr := errors.New("database error")

		repo.On("Get", ctx, int64(1)).Return(meme, nil)
		gateway.On("Delete", ctx, "shark.jpg").Return(snapshot, nil)
		repo.On("Delete", ctx, int64(1)).Return(dbErr)

		err := service.Delete(ctx, 1)
		assert.Error(t, err)

		repo.AssertExpectations(t)
		gateway.AssertExpectations(t)
	})

	t.Run("error - context cancelled before operation", func(t *testing.T) {
		service, repo, gateway := NewCatalogService(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := service.Delete(ctx, 1)
		assert.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)

		repo.AssertNotCalled(t, "Get")
		gateway.AssertNotCalled(t, "Delete")
	})
}

func TestNewCatalogService(t *testing.T) {
	t.Run("error - nil repo", func(t *testing.T) {
		_, err := memecat.NewCatalogService(nil, new(SpyGateway))
		assert.Error(t, err)
	})

	t.Run("error - nil gateway", func(t *testing.T) {
		_, err := memecat.NewCatalogService(new(SpyMemeRepo), nil)
		assert.Error(t, err)
	})
}
