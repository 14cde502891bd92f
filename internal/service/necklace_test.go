package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"necklace_web/internal/models"
	"necklace_web/internal/repository"
)

// stubRepository 預設轉交給記憶體 repository，個別方法可以被覆寫
type stubRepository struct {
	repository.NecklaceRepository

	createFn func(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error)
	updateFn func(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error)
	deleteFn func(ctx context.Context, id uint) (*models.Necklace, error)
	readErr  error

	deleteCalls int
}

func newStubRepository() *stubRepository {
	return &stubRepository{NecklaceRepository: repository.NewMemoryNecklaceRepository()}
}

func (r *stubRepository) Read(ctx context.Context, id uint) (*models.Necklace, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	return r.NecklaceRepository.Read(ctx, id)
}

func (r *stubRepository) Create(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	if r.createFn != nil {
		return r.createFn(ctx, necklace)
	}
	return r.NecklaceRepository.Create(ctx, necklace)
}

func (r *stubRepository) Update(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	if r.updateFn != nil {
		return r.updateFn(ctx, necklace)
	}
	return r.NecklaceRepository.Update(ctx, necklace)
}

func (r *stubRepository) Delete(ctx context.Context, id uint) (*models.Necklace, error) {
	r.deleteCalls++
	if r.deleteFn != nil {
		return r.deleteFn(ctx, id)
	}
	return r.NecklaceRepository.Delete(ctx, id)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []*Event
}

func (p *recordingPublisher) Publish(event *Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var types []string
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

func newTestService() (*NecklaceService, *stubRepository, *recordingPublisher) {
	repo := newStubRepository()
	publisher := &recordingPublisher{}
	return NewNecklaceService(repo, publisher, zerolog.Nop()), repo, publisher
}

func TestCreateNecklace_RebuildsPearlsFromAttributes(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	input := &models.Necklace{
		Pearls: []models.Pearl{
			{PearlID: 55, NecklaceID: 77, Size: 8, Color: "white", Shape: "round", Type: "freshwater"},
		},
	}

	created, err := svc.CreateNecklace(ctx, input)
	require.NoError(t, err)

	require.Len(t, created.Pearls, 1)
	pearl := created.Pearls[0]
	assert.Equal(t, 8.0, pearl.Size)
	assert.Equal(t, "white", pearl.Color)
	assert.Equal(t, "round", pearl.Shape)
	assert.Equal(t, "freshwater", pearl.Type)
	assert.NotEqual(t, uint(77), pearl.NecklaceID)

	read, err := svc.GetNecklace(ctx, created.NecklaceID)
	require.NoError(t, err)
	assert.Equal(t, created, read)

	assert.Equal(t, []string{EventNecklaceCreated}, publisher.types())
}

func TestCreateNecklace_NoPayload(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateNecklace(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoNecklace)
}

func TestCreateNecklace_DeclaredIDCollision(t *testing.T) {
	svc, repo, publisher := newTestService()
	ctx := context.Background()

	existing, err := repo.Create(ctx, &models.Necklace{})
	require.NoError(t, err)

	_, err = svc.CreateNecklace(ctx, &models.Necklace{NecklaceID: existing.NecklaceID})
	assert.ErrorIs(t, err, ErrNecklaceIDExists)

	all, err := repo.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Empty(t, publisher.types())
}

func TestCreateNecklace_DeclaredIDIsNotKept(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateNecklace(context.Background(), &models.Necklace{NecklaceID: 50})
	require.NoError(t, err)
	assert.Equal(t, uint(1), created.NecklaceID)
}

func TestCreateNecklace_RepositoryRefuses(t *testing.T) {
	testCases := map[string]func(context.Context, *models.Necklace) (*models.Necklace, error){
		"absent result": func(context.Context, *models.Necklace) (*models.Necklace, error) {
			return nil, nil
		},
		"store error": func(context.Context, *models.Necklace) (*models.Necklace, error) {
			return nil, errors.New("insert failed")
		},
	}

	for name, createFn := range testCases {
		t.Run(name, func(t *testing.T) {
			svc, repo, publisher := newTestService()
			repo.createFn = createFn

			created, err := svc.CreateNecklace(context.Background(), &models.Necklace{})
			assert.ErrorIs(t, err, ErrCreateFailed)
			assert.Nil(t, created)
			assert.Empty(t, publisher.types())
		})
	}
}

func TestGetNecklace(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	_, err := svc.GetNecklace(ctx, 1)
	assert.ErrorIs(t, err, ErrNecklaceNotFound)

	repo.readErr = errors.New("connection refused")
	_, err = svc.GetNecklace(ctx, 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNecklaceNotFound)
}

func TestListNecklaces(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	necklaces, err := svc.ListNecklaces(ctx)
	require.NoError(t, err)
	assert.NotNil(t, necklaces)
	assert.Empty(t, necklaces)

	_, err = svc.CreateNecklace(ctx, &models.Necklace{})
	require.NoError(t, err)

	necklaces, err = svc.ListNecklaces(ctx)
	require.NoError(t, err)
	assert.Len(t, necklaces, 1)
}

func TestUpdateNecklace(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNecklace(ctx, &models.Necklace{Pearls: []models.Pearl{models.NewPearl(8, "white", "round", "freshwater")}})
	require.NoError(t, err)

	_, err = svc.UpdateNecklace(ctx, created.NecklaceID, nil)
	assert.ErrorIs(t, err, ErrNoNecklace)

	_, err = svc.UpdateNecklace(ctx, created.NecklaceID, &models.Necklace{NecklaceID: created.NecklaceID + 1})
	assert.ErrorIs(t, err, ErrNecklaceIDMismatch)

	_, err = svc.UpdateNecklace(ctx, 99, &models.Necklace{NecklaceID: 99})
	assert.ErrorIs(t, err, ErrNecklaceNotFound)

	updated, err := svc.UpdateNecklace(ctx, created.NecklaceID, &models.Necklace{
		NecklaceID: created.NecklaceID,
		Pearls:     []models.Pearl{models.NewPearl(12, "gold", "drop", "south sea")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Pearls, 1)
	assert.Equal(t, "gold", updated.Pearls[0].Color)

	assert.Equal(t, []string{EventNecklaceCreated, EventNecklaceUpdated}, publisher.types())
}

func TestUpdateNecklace_RejectedIsNotNotFound(t *testing.T) {
	svc, repo, publisher := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNecklace(ctx, &models.Necklace{})
	require.NoError(t, err)

	repo.updateFn = func(context.Context, *models.Necklace) (*models.Necklace, error) {
		return nil, fmt.Errorf("%w: foreign key violated", repository.ErrUpdateRejected)
	}

	_, err = svc.UpdateNecklace(ctx, created.NecklaceID, &models.Necklace{NecklaceID: created.NecklaceID})
	assert.ErrorIs(t, err, ErrUpdateFailed)
	assert.NotErrorIs(t, err, ErrNecklaceNotFound)
	assert.Equal(t, []string{EventNecklaceCreated}, publisher.types())
}

func TestDeleteNecklace_ExistenceCheckedFirst(t *testing.T) {
	svc, repo, _ := newTestService()

	err := svc.DeleteNecklace(context.Background(), 3)
	assert.ErrorIs(t, err, ErrNecklaceNotFound)
	assert.Zero(t, repo.deleteCalls)
}

func TestDeleteNecklace_ThenNotFound(t *testing.T) {
	svc, _, publisher := newTestService()
	ctx := context.Background()

	created, err := svc.CreateNecklace(ctx, &models.Necklace{})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNecklace(ctx, created.NecklaceID))
	assert.ErrorIs(t, svc.DeleteNecklace(ctx, created.NecklaceID), ErrNecklaceNotFound)

	assert.Equal(t, []string{EventNecklaceCreated, EventNecklaceDeleted}, publisher.types())
}

func TestDeleteNecklace_FoundButNotDeleted(t *testing.T) {
	testCases := map[string]func(context.Context, uint) (*models.Necklace, error){
		"absent result": func(context.Context, uint) (*models.Necklace, error) {
			return nil, nil
		},
		"store error": func(context.Context, uint) (*models.Necklace, error) {
			return nil, errors.New("lock timeout")
		},
	}

	for name, deleteFn := range testCases {
		t.Run(name, func(t *testing.T) {
			svc, repo, _ := newTestService()
			ctx := context.Background()

			created, err := svc.CreateNecklace(ctx, &models.Necklace{})
			require.NoError(t, err)

			repo.deleteFn = deleteFn
			err = svc.DeleteNecklace(ctx, created.NecklaceID)
			assert.ErrorIs(t, err, ErrDeleteFailed)
			assert.NotErrorIs(t, err, ErrNecklaceNotFound)
			assert.Equal(t, 1, repo.deleteCalls)
		})
	}
}
