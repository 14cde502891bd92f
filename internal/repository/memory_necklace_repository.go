package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"necklace_web/internal/models"
)

// memoryNecklaceRepository 把 Necklace 存在記憶體中，所有讀寫都回傳複本
type memoryNecklaceRepository struct {
	mu        sync.RWMutex
	necklaces map[uint]*models.Necklace
	nextID    uint
}

var _ NecklaceRepository = (*memoryNecklaceRepository)(nil)

// NewMemoryNecklaceRepository 創建一個空的記憶體 repository
func NewMemoryNecklaceRepository() NecklaceRepository {
	return &memoryNecklaceRepository{
		necklaces: make(map[uint]*models.Necklace),
		nextID:    1,
	}
}

func (r *memoryNecklaceRepository) ReadAll(ctx context.Context) ([]models.Necklace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	necklaces := make([]models.Necklace, 0, len(r.necklaces))
	for _, n := range r.necklaces {
		necklaces = append(necklaces, *n.Clone())
	}
	sort.Slice(necklaces, func(i, j int) bool {
		return necklaces[i].NecklaceID < necklaces[j].NecklaceID
	})
	return necklaces, nil
}

func (r *memoryNecklaceRepository) Read(ctx context.Context, id uint) (*models.Necklace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.necklaces[id].Clone(), nil
}

func (r *memoryNecklaceRepository) Create(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := models.Rebuild(r.nextID, necklace.Pearls)
	for i := range created.Pearls {
		created.Pearls[i].PearlID = uint(i + 1)
		created.Pearls[i].NecklaceID = created.NecklaceID
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.necklaces[created.NecklaceID] = created
	r.nextID++

	return created.Clone(), nil
}

func (r *memoryNecklaceRepository) Update(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.necklaces[necklace.NecklaceID]
	if !ok {
		return nil, nil
	}

	updated := models.Rebuild(existing.NecklaceID, necklace.Pearls)
	for i := range updated.Pearls {
		updated.Pearls[i].PearlID = uint(i + 1)
		updated.Pearls[i].NecklaceID = updated.NecklaceID
	}
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.necklaces[updated.NecklaceID] = updated
	return updated.Clone(), nil
}

func (r *memoryNecklaceRepository) Delete(ctx context.Context, id uint) (*models.Necklace, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed, ok := r.necklaces[id]
	if !ok {
		return nil, nil
	}
	delete(r.necklaces, id)
	return removed, nil
}
