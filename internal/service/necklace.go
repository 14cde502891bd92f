package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"necklace_web/internal/models"
	"necklace_web/internal/repository"
)

// EventPublisher 接收 Necklace 的生命週期事件
type EventPublisher interface {
	Publish(event *Event)
}

// NecklaceService 處理 Necklace 的業務邏輯
type NecklaceService struct {
	necklaceRepo repository.NecklaceRepository
	publisher    EventPublisher
	log          zerolog.Logger
}

// NewNecklaceService 創建一個新的 NecklaceService 實例
func NewNecklaceService(necklaceRepo repository.NecklaceRepository, publisher EventPublisher, log zerolog.Logger) *NecklaceService {
	return &NecklaceService{
		necklaceRepo: necklaceRepo,
		publisher:    publisher,
		log:          log.With().Str("component", "necklace_service").Logger(),
	}
}

// ListNecklaces 回傳所有 Necklace，沒有資料時回傳空切片
func (s *NecklaceService) ListNecklaces(ctx context.Context) ([]models.Necklace, error) {
	necklaces, err := s.necklaceRepo.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("read necklaces: %w", err)
	}
	if necklaces == nil {
		necklaces = []models.Necklace{}
	}
	return necklaces, nil
}

// GetNecklace 依 ID 取得 Necklace，不存在時回傳 ErrNecklaceNotFound
func (s *NecklaceService) GetNecklace(ctx context.Context, id uint) (*models.Necklace, error) {
	necklace, err := s.necklaceRepo.Read(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("read necklace %d: %w", id, err)
	}
	if necklace == nil {
		return nil, ErrNecklaceNotFound
	}
	return necklace, nil
}

// CreateNecklace 先檢查呼叫者宣告的 ID 是否已存在，
// 再以 Pearl 屬性重建一條新的 Necklace 交給 repository 寫入
func (s *NecklaceService) CreateNecklace(ctx context.Context, input *models.Necklace) (*models.Necklace, error) {
	if input == nil {
		return nil, ErrNoNecklace
	}

	if input.NecklaceID != 0 {
		existing, err := s.necklaceRepo.Read(ctx, input.NecklaceID)
		if err != nil {
			return nil, fmt.Errorf("check necklace %d: %w", input.NecklaceID, err)
		}
		if existing != nil {
			return nil, ErrNecklaceIDExists
		}
	}

	created, err := s.necklaceRepo.Create(ctx, models.Rebuild(0, input.Pearls))
	if err != nil {
		s.log.Error().Err(err).Msg("repository failed to create necklace")
		return nil, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}
	if created == nil {
		return nil, ErrCreateFailed
	}

	s.log.Info().Uint("necklace_id", created.NecklaceID).Int("pearls", len(created.Pearls)).Msg("necklace created")
	s.publish(EventNecklaceCreated, created.NecklaceID, created)
	return created, nil
}

// UpdateNecklace 整體取代指定 ID 的 Necklace。payload 中的 ID 必須與路徑 ID 相同
func (s *NecklaceService) UpdateNecklace(ctx context.Context, id uint, input *models.Necklace) (*models.Necklace, error) {
	if input == nil {
		return nil, ErrNoNecklace
	}
	if input.NecklaceID != id {
		return nil, ErrNecklaceIDMismatch
	}

	updated, err := s.necklaceRepo.Update(ctx, models.Rebuild(id, input.Pearls))
	if errors.Is(err, repository.ErrUpdateRejected) {
		s.log.Error().Err(err).Uint("necklace_id", id).Msg("repository rejected necklace update")
		return nil, fmt.Errorf("%w: %v", ErrUpdateFailed, err)
	}
	if err != nil {
		return nil, fmt.Errorf("update necklace %d: %w", id, err)
	}
	if updated == nil {
		return nil, ErrNecklaceNotFound
	}

	s.log.Info().Uint("necklace_id", id).Int("pearls", len(updated.Pearls)).Msg("necklace updated")
	s.publish(EventNecklaceUpdated, id, updated)
	return updated, nil
}

// DeleteNecklace 先確認資料存在，再執行刪除，
// 讓「不存在」與「存在但刪除失敗」回傳不同的錯誤
func (s *NecklaceService) DeleteNecklace(ctx context.Context, id uint) error {
	existing, err := s.necklaceRepo.Read(ctx, id)
	if err != nil {
		return fmt.Errorf("read necklace %d: %w", id, err)
	}
	if existing == nil {
		return ErrNecklaceNotFound
	}

	removed, err := s.necklaceRepo.Delete(ctx, id)
	if err != nil {
		s.log.Error().Err(err).Uint("necklace_id", id).Msg("repository failed to delete necklace")
		return fmt.Errorf("%w: %v", ErrDeleteFailed, err)
	}
	if removed == nil {
		return ErrDeleteFailed
	}

	s.log.Info().Uint("necklace_id", id).Msg("necklace deleted")
	s.publish(EventNecklaceDeleted, id, removed)
	return nil
}

// publish 發送事件的複本，避免訂閱者共用 repository 回傳的資料
func (s *NecklaceService) publish(eventType string, id uint, necklace *models.Necklace) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(&Event{
		Type:       eventType,
		NecklaceID: id,
		Necklace:   necklace.Clone(),
		Timestamp:  time.Now().UTC(),
	})
}
