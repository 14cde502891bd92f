package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"necklace_web/internal/models"
	"necklace_web/internal/storage"
)

// ErrUpdateRejected 表示資料存在，但儲存層拒絕了這次更新（約束衝突）
var ErrUpdateRejected = errors.New("update rejected by store")

// NecklaceRepository 是 Necklace 的儲存抽象。
// 找不到資料時回傳 nil, nil；error 只代表儲存層本身的故障或拒絕更新
type NecklaceRepository interface {
	ReadAll(ctx context.Context) ([]models.Necklace, error)
	Read(ctx context.Context, id uint) (*models.Necklace, error)
	Create(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error)
	Update(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error)
	Delete(ctx context.Context, id uint) (*models.Necklace, error)
}

type necklaceRepository struct {
	db *storage.PostgresDB
}

var _ NecklaceRepository = (*necklaceRepository)(nil)

// NewNecklaceRepository 創建一個以 gorm 實作的 NecklaceRepository
func NewNecklaceRepository(db *storage.PostgresDB) NecklaceRepository {
	return &necklaceRepository{db: db}
}

func orderPearls(db *gorm.DB) *gorm.DB {
	return db.Order("pearl_id")
}

// ReadAll 依 ID 排序回傳所有 Necklace 與其 Pearls
func (r *necklaceRepository) ReadAll(ctx context.Context) ([]models.Necklace, error) {
	necklaces := []models.Necklace{}
	err := r.db.WithContext(ctx).Preload("Pearls", orderPearls).Order("necklace_id").Find(&necklaces).Error
	if err != nil {
		return nil, err
	}
	return necklaces, nil
}

func (r *necklaceRepository) Read(ctx context.Context, id uint) (*models.Necklace, error) {
	var necklace models.Necklace
	err := r.db.WithContext(ctx).Preload("Pearls", orderPearls).First(&necklace, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &necklace, nil
}

// Create 一律由資料庫分配 NecklaceID，呼叫者提供的識別碼不會寫入
func (r *necklaceRepository) Create(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	created := models.Rebuild(0, necklace.Pearls)
	err := r.db.WithContext(ctx).Create(created).Error
	if isRejected(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update 以整體取代的方式更新：刪除舊的 Pearls，再寫入新的
func (r *necklaceRepository) Update(ctx context.Context, necklace *models.Necklace) (*models.Necklace, error) {
	var updated models.Necklace
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Necklace
		if err := tx.First(&existing, necklace.NecklaceID).Error; err != nil {
			return err
		}

		if err := tx.Where("necklace_id = ?", existing.NecklaceID).Delete(&models.Pearl{}).Error; err != nil {
			return err
		}

		pearls := models.Rebuild(existing.NecklaceID, necklace.Pearls).Pearls
		for i := range pearls {
			pearls[i].NecklaceID = existing.NecklaceID
		}
		if len(pearls) > 0 {
			if err := tx.Create(&pearls).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&existing).Update("updated_at", time.Now()).Error; err != nil {
			return err
		}

		return tx.Preload("Pearls", orderPearls).First(&updated, existing.NecklaceID).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if isRejected(err) {
		return nil, fmt.Errorf("%w: %v", ErrUpdateRejected, err)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete 回傳被刪除前的快照
func (r *necklaceRepository) Delete(ctx context.Context, id uint) (*models.Necklace, error) {
	var removed models.Necklace
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Pearls", orderPearls).First(&removed, id).Error; err != nil {
			return err
		}

		if err := tx.Where("necklace_id = ?", id).Delete(&models.Pearl{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Necklace{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &removed, nil
}

// isRejected 判斷錯誤是否為資料庫拒絕寫入（約束衝突），而非連線故障
func isRejected(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated)
}
