package repository

import "necklace_web/internal/storage"

// Repositories 集合所有的 repository
type Repositories struct {
	Necklace NecklaceRepository
}

// NewRepositories 創建以 PostgreSQL 為後端的 repositories
func NewRepositories(db *storage.PostgresDB) *Repositories {
	return &Repositories{
		Necklace: NewNecklaceRepository(db),
	}
}

// NewMemoryRepositories 建立不依賴資料庫的 repositories，用於測試與本機開發
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Necklace: NewMemoryNecklaceRepository(),
	}
}
