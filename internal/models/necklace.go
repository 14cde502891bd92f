package models

import (
	"time"
)

// Necklace 是對外提供的根資源，擁有一組 Pearl
type Necklace struct {
	NecklaceID uint      `gorm:"primaryKey"`
	Pearls     []Pearl   `gorm:"foreignKey:NecklaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" binding:"dive"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`
}

// Pearl 只透過所屬的 Necklace 存取。
// PearlID 與 NecklaceID 只供資料庫使用，序列化時忽略，避免回指父物件
type Pearl struct {
	PearlID    uint    `gorm:"primaryKey" json:"-"`
	NecklaceID uint    `gorm:"index;not null" json:"-"`
	Size       float64 `gorm:"not null" binding:"gte=0"`
	Color      string  `gorm:"type:varchar(64)" binding:"max=64"`
	Shape      string  `gorm:"type:varchar(64)" binding:"max=64"`
	Type       string  `gorm:"type:varchar(64)" binding:"max=64"`
}

// NewPearl 只以屬性值建立 Pearl，不帶任何識別碼
func NewPearl(size float64, color, shape, pearlType string) Pearl {
	return Pearl{
		Size:  size,
		Color: color,
		Shape: shape,
		Type:  pearlType,
	}
}

// Rebuild 以呼叫者提供的 Pearl 屬性重新組出一條全新的 Necklace。
// 呼叫者帶入的 Pearl 識別碼與父鍵都會被捨棄
func Rebuild(id uint, pearls []Pearl) *Necklace {
	necklace := &Necklace{
		NecklaceID: id,
		Pearls:     make([]Pearl, 0, len(pearls)),
	}
	for _, p := range pearls {
		necklace.Pearls = append(necklace.Pearls, NewPearl(p.Size, p.Color, p.Shape, p.Type))
	}
	return necklace
}

// Clone 回傳深層複本，Pearls 不與原物件共用底層陣列
func (n *Necklace) Clone() *Necklace {
	if n == nil {
		return nil
	}
	clone := *n
	clone.Pearls = make([]Pearl, len(n.Pearls))
	copy(clone.Pearls, n.Pearls)
	return &clone
}
