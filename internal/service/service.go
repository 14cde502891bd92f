package service

import (
	"github.com/rs/zerolog"

	"necklace_web/internal/repository"
)

// Services 集合所有的服務
type Services struct {
	Necklace *NecklaceService
	Feed     *FeedService
}

// NewServices 創建所有服務，NecklaceService 的事件由 FeedService 廣播
func NewServices(repos *repository.Repositories, log zerolog.Logger) *Services {
	feed := NewFeedService(log)

	return &Services{
		Necklace: NewNecklaceService(repos.Necklace, feed, log),
		Feed:     feed,
	}
}
