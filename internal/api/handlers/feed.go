package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"necklace_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 事件內容與 GET /api/necklace 相同，不限制來源
	},
}

// FeedHandler 把 HTTP 連接升級為事件訂閱
type FeedHandler struct {
	feed *service.FeedService
	log  zerolog.Logger
}

// NewFeedHandler 創建一個新的 FeedHandler 實例
func NewFeedHandler(feed *service.FeedService, log zerolog.Logger) *FeedHandler {
	return &FeedHandler{
		feed: feed,
		log:  log.With().Str("component", "feed_handler").Logger(),
	}
}

// Subscribe 處理 GET /api/events，直到訂閱者斷線才返回
func (h *FeedHandler) Subscribe(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade 失敗時已經寫入了錯誤回應
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	h.feed.HandleConnection(conn)
}
