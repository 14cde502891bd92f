package service

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"necklace_web/internal/models"
)

// Necklace 生命週期事件類型
const (
	EventNecklaceCreated = "necklace.created"
	EventNecklaceUpdated = "necklace.updated"
	EventNecklaceDeleted = "necklace.deleted"
)

const (
	feedSendBuffer = 256
	feedReadLimit  = 4096
	feedPongWait   = 60 * time.Second
	feedPingPeriod = 54 * time.Second
	feedWriteWait  = 10 * time.Second
)

// Event 是推送給訂閱者的訊息
type Event struct {
	Type       string           `json:"type"`
	NecklaceID uint             `json:"necklace_id"`
	Necklace   *models.Necklace `json:"necklace,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

// FeedClient 代表一個 WebSocket 訂閱者
type FeedClient struct {
	Conn     *websocket.Conn
	SendChan chan *Event // 發送通道，由 writePump 消費
}

// FeedService 管理所有訂閱者並廣播事件
type FeedService struct {
	clients    map[*FeedClient]bool
	clientsMux sync.RWMutex
	log        zerolog.Logger
}

var _ EventPublisher = (*FeedService)(nil)

// NewFeedService 創建一個新的 FeedService 實例
func NewFeedService(log zerolog.Logger) *FeedService {
	return &FeedService{
		clients: make(map[*FeedClient]bool),
		log:     log.With().Str("component", "feed").Logger(),
	}
}

// HandleConnection 處理一個已升級的連接，直到連接關閉才返回
func (s *FeedService) HandleConnection(conn *websocket.Conn) {
	client := &FeedClient{
		Conn:     conn,
		SendChan: make(chan *Event, feedSendBuffer),
	}

	s.addClient(client)

	defer func() {
		s.removeClient(client)
		close(client.SendChan)
		conn.Close()
	}()

	go s.writePump(client)
	s.readPump(client)
}

// readPump 只負責維持心跳，客戶端送來的內容一律忽略
func (s *FeedService) readPump(client *FeedClient) {
	client.Conn.SetReadLimit(feedReadLimit)
	client.Conn.SetReadDeadline(time.Now().Add(feedPongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(feedPongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn().Err(err).Msg("feed client closed unexpectedly")
			}
			return
		}
	}
}

// writePump 把 SendChan 的事件寫給客戶端，並定期送出 ping
func (s *FeedService) writePump(client *FeedClient) {
	ticker := time.NewTicker(feedPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.Conn.WriteJSON(event); err != nil {
				s.log.Warn().Err(err).Msg("feed write failed")
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish 把事件送給所有訂閱者。發送佇列已滿的訂閱者會被斷線
func (s *FeedService) Publish(event *Event) {
	var slow []*FeedClient

	s.clientsMux.RLock()
	for client := range s.clients {
		select {
		case client.SendChan <- event:
		default:
			slow = append(slow, client)
		}
	}
	s.clientsMux.RUnlock()

	for _, client := range slow {
		s.log.Warn().Msg("feed client too slow, disconnecting")
		// 關閉連接後 readPump 會返回，由 HandleConnection 完成清理
		client.Conn.Close()
	}
}

// ClientCount 回傳目前的訂閱者數量
func (s *FeedService) ClientCount() int {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	return len(s.clients)
}

// CloseAll 關閉所有訂閱者連接，用於服務關閉
func (s *FeedService) CloseAll() {
	s.clientsMux.RLock()
	defer s.clientsMux.RUnlock()

	for client := range s.clients {
		client.Conn.Close()
	}
}

func (s *FeedService) addClient(client *FeedClient) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	s.clients[client] = true
	s.log.Info().Int("clients", len(s.clients)).Msg("feed client connected")
}

func (s *FeedService) removeClient(client *FeedClient) {
	s.clientsMux.Lock()
	defer s.clientsMux.Unlock()

	delete(s.clients, client)
	s.log.Info().Int("clients", len(s.clients)).Msg("feed client disconnected")
}
