package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/wfunc/elf-game/internal/game"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
// 订阅了session_id的客户端只收到该会话的更新，
// 未订阅的客户端（大厅）收到所有会话的更新
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 消息广播通道
	broadcast chan *Message

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`                 // 消息类型
	SessionID string          `json:"session_id,omitempty"` // 游戏会话ID
	Data      json.RawMessage `json:"data,omitempty"`       // 消息数据
	Timestamp int64           `json:"timestamp"`            // 时间戳
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected  = "connected"
	MessageTypePing       = "ping"
	MessageTypePong       = "pong"
	MessageTypeError      = "error"
	MessageTypeSubscribe  = "subscribe"
	MessageTypeSubscribed = "subscribed"

	// 游戏消息
	MessageTypeSessionUpdate = "session_update"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	// 启动心跳检测
	go h.runHeartbeat()

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.dispatchMessage(message)
		}
	}
}

// PublishSession 向订阅者广播会话最新公开状态
// 实现 game.SessionPublisher：投递失败只记日志，不影响结算流程
func (h *Hub) PublishSession(sessionUUID string, view *game.SessionView) {
	data, err := json.Marshal(view)
	if err != nil {
		h.logger.Error("序列化会话状态失败",
			zap.String("session_uuid", sessionUUID),
			zap.Error(err))
		return
	}

	msg := &Message{
		Type:      MessageTypeSessionUpdate,
		SessionID: sessionUUID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("广播队列已满，丢弃会话更新",
			zap.String("session_uuid", sessionUUID))
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("session_id", client.SessionID()))

	// 发送连接成功消息
	msg := &Message{
		Type:      MessageTypeConnected,
		SessionID: client.SessionID(),
		Timestamp: time.Now().Unix(),
	}
	h.SendToClient(client.ID, msg)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("session_id", client.SessionID()))
}

// dispatchMessage 按订阅关系分发消息
func (h *Hub) dispatchMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	for _, client := range h.clients {
		// 订阅了其他会话的客户端不接收本条消息
		if message.SessionID != "" {
			if sub := client.SessionID(); sub != "" && sub != message.SessionID {
				continue
			}
		}

		select {
		case client.Send <- data:
		default:
			// 发送缓冲区满，慢客户端丢消息而不是阻塞分发
			h.logger.Warn("客户端发送缓冲区满",
				zap.String("client_id", client.ID))
		}
	}
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// GetOnlineCount 获取在线人数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// runHeartbeat 运行心跳检测
func (h *Hub) runHeartbeat() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		<-ticker.C
		ping := &Message{
			Type:      MessageTypePing,
			Timestamp: time.Now().Unix(),
		}
		h.broadcast <- ping
	}
}

// Broadcast 广播消息（公开方法）
func (h *Hub) Broadcast(message *Message) {
	h.broadcast <- message
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
