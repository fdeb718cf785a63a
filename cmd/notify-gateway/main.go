// cmd/notify-gateway/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"storefront/internal/pkg/bootstrap"
	"storefront/internal/pkg/logger"
	"storefront/internal/pkg/mq"
	"storefront/internal/pkg/session"
)

const (
	serviceName     = "notify-gateway"
	consumerGroupID = "notify-gateway-group-v1"
	writeWait       = 10 * time.Second
)

var (
	nodeID   = serviceName + "-" + uuid.New().String()[:8]
	upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool { // 简化处理，允许所有跨域
			return true
		},
	}
)

// Hub 维护所有活跃的运营后台连接，并负责消息广播
type Hub struct {
	clients    map[string]*Client // 使用UserID作为Key
	register   chan *Client
	unregister chan *Client
	lock       sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.lock.Lock()
			h.clients[client.userID] = client
			h.lock.Unlock()
			log.Printf("Client %s registered on node %s", client.userID, nodeID)
		case client := <-h.unregister:
			h.lock.Lock()
			if _, ok := h.clients[client.userID]; ok {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.lock.Unlock()
			log.Printf("Client %s unregistered.", client.userID)
		}
	}
}

// broadcast 把一条订单状态变更推给所有在线的运营端。
// 慢消费者直接丢弃本条，不能阻塞消费循环。
func (h *Hub) broadcast(payload []byte) {
	h.lock.RLock()
	defer h.lock.RUnlock()
	for _, client := range h.clients {
		select {
		case client.send <- payload:
		default:
			log.Printf("Client %s send buffer full, dropping message", client.userID)
		}
	}
}

// Client 是一个WebSocket连接的代表
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// hub 关闭了 send channel，通知对端后退出
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		// 运营端不上行业务消息，读循环只用于感知断连和心跳
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func serveWs(hub *Hub, sessionMgr *session.Manager, w http.ResponseWriter, r *http.Request) {
	// 1. 从URL参数获取UserID
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "userId is required", http.StatusBadRequest)
		return
	}

	// 2. HTTP升级为WebSocket
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println(err)
		return
	}

	// 3. 创建客户端实例并注册到Hub
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), userID: userID}
	client.hub.register <- client

	// 4. 在Redis中记录会话所在节点
	if err := sessionMgr.SetUserGateway(r.Context(), userID, nodeID); err != nil {
		log.Printf("Failed to set session for user %s: %v", userID, err)
		conn.Close()
		return
	}

	// 5. 启动读写goroutine
	go client.writePump()
	go client.readPump()
}

// consumeNotifications 消费订单状态变更主题，原样广播给在线运营端。
// 消息体就是 OrderStatusChangedEvent 的 JSON，无需在网关侧解码。
func consumeNotifications(ctx context.Context, hub *Hub) error {
	cfg := bootstrap.GetCurrentConfig()
	reader := mq.NewKafkaReader(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.NotificationTopic, consumerGroupID)
	defer reader.Close()

	var g errgroup.Group
	g.SetLimit(16)
	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			g.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		payload := msg.Value
		g.Go(func() error {
			hub.broadcast(payload)
			return nil
		})
	}
}

func main() {
	bootstrap.Init()
	logger.Init(serviceName)
	cfg := bootstrap.GetCurrentConfig()

	sessionMgr := session.NewManager(cfg.Infra.Redis.Addr)
	hub := newHub()
	go hub.run()

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := consumeNotifications(ctx, hub); err != nil {
			log.Fatalf("FATAL: notification consumer stopped: %v", err)
		}
	}()

	bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		Port:        8088,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) {
			appCtx.Mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
				serveWs(hub, sessionMgr, w, r)
			})
		},
		OnShutdown: func(ctx context.Context) {
			cancel()
		},
	})
}
