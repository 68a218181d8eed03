package live

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/courtside/internal/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 10
	sendBuffer     = 16
)

type subscriber struct {
	conn *websocket.Conn
	send chan Update
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.send) })
}

// Hub fans session updates out to websocket subscribers
type Hub struct {
	upgrader websocket.Upgrader
	logger   *logger.LiveLogger

	mu   sync.Mutex
	subs map[uuid.UUID]map[*subscriber]struct{}
}

// NewHub creates a hub. checkOrigin may be nil to accept any origin.
func NewHub(checkOrigin func(r *http.Request) bool, log *logrus.Logger) *Hub {
	if log == nil {
		log = logrus.New()
	}
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		logger:   logger.NewLiveLogger(log),
		subs:     make(map[uuid.UUID]map[*subscriber]struct{}),
	}
}

// Serve upgrades the request and streams updates for session id until the
// client disconnects or the session closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, id uuid.UUID) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	sub := &subscriber{conn: conn, send: make(chan Update, sendBuffer)}
	h.add(id, sub)

	go h.writeLoop(id, sub)
	h.readLoop(id, sub)
	return nil
}

// Publish queues update for every subscriber of id. A subscriber whose
// queue is full is dropped.
func (h *Hub) Publish(id uuid.UUID, update Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[id] {
		select {
		case sub.send <- update:
		default:
			delete(h.subs[id], sub)
			sub.close()
			h.logger.LogSubscriberDropped(id.String(), errSlowSubscriber)
		}
	}
}

// CloseSession disconnects every subscriber of id
func (h *Hub) CloseSession(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[id] {
		sub.close()
	}
	delete(h.subs, id)
}

// Subscribers returns the number of clients watching id
func (h *Hub) Subscribers(id uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[id])
}

func (h *Hub) add(id uuid.UUID, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[id] == nil {
		h.subs[id] = make(map[*subscriber]struct{})
	}
	h.subs[id][sub] = struct{}{}
}

func (h *Hub) remove(id uuid.UUID, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[id]; ok {
		if _, found := set[sub]; found {
			delete(set, sub)
			sub.close()
		}
		if len(set) == 0 {
			delete(h.subs, id)
		}
	}
}

// readLoop discards client messages and detects disconnects
func (h *Hub) readLoop(id uuid.UUID, sub *subscriber) {
	defer h.remove(id, sub)

	sub.conn.SetReadLimit(maxMessageSize)
	_ = sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(id uuid.UUID, sub *subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = sub.conn.Close()
	}()

	for {
		select {
		case update, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"))
				return
			}
			if err := sub.conn.WriteJSON(update); err != nil {
				h.logger.LogSubscriberDropped(id.String(), err)
				h.remove(id, sub)
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.remove(id, sub)
				return
			}
		}
	}
}
