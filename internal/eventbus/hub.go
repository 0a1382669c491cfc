package eventbus

import (
	"context"
	"sync"
	"time"
)

// 生成流程对外广播的事件类型。诊断走结构化事件，不走散落的日志文本。
const (
	EventReused          = "suggest_reused"
	EventRegenerated     = "suggest_regenerated"
	EventCategorySkipped = "suggest_category_skipped"
	EventPersistFailed   = "suggest_persist_failed"
	EventCatalogReloaded = "catalog_reloaded"
)

// Event 进程内广播事件
type Event struct {
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Hub 进程内发布/订阅中心
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Publish 广播事件，慢消费者直接丢弃，避免阻塞生成链路
func (h *Hub) Publish(evt Event) {
	if h == nil {
		return
	}
	if evt.Timestamp == 0 {
		evt.Timestamp = time.Now().UnixMilli()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe 订阅事件流，ctx 结束时自动退订
func (h *Hub) Subscribe(ctx context.Context, buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		h.mu.Unlock()
		close(ch)
	}()

	return ch
}
