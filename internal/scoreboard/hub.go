// Package scoreboard 通过 WebSocket 向观战客户端推送分数、倒计时和结算
package scoreboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"

	"github.com/gonewx/ballbounce/pkg/game"
)

const maxClients = 32

// HubStats 当前连接统计
type HubStats struct {
	Clients          int    `json:"clients"`
	TotalConnections uint64 `json:"totalConnections"`
	Messages         uint64 `json:"messages"`
}

// Hub 观战广播中心，实现 game.ScoreListener
// 游戏循环在主 goroutine 中回调，连接在 HTTP goroutine 中注册，两者由 mu 保护
type Hub struct {
	mu       sync.Mutex
	clients  map[*Conn]struct{}
	snapshot SnapshotPayload

	seq              atomic.Uint64
	nextID           atomic.Uint64
	totalConnections atomic.Uint64

	originPatterns []string
}

func NewHub(originPatterns []string) *Hub {
	return &Hub{
		clients:        make(map[*Conn]struct{}),
		originPatterns: originPatterns,
	}
}

// SetHighScore 设置快照中的最高分
func (h *Hub) SetHighScore(best int) {
	h.mu.Lock()
	h.snapshot.HighScore = best
	h.mu.Unlock()
}

// Stats 返回当前统计
func (h *Hub) Stats() HubStats {
	h.mu.Lock()
	n := len(h.clients)
	h.mu.Unlock()
	return HubStats{
		Clients:          n,
		TotalConnections: h.totalConnections.Load(),
		Messages:         h.seq.Load(),
	}
}

// OnScore 广播分数变化
func (h *Hub) OnScore(update game.ScoreUpdate) {
	h.mu.Lock()
	h.snapshot.Score = update.Score
	h.mu.Unlock()
	h.broadcast(MsgScore, ScorePayload{
		Score:      update.Score,
		Delta:      update.Delta,
		Label:      update.Label,
		X:          update.Position.X,
		Z:          update.Position.Z,
		ZoneRadius: update.ZoneRadius,
	})
}

// OnTimer 广播回合剩余秒数
func (h *Hub) OnTimer(remainingSeconds int) {
	h.mu.Lock()
	h.snapshot.Remaining = remainingSeconds
	h.mu.Unlock()
	h.broadcast(MsgTimer, TimerPayload{Remaining: remainingSeconds})
}

// OnSessionEnd 广播结算
func (h *Hub) OnSessionEnd(result game.SessionResult) {
	h.mu.Lock()
	h.snapshot.HighScore = result.HighScore
	h.mu.Unlock()
	h.broadcast(MsgEnd, EndPayload{
		Score:        result.Score,
		HighScore:    result.HighScore,
		NewHighScore: result.NewHighScore,
	})
}

func (h *Hub) broadcast(msgType string, payload any) {
	msg, err := newMessage(msgType, h.seq.Add(1), payload)
	if err != nil {
		log.Printf("[Scoreboard] encode %s: %v", msgType, err)
		return
	}
	data, err := Encode(msg)
	if err != nil {
		log.Printf("[Scoreboard] encode %s: %v", msgType, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.Send(data)
	}
}

// HandleWS 接受观战连接：先发送当前快照，之后只推送不接收
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	full := len(h.clients) >= maxClients
	h.mu.Unlock()
	if full {
		http.Error(w, "too many spectators", http.StatusServiceUnavailable)
		return
	}

	acceptOpts := &websocket.AcceptOptions{}
	if len(h.originPatterns) > 0 {
		acceptOpts.OriginPatterns = h.originPatterns
	}
	ws, err := websocket.Accept(w, r, acceptOpts)
	if err != nil {
		log.Printf("[Scoreboard] accept error: %v", err)
		return
	}
	ws.SetReadLimit(512)

	h.totalConnections.Add(1)
	conn := NewConn(ws, fmt.Sprintf("spectator-%d", h.nextID.Add(1)))

	// 连接生命周期独立于 HTTP 请求
	ctx := ws.CloseRead(context.Background())
	go conn.WriteLoop(ctx)
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	h.mu.Lock()
	snapshot := h.snapshot
	if msg, err := newMessage(MsgSnapshot, h.seq.Load(), snapshot); err == nil {
		if data, err := Encode(msg); err == nil {
			conn.Send(data)
		}
	}
	h.clients[conn] = struct{}{}
	h.mu.Unlock()
	log.Printf("[Scoreboard] %s connected (total %d)", conn.ID, h.totalConnections.Load())

	<-conn.Done()

	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	log.Printf("[Scoreboard] %s disconnected", conn.ID)
}

// Handler 返回 /ws 和 /health 路由
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.HandleWS)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(h.Stats())
	})
	return mux
}

// Serve 在 addr 上提供观战服务，ctx 取消时优雅关闭
func (h *Hub) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Scoreboard] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("scoreboard server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	h.closeAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("scoreboard shutdown: %w", err)
	}
	return nil
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.clients))
	for c := range h.clients {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.Close()
	}
}
