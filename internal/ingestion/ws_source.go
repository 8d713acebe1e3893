package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"solana-swap-classifier/internal/observability"
)

// WSConfig configures WebSocket stream behavior.
type WSConfig struct {
	// ReconnectDelay is initial delay before reconnect attempt.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// PingInterval is interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing messages.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSConfig {
	return WSConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		PingInterval:      30 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// TransactionFilter restricts the stream to transactions mentioning any of
// the given accounts. Empty means all transactions.
type TransactionFilter struct {
	AccountInclude []string
}

// WSSource streams enhanced transactions from a provider WebSocket endpoint.
// It maintains one transactionSubscribe subscription and resubscribes after
// reconnect.
type WSSource struct {
	provider string
	endpoint string
	filter   TransactionFilter
	config   WSConfig
	logger   *log.Logger

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	subID   atomic.Int64
	pending sync.Map // request ID -> chan int64

	ch   chan Envelope
	done chan struct{}
	wg   sync.WaitGroup

	reconnecting atomic.Bool
}

// WSSourceOptions contains configuration for creating a WSSource.
type WSSourceOptions struct {
	Provider string
	Endpoint string
	Filter   TransactionFilter
	Config   *WSConfig
	Logger   *log.Logger
}

// NewWSSource creates a WSSource and connects to the endpoint.
func NewWSSource(ctx context.Context, opts WSSourceOptions) (*WSSource, error) {
	cfg := DefaultWSConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &WSSource{
		provider: opts.Provider,
		endpoint: opts.Endpoint,
		filter:   opts.Filter,
		config:   cfg,
		logger:   logger,
		ch:       make(chan Envelope, 10000),
		done:     make(chan struct{}),
	}

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	s.wg.Add(1)
	go s.readLoop()

	s.wg.Add(1)
	go s.pingLoop()

	return s, nil
}

// Compile-time interface check.
var _ Source = (*WSSource)(nil)

// Subscribe sends the transaction subscription and returns the envelope
// channel.
func (s *WSSource) Subscribe(ctx context.Context) (<-chan Envelope, error) {
	subID, err := s.subscribeTransactions(ctx)
	if err != nil {
		return nil, err
	}
	s.subID.Store(subID)
	return s.ch, nil
}

// Close closes the WebSocket connection and the envelope channel.
func (s *WSSource) Close() error {
	if s.closed.Swap(true) {
		return nil // Already closed
	}

	close(s.done)

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.conn.Close()
	}
	s.connMu.Unlock()

	s.wg.Wait()
	close(s.ch)
	return nil
}

// connect establishes WebSocket connection.
func (s *WSSource) connect(ctx context.Context) error {
	s.connMu.Lock()
	defer s.connMu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, s.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	s.conn = conn
	return nil
}

// subscribeTransactions sends a transactionSubscribe request and waits for
// the subscription ID.
func (s *WSSource) subscribeTransactions(ctx context.Context) (int64, error) {
	if s.closed.Load() {
		return 0, fmt.Errorf("source closed")
	}

	reqID := s.requestID.Add(1)

	filter := map[string]interface{}{}
	if len(s.filter.AccountInclude) > 0 {
		filter["accountInclude"] = s.filter.AccountInclude
	}

	req := wsRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  "transactionSubscribe",
		Params: []interface{}{
			filter,
			map[string]string{"commitment": "confirmed"},
		},
	}

	confirmCh := make(chan int64, 1)
	s.pending.Store(reqID, confirmCh)
	defer s.pending.Delete(reqID)

	s.connMu.Lock()
	if s.conn == nil {
		s.connMu.Unlock()
		return 0, fmt.Errorf("not connected")
	}
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	err := s.conn.WriteJSON(req)
	s.connMu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("write subscribe: %w", err)
	}

	select {
	case subID := <-confirmCh:
		return subID, nil
	case <-time.After(30 * time.Second):
		return 0, fmt.Errorf("subscription timeout after 30s")
	case <-s.done:
		return 0, fmt.Errorf("source closed")
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// readLoop reads messages and dispatches notifications.
func (s *WSSource) readLoop() {
	defer s.wg.Done()

	reconnectDelay := s.config.ReconnectDelay

	for !s.closed.Load() {
		s.connMu.Lock()
		conn := s.conn
		s.connMu.Unlock()

		if conn == nil {
			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))

		_, message, err := conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return
			}

			if !s.reconnecting.Swap(true) {
				go s.reconnect(reconnectDelay)
			}

			// Exponential backoff for the next attempt
			reconnectDelay = reconnectDelay * 2
			if reconnectDelay > s.config.MaxReconnectDelay {
				reconnectDelay = s.config.MaxReconnectDelay
			}

			select {
			case <-s.done:
				return
			case <-time.After(100 * time.Millisecond):
				continue
			}
		}

		// Reset delay on successful read
		reconnectDelay = s.config.ReconnectDelay

		s.handleMessage(message)
	}
}

// reconnect attempts to reconnect and resubscribe.
func (s *WSSource) reconnect(delay time.Duration) {
	defer s.reconnecting.Store(false)

	if s.closed.Load() {
		return
	}

	select {
	case <-s.done:
		return
	case <-time.After(delay):
	}

	s.connMu.Lock()
	if s.conn != nil {
		s.conn.Close()
		s.conn = nil
	}
	s.connMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		// Reconnect failed, will retry on next read error
		return
	}

	s.logger.Printf("WebSocket reconnected to %s", s.endpoint)
	observability.DefaultMetrics.WSReconnects.Inc()

	if s.subID.Load() != 0 {
		subID, err := s.subscribeTransactions(ctx)
		if err != nil {
			s.logger.Printf("Resubscribe failed: %v", err)
			return
		}
		s.subID.Store(subID)
	}
}

// handleMessage processes one incoming WebSocket message.
func (s *WSSource) handleMessage(message []byte) {
	// Subscription confirmation
	var resp wsSubscribeResponse
	if err := json.Unmarshal(message, &resp); err == nil && resp.Result > 0 {
		if ch, ok := s.pending.Load(resp.ID); ok {
			select {
			case ch.(chan int64) <- resp.Result:
			default:
			}
		}
		return
	}

	// Transaction notification
	var notif wsNotification
	if err := json.Unmarshal(message, &notif); err == nil && notif.Method == "transactionNotification" {
		if notif.Params == nil || len(notif.Params.Result.Transaction) == 0 {
			return
		}
		env := Envelope{Provider: s.provider, Payload: notif.Params.Result.Transaction}
		// Block until we can send - never drop events
		select {
		case s.ch <- env:
			observability.RecordTransactionReceived(s.provider)
			if notif.Params.Result.Slot > 0 {
				observability.UpdateHighestSlot(notif.Params.Result.Slot)
			}
		case <-s.done:
		}
		return
	}

	// Error response
	var errResp struct {
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(message, &errResp); err == nil && errResp.Error != nil {
		s.logger.Printf("WebSocket error response: code=%d msg=%s", errResp.Error.Code, errResp.Error.Message)
	}
}

// pingLoop sends periodic ping frames to keep connection alive.
func (s *WSSource) pingLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.connMu.Lock()
			if s.conn != nil {
				s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
				if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					// Connection might be dead, reader will handle reconnect
				}
			}
			s.connMu.Unlock()
		}
	}
}

// WebSocket message types

type wsRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      uint64        `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params,omitempty"`
}

type wsSubscribeResponse struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Result  int64  `json:"result"` // subscription ID
}

type wsNotification struct {
	JSONRPC string                `json:"jsonrpc"`
	Method  string                `json:"method"`
	Params  *wsNotificationParams `json:"params"`
}

type wsNotificationParams struct {
	Subscription int64                `json:"subscription"`
	Result       wsNotificationResult `json:"result"`
}

type wsNotificationResult struct {
	Slot        int64           `json:"slot"`
	Transaction json.RawMessage `json:"transaction"`
}
