package adapter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// BridgeHandler processes one adapted request and produces the response
// written back over the connection. Hosts typically wire a pipeline
// execution here.
type BridgeHandler func(ctx context.Context, req *message.Request) (*message.Response, error)

// WebSocketBridge serves Message envelopes over a single WebSocket
// connection: it reads frames, adapts them into requests, invokes the
// handler, and writes the adapted responses back. Handler failures are
// reported to the peer as error envelopes; the connection stays open.
//
// The bridge never registers HTTP routes. Hosts upgrade connections
// themselves (see NewUpgrader) and pass each accepted connection to
// Serve.
type WebSocketBridge struct {
	adapter *WebSocketAdapter
	handler BridgeHandler
	format  string
	logger  observability.Logger
}

// WebSocketBridgeOption is a functional option for the bridge.
type WebSocketBridgeOption func(*WebSocketBridge)

// WithBridgeLogger sets the logger for the bridge.
func WithBridgeLogger(logger observability.Logger) WebSocketBridgeOption {
	return func(b *WebSocketBridge) {
		b.logger = logger
	}
}

// WithBridgeFormat sets the serialization format for envelope frames.
// Defaults to JSON.
func WithBridgeFormat(format string) WebSocketBridgeOption {
	return func(b *WebSocketBridge) {
		b.format = format
	}
}

// NewWebSocketBridge creates a bridge around an adapter and a handler.
func NewWebSocketBridge(adapter *WebSocketAdapter, handler BridgeHandler, opts ...WebSocketBridgeOption) (*WebSocketBridge, error) {
	if adapter == nil {
		return nil, util.NewAdaptationError(adapterWebSocket, "adapter is required")
	}
	if handler == nil {
		return nil, util.NewAdaptationError(adapterWebSocket, "handler is required")
	}

	b := &WebSocketBridge{
		adapter: adapter,
		handler: handler,
		format:  serializer.DefaultFormat,
		logger:  observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(b)
	}

	if _, err := adapter.registry.Get(b.format); err != nil {
		return nil, err
	}

	return b, nil
}

// Serve reads envelope frames from the connection until it closes or
// the context is cancelled. Each frame is answered with exactly one
// reply frame carrying the inbound correlation ID.
func (b *WebSocketBridge) Serve(ctx context.Context, conn *websocket.Conn) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}

		reply := b.handleFrame(ctx, frame)
		data, err := b.adapter.registry.Serialize(reply, b.format)
		if err != nil {
			return fmt.Errorf("encode reply frame: %w", err)
		}
		if err := conn.WriteMessage(b.frameType(), data); err != nil {
			return fmt.Errorf("write reply frame: %w", err)
		}
	}
}

// HandleFrame processes one raw envelope frame and returns the reply
// envelope. Exposed for transports that manage their own connections.
func (b *WebSocketBridge) HandleFrame(ctx context.Context, frame []byte) *message.Message {
	return b.handleFrame(ctx, frame)
}

func (b *WebSocketBridge) handleFrame(ctx context.Context, frame []byte) *message.Message {
	var msg message.Message
	if err := b.adapter.registry.DeserializeInto(frame, &msg, b.format); err != nil {
		b.logger.Warn("undecodable frame", observability.Err(err))
		return errorEnvelope("", err)
	}

	req, err := b.adapter.RequestFromMessage(ctx, &msg)
	if err != nil {
		b.logger.Warn("frame adaptation failed",
			observability.String("correlation_id", msg.CorrelationID),
			observability.Err(err),
		)
		return errorEnvelope(msg.CorrelationID, err)
	}

	resp, err := b.handler(ctx, req)
	if err != nil {
		b.logger.Warn("bridge handler failed",
			observability.String("correlation_id", msg.CorrelationID),
			observability.Err(err),
		)
		return errorEnvelope(msg.CorrelationID, err)
	}

	reply, err := b.adapter.ResponseToMessage(ctx, resp)
	if err != nil {
		return errorEnvelope(msg.CorrelationID, err)
	}
	reply.CorrelationID = msg.CorrelationID
	return reply
}

// frameType selects text frames for JSON and binary frames for every
// other format.
func (b *WebSocketBridge) frameType() int {
	if b.format == serializer.FormatJSON {
		return websocket.TextMessage
	}
	return websocket.BinaryMessage
}

// errorEnvelope builds the error reply for a failed frame. Validation
// and adaptation failures are the peer's fault and carry a 400 status;
// everything else is reported as a 500.
func errorEnvelope(correlationID string, err error) *message.Message {
	status := http.StatusInternalServerError
	if util.IsValidation(err) || util.IsAdaptation(err) {
		status = http.StatusBadRequest
	}

	msg := message.NewMessage(message.TypeError, map[string]interface{}{
		payloadKeyMessage: err.Error(),
		payloadKeyStatus:  status,
	})
	if correlationID != "" {
		msg.CorrelationID = correlationID
	}
	return msg
}
