package sse

import "time"

// Buffer sizes
const (
	// BroadcastBufferSize is the buffer size for the broadcast channel
	BroadcastBufferSize = 256

	// ClientEventBuffer is the buffer size for each client's event channel
	ClientEventBuffer = 64

	// ClientChannelBuffer is the buffer size for register/unregister channels
	ClientChannelBuffer = 16
)

// KeepaliveInterval is how often idle streams get a ping
const KeepaliveInterval = 30 * time.Second

// Stream control event types. Game events keep their bus type name.
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters accepted by the stream endpoint
const (
	QueryParamTypes     = "types"
	QueryParamCharacter = "character_id"
)

// Log messages
const (
	LogMsgClientConnected    = "SSE client connected"
	LogMsgClientDisconnected = "SSE client disconnected"
	LogMsgEventDropped       = "SSE broadcast buffer full, event dropped"
	LogMsgWriteError         = "Failed to write SSE event"
	LogMsgDecodeFailed       = "Failed to decode event payload for SSE"
	LogMsgSubscribed         = "SSE subscriber registered"
)

const errMsgStreamingUnsupported = "streaming not supported"
