package graphqlws

import (
	"encoding/json"
)

// WebSocketSubprotocol is the subprotocol name used by the deprecated subscriptions-transport-ws
// implementation of GraphQL over WebSockets.
const WebSocketSubprotocol = "graphql-ws"

// MessageType represents a graphql-ws message type.
type MessageType string

// MessageType represents a graphql-ws message type.
const (
	MessageTypeConnectionInit      MessageType = "connection_init"
	MessageTypeConnectionAck       MessageType = "connection_ack"
	MessageTypeConnectionError     MessageType = "connection_error"
	MessageTypeConnectionKeepAlive MessageType = "ka"
	MessageTypeConnectionTerminate MessageType = "connection_terminate"
	MessageTypeStart               MessageType = "start"
	MessageTypeData                MessageType = "data"
	MessageTypeError               MessageType = "error"
	MessageTypeStop                MessageType = "stop"
	MessageTypeComplete            MessageType = "complete"
)

// Message represents a graphql-ws message. This can be used for both client and server messages.
type Message struct {
	Id      string          `json:"id,omitempty"`
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
