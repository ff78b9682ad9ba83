package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Generation job events, in pipeline order
const (
	MsgKeywords    MessageType = "keywords"
	MsgAllocated   MessageType = "allocated"
	MsgClusterDone MessageType = "cluster_done"
	MsgCompleted   MessageType = "completed"
	MsgCached      MessageType = "cached"
	MsgFailed      MessageType = "failed"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections watching generation jobs
type Hub struct {
	// jobID -> connections
	watchers map[string]map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents one WebSocket watcher of a job
type Connection struct {
	JobID string
	Send  chan []byte
	Hub   *Hub
}

// BroadcastMessage is a message to broadcast to a job's watchers
type BroadcastMessage struct {
	JobID   string
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		watchers:   make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.JobID] == nil {
				h.watchers[conn.JobID] = make(map[*Connection]bool)
			}
			h.watchers[conn.JobID][conn] = true
			log.Printf("Watcher connected to job %s", conn.JobID)
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.JobID]; ok {
				if conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					log.Printf("Watcher disconnected from job %s", conn.JobID)
				}
				if len(conns) == 0 {
					delete(h.watchers, conn.JobID)
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)
			for conn := range h.watchers[msg.JobID] {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// Publish sends a job event to all its watchers (implements service.ProgressNotifier)
func (h *Hub) Publish(jobID string, event string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		JobID: jobID,
		Message: &Message{
			Type:    MessageType(event),
			Payload: data,
		},
	}
}
