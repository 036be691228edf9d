package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"
)

// ErrDisconnected is returned for commands issued after the IPC connection dropped.
var ErrDisconnected = errors.New("mpv connection closed")

const (
	commandTimeout = 3 * time.Second
	maxMessageSize = 1 << 20
)

// ipcRequest is a JSON-IPC command. mpv echoes request_id in the reply.
type ipcRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// ipcMessage is either a reply (RequestID set) or an asynchronous event.
type ipcMessage struct {
	RequestID *int64          `json:"request_id,omitempty"`
	Error     string          `json:"error,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`

	Event     string `json:"event,omitempty"`
	Name      string `json:"name,omitempty"`
	Reason    string `json:"reason,omitempty"`
	FileError string `json:"file_error,omitempty"`
}

// ipc multiplexes commands and events over one persistent connection.
// Replies are matched by request id, events are queued for a separate dispatcher so
// handlers may issue commands without stalling the reader.
type ipc struct {
	conn    net.Conn
	writeMu sync.Mutex

	mu      sync.Mutex
	nextID  int64
	pending map[int64]chan ipcMessage

	events *queue
	done   chan struct{}
}

func newIPC(conn net.Conn) *ipc {
	c := &ipc{
		conn:    conn,
		pending: make(map[int64]chan ipcMessage),
		events:  newQueue(),
		done:    make(chan struct{}),
	}
	go c.readLoop()
	return c
}

func (c *ipc) readLoop() {
	defer c.shutdown()

	scanner := bufio.NewScanner(c.conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessageSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}

		if msg.RequestID == nil {
			if msg.Event != "" {
				c.events.push(msg)
			}
			continue
		}

		c.mu.Lock()
		reply, ok := c.pending[*msg.RequestID]
		delete(c.pending, *msg.RequestID)
		c.mu.Unlock()

		if ok {
			reply <- msg
		}
	}
}

func (c *ipc) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
	}
	close(c.done)
	for id, reply := range c.pending {
		close(reply)
		delete(c.pending, id)
	}
}

// call sends a command and waits for its reply.
func (c *ipc) call(command ...any) (json.RawMessage, error) {
	c.mu.Lock()
	select {
	case <-c.done:
		c.mu.Unlock()
		return nil, ErrDisconnected
	default:
	}
	c.nextID++
	id := c.nextID
	reply := make(chan ipcMessage, 1)
	c.pending[id] = reply
	c.mu.Unlock()

	payload, err := json.Marshal(ipcRequest{Command: command, RequestID: id})
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	_, err = c.conn.Write(append(payload, '\n'))
	c.writeMu.Unlock()
	if err != nil {
		c.forget(id)
		return nil, fmt.Errorf("write: %w", err)
	}

	select {
	case msg, ok := <-reply:
		if !ok {
			return nil, ErrDisconnected
		}
		if msg.Error != "" && msg.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", msg.Error)
		}
		return msg.Data, nil
	case <-time.After(commandTimeout):
		c.forget(id)
		return nil, fmt.Errorf("%v: no reply after %s", command, commandTimeout)
	}
}

func (c *ipc) forget(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

func (c *ipc) close() error {
	err := c.conn.Close()
	<-c.done
	return err
}

// queue is an unbounded FIFO of events. push never blocks.
type queue struct {
	mu    sync.Mutex
	items []ipcMessage
	ready chan struct{}
}

func newQueue() *queue {
	return &queue{ready: make(chan struct{}, 1)}
}

func (q *queue) push(msg ipcMessage) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *queue) drain() []ipcMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	items := q.items
	q.items = nil
	return items
}
