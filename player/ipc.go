package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// ipcCommand is the JSON structure sent to mpv's IPC socket.
type ipcCommand struct {
	Command   []interface{} `json:"command"`
	RequestID int64         `json:"request_id"`
}

// ipcResponse is the JSON structure received from mpv's IPC socket.
// Event messages carry an "event" field instead of a request id and are skipped.
type ipcResponse struct {
	Data      interface{} `json:"data"`
	Error     string      `json:"error"`
	RequestID int64       `json:"request_id"`
	Event     string      `json:"event"`
}

const (
	maxRetries   = 3
	retryDelay   = 100 * time.Millisecond
	readDeadline = 1 * time.Second
)

// ipcClient talks to a running mpv instance over its Unix domain socket.
// A fresh connection per command keeps the client stateless across player
// restarts; request ids match responses against commands so interleaved
// event messages on the socket cannot be mistaken for replies.
type ipcClient struct {
	socketPath string
	requestID  atomic.Int64
	mu         sync.Mutex // serializes commands
}

// send issues a JSON-IPC command and returns its data payload.
// Transient connection errors are retried before giving up.
func (c *ipcClient) send(command []interface{}) (interface{}, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(retryDelay)
		}

		result, err := c.doSend(command)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return nil, fmt.Errorf("%w: command failed after %d attempts: %v", ErrIPC, maxRetries, lastErr)
}

// doSend performs a single IPC command attempt.
func (c *ipcClient) doSend(command []interface{}) (interface{}, error) {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer conn.Close()

	id := c.requestID.Add(1)

	payload, err := json.Marshal(ipcCommand{Command: command, RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}

	// mpv requires newline-delimited JSON.
	if _, err := conn.Write(append(payload, '\n')); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(readDeadline)); err != nil {
		return nil, fmt.Errorf("set deadline: %w", err)
	}

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		var resp ipcResponse
		if err := json.Unmarshal(scanner.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("unmarshal: %w", err)
		}

		// The socket also broadcasts property-change and playback events;
		// only the line echoing our request id is the reply.
		if resp.Event != "" || resp.RequestID != id {
			continue
		}

		if resp.Error != "" && resp.Error != "success" {
			return nil, fmt.Errorf("mpv error: %s", resp.Error)
		}
		return resp.Data, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return nil, fmt.Errorf("no reply for request %d", id)
}

// floatProperty retrieves a float64 mpv property via IPC.
func (c *ipcClient) floatProperty(name string) (float64, error) {
	data, err := c.send([]interface{}{"get_property", name})
	if err != nil {
		return 0, err
	}

	val, ok := data.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: property %s: expected float64, got %T", ErrIPC, name, data)
	}
	return val, nil
}

// stringProperty retrieves a string mpv property via IPC.
func (c *ipcClient) stringProperty(name string) (string, error) {
	data, err := c.send([]interface{}{"get_property", name})
	if err != nil {
		return "", err
	}

	val, ok := data.(string)
	if !ok {
		return "", fmt.Errorf("%w: property %s: expected string, got %T", ErrIPC, name, data)
	}
	return val, nil
}

// setProperty sets an mpv property via IPC.
func (c *ipcClient) setProperty(name string, value interface{}) error {
	_, err := c.send([]interface{}{"set_property", name, value})
	return err
}

// alive reports whether the socket answers commands at all.
func (c *ipcClient) alive() bool {
	_, err := c.send([]interface{}{"get_property", "pid"})
	return err == nil
}
