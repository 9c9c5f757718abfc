// Package oxidb is the subset of the oxidb-server TCP protocol the portal
// needs: documents in collections and objects in buckets.
//
// Every frame is [4-byte little-endian length][JSON payload]. The server
// answers {"ok": true, "data": ...} or {"ok": false, "error": "..."}.
package oxidb

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"sync"
)

// Client holds one connection. Requests are serialized on it.
type Client struct {
	mu     sync.Mutex
	conn   net.Conn
	closed bool
}

// Dial connects to oxidb-server at host:port.
func Dial(ctx context.Context, host string, port int) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("oxidb: connect to %s: %w", addr, err)
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection. Calling it twice is harmless.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

func (c *Client) writeFrame(data []byte) error {
	frame := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint32(frame, uint32(len(data)))
	copy(frame[4:], data)
	_, err := c.conn.Write(frame)
	return err
}

func (c *Client) readFrame() ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(c.conn, hdr[:]); err != nil {
		return nil, fmt.Errorf("oxidb: read length: %w", err)
	}
	payload := make([]byte, binary.LittleEndian.Uint32(hdr[:]))
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("oxidb: read payload: %w", err)
	}
	return payload, nil
}

type response struct {
	OK    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// do sends one command and decodes the data field into out (when non-nil).
// The context deadline, if any, bounds the whole round trip.
func (c *Client) do(ctx context.Context, cmd map[string]any, out any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}

	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return fmt.Errorf("oxidb: set deadline: %w", err)
	}

	body, err := json.Marshal(cmd)
	if err != nil {
		return fmt.Errorf("oxidb: marshal request: %w", err)
	}
	if err := c.writeFrame(body); err != nil {
		return fmt.Errorf("oxidb: send: %w", err)
	}
	raw, err := c.readFrame()
	if err != nil {
		return err
	}

	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return fmt.Errorf("oxidb: unmarshal response: %w", err)
	}
	if !resp.OK {
		msg := resp.Error
		if msg == "" {
			msg = "unknown error"
		}
		name, _ := cmd["cmd"].(string)
		return &ServerError{Cmd: name, Msg: msg}
	}
	if out == nil || len(resp.Data) == 0 || string(resp.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("oxidb: decode data: %w", err)
	}
	return nil
}

// Ping returns "pong" on a healthy connection.
func (c *Client) Ping(ctx context.Context) (string, error) {
	var s string
	err := c.do(ctx, map[string]any{"cmd": "ping"}, &s)
	return s, err
}

// CreateUniqueIndex creates a unique index on field.
func (c *Client) CreateUniqueIndex(ctx context.Context, collection, field string) error {
	return c.do(ctx, map[string]any{"cmd": "create_unique_index", "collection": collection, "field": field}, nil)
}

// Insert inserts one document.
func (c *Client) Insert(ctx context.Context, collection string, doc map[string]any) error {
	return c.do(ctx, map[string]any{"cmd": "insert", "collection": collection, "doc": doc}, nil)
}

// FindOne returns the first document matching query, or nil.
func (c *Client) FindOne(ctx context.Context, collection string, query map[string]any) (map[string]any, error) {
	var doc map[string]any
	err := c.do(ctx, map[string]any{"cmd": "find_one", "collection": collection, "query": query}, &doc)
	return doc, err
}

// Find returns every document matching query.
func (c *Client) Find(ctx context.Context, collection string, query map[string]any) ([]map[string]any, error) {
	var docs []map[string]any
	err := c.do(ctx, map[string]any{"cmd": "find", "collection": collection, "query": query}, &docs)
	return docs, err
}

// UpdateOne applies update to at most one document matching query.
func (c *Client) UpdateOne(ctx context.Context, collection string, query, update map[string]any) error {
	return c.do(ctx, map[string]any{
		"cmd": "update_one", "collection": collection,
		"query": query, "update": update,
	}, nil)
}

// DeleteOne deletes at most one document matching query.
func (c *Client) DeleteOne(ctx context.Context, collection string, query map[string]any) error {
	return c.do(ctx, map[string]any{"cmd": "delete_one", "collection": collection, "query": query}, nil)
}

// Count counts documents matching query.
func (c *Client) Count(ctx context.Context, collection string, query map[string]any) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	err := c.do(ctx, map[string]any{"cmd": "count", "collection": collection, "query": query}, &out)
	return out.Count, err
}

// CreateBucket creates a blob bucket.
func (c *Client) CreateBucket(ctx context.Context, bucket string) error {
	return c.do(ctx, map[string]any{"cmd": "create_bucket", "bucket": bucket}, nil)
}

// PutObject stores data under bucket/key. The payload travels base64-encoded.
func (c *Client) PutObject(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return c.do(ctx, map[string]any{
		"cmd":          "put_object",
		"bucket":       bucket,
		"key":          key,
		"data":         base64.StdEncoding.EncodeToString(data),
		"content_type": contentType,
	}, nil)
}

// GetObject returns the bytes and the stored content type of bucket/key.
func (c *Client) GetObject(ctx context.Context, bucket, key string) ([]byte, string, error) {
	var out struct {
		Content  string         `json:"content"`
		Metadata map[string]any `json:"metadata"`
	}
	if err := c.do(ctx, map[string]any{"cmd": "get_object", "bucket": bucket, "key": key}, &out); err != nil {
		return nil, "", err
	}
	data, err := base64.StdEncoding.DecodeString(out.Content)
	if err != nil {
		return nil, "", fmt.Errorf("oxidb: decode base64: %w", err)
	}
	ct, _ := out.Metadata["content_type"].(string)
	return data, ct, nil
}

// DeleteObject removes bucket/key.
func (c *Client) DeleteObject(ctx context.Context, bucket, key string) error {
	return c.do(ctx, map[string]any{"cmd": "delete_object", "bucket": bucket, "key": key}, nil)
}
