// Package gelf ships log lines to a Graylog input over UDP.
package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends one GELF message per Write. It is meant to sit behind
// log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
	service  string
}

// New dials addr (e.g. "172.17.0.1:12201"). service tags every message.
func New(addr, service string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = service + "-server"
	}
	return &Writer{conn: conn, hostname: hostname, service: service}, nil
}

// Level maps a log line to a syslog level: PANIC and Fatal lines are errors,
// "Warning:" lines warnings, the rest informational.
func Level(short string) int {
	switch {
	case strings.Contains(short, "PANIC:") || strings.Contains(short, "Fatal"):
		return 3
	case strings.HasPrefix(short, "Warning:"):
		return 4
	default:
		return 6
	}
}

// stripDate drops the "2006/01/02 15:04:05 " prefix the log package adds.
func stripDate(msg string) string {
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		return msg[20:]
	}
	return msg
}

// Write never fails the log call; send errors are dropped.
func (w *Writer) Write(p []byte) (int, error) {
	short := stripDate(strings.TrimRight(string(p), "\n"))

	payload, err := json.Marshal(map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixNano()) / 1e9,
		"level":         Level(short),
		"_service":      w.service,
	})
	if err != nil {
		return len(p), nil
	}
	w.conn.Write(payload)
	return len(p), nil
}

func (w *Writer) Close() error {
	return w.conn.Close()
}
