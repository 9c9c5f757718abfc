package gelf

import (
	"encoding/json"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	assert.Equal(t, 3, Level("PANIC: boom"))
	assert.Equal(t, 3, Level("Fatal error"))
	assert.Equal(t, 4, Level("Warning: kv: discarding corrupted entry"))
	assert.Equal(t, 6, Level("GET /api/v1/catalog 200 1ms"))
}

func TestWriteSendsMessage(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)
	defer pc.Close()

	w, err := New(pc.LocalAddr().String(), "portal")
	require.NoError(t, err)
	defer w.Close()

	line := "2026/10/19 09:15:00 Warning: gate: session purged\n"
	n, err := w.Write([]byte(line))
	require.NoError(t, err)
	assert.Equal(t, len(line), n)

	require.NoError(t, pc.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 4096)
	n, _, err = pc.ReadFrom(buf)
	require.NoError(t, err)

	var msg map[string]any
	require.NoError(t, json.Unmarshal(buf[:n], &msg))
	assert.Equal(t, "1.1", msg["version"])
	assert.Equal(t, "Warning: gate: session purged", msg["short_message"])
	assert.Equal(t, float64(4), msg["level"])
	assert.Equal(t, "portal", msg["_service"])
}
