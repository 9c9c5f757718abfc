package db

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/roshil-6/TONIO-SENORA/internal/oxidb"
)

const (
	dialTimeout       = 5 * time.Second
	keepaliveInterval = 10 * time.Second
)

// Pool is a round-robin set of OxiDB connections. A keepalive loop pings
// every connection and replaces the ones that stop answering.
type Pool struct {
	host    string
	port    int
	mu      sync.RWMutex
	clients []*oxidb.Client
	idx     atomic.Uint64
	stop    chan struct{}
	once    sync.Once
}

// NewPool dials size connections to host:port.
func NewPool(host string, port, size int) (*Pool, error) {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		host:    host,
		port:    port,
		clients: make([]*oxidb.Client, size),
		stop:    make(chan struct{}),
	}
	for i := range p.clients {
		c, err := p.dial()
		if err != nil {
			p.Close()
			return nil, fmt.Errorf("pool: connect client %d: %w", i, err)
		}
		p.clients[i] = c
	}
	go p.keepalive()
	return p, nil
}

func (p *Pool) dial() (*oxidb.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	return oxidb.Dial(ctx, p.host, p.port)
}

// Get returns the next connection in round-robin order.
func (p *Pool) Get() *oxidb.Client {
	n := p.idx.Add(1)
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.clients[n%uint64(len(p.clients))]
}

func (p *Pool) reconnect(i int) {
	c, err := p.dial()
	if err != nil {
		log.Printf("Warning: pool: reconnect client %d failed: %v", i, err)
		return
	}
	p.mu.Lock()
	old := p.clients[i]
	p.clients[i] = c
	p.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

func (p *Pool) keepalive() {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.mu.RLock()
			clients := append([]*oxidb.Client(nil), p.clients...)
			p.mu.RUnlock()
			for i, c := range clients {
				ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
				_, err := c.Ping(ctx)
				cancel()
				if err != nil {
					log.Printf("Warning: pool: client %d ping failed, reconnecting: %v", i, err)
					p.reconnect(i)
				}
			}
		}
	}
}

// Close stops the keepalive loop and closes every connection.
func (p *Pool) Close() {
	p.once.Do(func() {
		close(p.stop)
		p.mu.Lock()
		defer p.mu.Unlock()
		for _, c := range p.clients {
			if c != nil {
				c.Close()
			}
		}
	})
}
