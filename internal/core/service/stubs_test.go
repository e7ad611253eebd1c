package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dompet/finance-gateway/internal/core/ports"
)

var errStoreDown = errors.New("store unavailable")

var nopLog = zerolog.Nop()

type stubKV struct {
	mu      sync.Mutex
	data    map[string]string
	failSet map[string]bool
	failGet bool
	removes int
}

func newStubKV() *stubKV {
	return &stubKV{data: map[string]string{}, failSet: map[string]bool{}}
}

func (s *stubKV) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return "", false, errStoreDown
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubKV) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSet[key] {
		return errStoreDown
	}
	s.data[key] = value
	return nil
}

func (s *stubKV) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	delete(s.data, key)
	return nil
}

func (s *stubKV) snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.data))
	for k, v := range s.data {
		out[k] = v
	}
	return out
}

// stubDispatcher answers every request with reply and records what it saw.
type stubDispatcher struct {
	mu       sync.Mutex
	requests []ports.Request
	reply    func(req ports.Request) (json.RawMessage, error)
}

func replyWith(body string) *stubDispatcher {
	return &stubDispatcher{reply: func(ports.Request) (json.RawMessage, error) {
		return json.RawMessage(body), nil
	}}
}

func failWith(err error) *stubDispatcher {
	return &stubDispatcher{reply: func(ports.Request) (json.RawMessage, error) {
		return nil, err
	}}
}

func (d *stubDispatcher) Send(_ context.Context, req ports.Request) (json.RawMessage, error) {
	d.mu.Lock()
	d.requests = append(d.requests, req)
	d.mu.Unlock()
	return d.reply(req)
}

func (d *stubDispatcher) calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.requests)
}

func (d *stubDispatcher) last() ports.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.requests[len(d.requests)-1]
}

// bodyJSON re-encodes a request body so tests can compare wire fields.
func bodyJSON(req ports.Request) map[string]any {
	b, _ := json.Marshal(req.Body)
	out := map[string]any{}
	_ = json.Unmarshal(b, &out)
	return out
}
