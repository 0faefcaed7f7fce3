package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCounter int

func (c fixedCounter) Count() int { return int(c) }

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("unreachable") }

func TestCheck(t *testing.T) {
	h := &Checker{nats: up, redis: up, db: up, games: fixedCounter(3), tracked: func() int { return 7 }}

	status := h.Check(context.Background())
	assert.Equal(t, &Status{NATS: stateUp, Redis: stateUp, Database: stateUp, Games: 3, Tracked: 7}, status)
	assert.True(t, h.IsHealthy(context.Background()))
}

func TestServeHTTP(t *testing.T) {
	tests := []struct {
		name    string
		checker *Checker
		want    int
	}{
		{"all up", &Checker{nats: up, redis: up, db: up}, http.StatusOK},
		{"redis down", &Checker{nats: up, redis: down, db: up}, http.StatusServiceUnavailable},
		{"database down", &Checker{nats: up, redis: up, db: down}, http.StatusServiceUnavailable},
		{"nats missing", &Checker{redis: up, db: up}, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.checker.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			var status Status
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
			assert.Equal(t, tt.want == http.StatusOK, status.Healthy())
		})
	}
}

type fixedBus bool

func (b fixedBus) IsConnected() bool { return bool(b) }

func TestNATSProbe(t *testing.T) {
	assert.NoError(t, NATSProbe(fixedBus(true))(context.Background()))
	assert.Error(t, NATSProbe(fixedBus(false))(context.Background()))
}
