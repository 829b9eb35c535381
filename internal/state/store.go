package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/datanaut/fichas/internal/api"
)

// Connection is the status indicator state.
type Connection int

const (
	ConnectionChecking Connection = iota
	ConnectionConnected
	ConnectionError
)

// Label returns the indicator text.
func (c Connection) Label() string {
	switch c {
	case ConnectionConnected:
		return "API Conectada"
	case ConnectionError:
		return "Erro de Conexão"
	default:
		return "Verificando API..."
	}
}

// Snapshot represents the latest API probe available to the UI.
type Snapshot struct {
	Info                api.InfoResponse
	Health              string
	HasStatus           bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// Connection derives the indicator state. The most recent probe wins.
func (s Snapshot) Connection() Connection {
	switch {
	case s.LastError != nil:
		return ConnectionError
	case s.HasStatus:
		return ConnectionConnected
	default:
		return ConnectionChecking
	}
}

// Detail returns the secondary indicator line.
func (s Snapshot) Detail() string {
	switch s.Connection() {
	case ConnectionConnected:
		return "API conectada: " + s.Info.Message
	case ConnectionError:
		return "Erro de conexão: " + s.LastError.Error()
	default:
		return ""
	}
}

// IsOffline returns true when the API has been unreachable for multiple probes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(info *api.InfoResponse, health *api.HealthResponse, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	if info != nil {
		s.snapshot.Info = *info
		s.snapshot.HasStatus = true
	} else {
		s.snapshot.HasStatus = false
	}
	s.snapshot.Health = ""
	if health != nil {
		s.snapshot.Health = health.Status
	}
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
