package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Conn is the hub's view of a live connection. *Session satisfies it; tests
// substitute their own recording implementations.
type Conn interface {
	ID() string
	Send(msg []byte) bool
	Close(err error)
}

// Hub is the in-memory Broadcaster implementation. It owns the
// connection-to-group index for the lifetime of the process.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]Conn
	groups   map[string]map[string]Conn

	log zerolog.Logger
}

var _ Broadcaster = (*Hub)(nil)

func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]Conn),
		groups:   make(map[string]map[string]Conn),
		log:      log,
	}
}

// Register makes a connection addressable by the hub. It belongs to no group
// until the registrar enrolls it.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[c.ID()] = c
	h.log.Debug().Str("conn_id", c.ID()).Msg("Connection registered with hub")
}

// Unregister forgets a connection and sweeps any group membership it still
// holds. The registrar normally removes membership first; the sweep keeps the
// index consistent when it could not.
func (h *Hub) Unregister(connID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.sessions, connID)
	for name, members := range h.groups {
		if _, ok := members[connID]; ok {
			delete(members, connID)
			if len(members) == 0 {
				delete(h.groups, name)
			}
		}
	}
	h.log.Debug().Str("conn_id", connID).Msg("Connection unregistered from hub")
}

func (h *Hub) AddToGroup(ctx context.Context, group, connID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sess, ok := h.sessions[connID]
	if !ok {
		return fmt.Errorf("cannot add unknown connection %s to group %s", connID, group)
	}

	members, ok := h.groups[group]
	if !ok {
		members = make(map[string]Conn)
		h.groups[group] = members
	}
	members[connID] = sess

	h.log.Debug().Str("conn_id", connID).Str("group", group).Msg("Connection added to group")
	return nil
}

func (h *Hub) RemoveFromGroup(ctx context.Context, group, connID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.groups[group]
	if !ok {
		return nil
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.groups, group)
	}

	h.log.Debug().Str("conn_id", connID).Str("group", group).Msg("Connection removed from group")
	return nil
}

func (h *Hub) SendToGroup(ctx context.Context, group string, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode %s envelope: %w", env.Type, err)
	}

	h.mu.RLock()
	members := make([]Conn, 0, len(h.groups[group]))
	for _, sess := range h.groups[group] {
		members = append(members, sess)
	}
	h.mu.RUnlock()

	if len(members) == 0 {
		h.log.Debug().Str("group", group).Str("type", env.Type).Msg("No connections in group, event dropped")
		return nil
	}

	for _, sess := range members {
		if !sess.Send(payload) {
			h.log.Warn().
				Str("conn_id", sess.ID()).
				Str("group", group).
				Str("type", env.Type).
				Msg("Send buffer full or connection closing, event skipped")
		}
	}
	return nil
}

// GroupSize reports current membership. Zero for unknown groups.
func (h *Hub) GroupSize(group string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[group])
}

// Close terminates every live connection. Used during graceful shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]Conn, 0, len(h.sessions))
	for _, sess := range h.sessions {
		sessions = append(sessions, sess)
	}
	h.sessions = make(map[string]Conn)
	h.groups = make(map[string]map[string]Conn)
	h.mu.Unlock()

	for _, sess := range sessions {
		sess.Close(errors.New("server shutting down"))
	}
	h.log.Info().Int("connections", len(sessions)).Msg("Hub closed")
}
