package realtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Identity is the claim set established during the authentication handshake.
// It is passed explicitly; the registrar never reads ambient request state,
// and never trusts client-supplied parameters for tenant identity.
type Identity struct {
	UserID    string
	AccountID string
}

// Registrar maintains the invariant that a connection is visible to
// broadcasts for its own account only. A connection without an account claim
// joins no group at all: missing identity never grants access to a default
// or global group.
type Registrar struct {
	broadcaster Broadcaster
	log         zerolog.Logger

	mu     sync.Mutex
	joined map[string]string // connID -> group name
}

func NewRegistrar(b Broadcaster, log zerolog.Logger) *Registrar {
	return &Registrar{
		broadcaster: b,
		log:         log,
		joined:      make(map[string]string),
	}
}

// Connect enrolls a connection into its account's broadcast group. A missing
// account claim is not fatal: the connection stays functional but receives
// no broadcasts.
func (r *Registrar) Connect(ctx context.Context, connID string, id Identity) error {
	if id.AccountID == "" {
		r.log.Warn().
			Str("conn_id", connID).
			Str("user_id", id.UserID).
			Msg("Connection has no account claim, joining no broadcast group")
		return nil
	}

	group := GroupName(id.AccountID)
	if err := r.broadcaster.AddToGroup(ctx, group, connID); err != nil {
		return fmt.Errorf("failed to join group %s: %w", group, err)
	}

	r.mu.Lock()
	r.joined[connID] = group
	r.mu.Unlock()

	r.log.Info().
		Str("conn_id", connID).
		Str("account_id", id.AccountID).
		Str("user_id", id.UserID).
		Msg("Connection joined account group")
	return nil
}

// Disconnect removes the connection from its group if it joined one. It runs
// on every termination path, including abnormal ones, and is a no-op for
// connections that never joined.
func (r *Registrar) Disconnect(ctx context.Context, connID string) error {
	r.mu.Lock()
	group, ok := r.joined[connID]
	delete(r.joined, connID)
	r.mu.Unlock()

	if !ok {
		return nil
	}

	if err := r.broadcaster.RemoveFromGroup(ctx, group, connID); err != nil {
		return fmt.Errorf("failed to leave group %s: %w", group, err)
	}

	r.log.Info().Str("conn_id", connID).Str("group", group).Msg("Connection left account group")
	return nil
}
