package sqlite

import (
	"context"
	"fmt"
	"time"

	"CyberHack/internal/game"
)

const defaultSaveTimeout = 5 * time.Second

// PlayerPersistence binds the store to one profile id so a session can
// save and reload it without knowing about SQL or contexts.
type PlayerPersistence struct {
	store   *Store
	id      string
	timeout time.Duration
}

// ForPlayer returns a game.Persistence for profile id.
func (s *Store) ForPlayer(id string) *PlayerPersistence {
	return &PlayerPersistence{store: s, id: id, timeout: defaultSaveTimeout}
}

// Save implements game.Persistence.
func (p *PlayerPersistence) Save(profile *game.PlayerProfile) error {
	if profile == nil {
		return fmt.Errorf("save profile %s: nil profile", p.id)
	}
	if profile.ID != p.id {
		return fmt.Errorf("save profile: bound to %s, got %s", p.id, profile.ID)
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.store.PutProfile(ctx, profile)
}

// Load implements game.Persistence.
func (p *PlayerPersistence) Load() (*game.PlayerProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.store.GetProfile(ctx, p.id)
}

var _ game.Persistence = (*PlayerPersistence)(nil)
