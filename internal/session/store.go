// Package session keeps per-session chat transcripts in memory with a
// sliding expiry, so an abandoned conversation does not pin its history
// forever.
package session

import (
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"smartsdlc/internal/models"
)

// Store holds chat transcripts keyed by session id.
type Store struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewStore constructs a store whose sessions expire after ttl of inactivity.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
	}
}

// NewSession mints a fresh session id.
func (s *Store) NewSession() string {
	return uuid.NewString()
}

// Append records a turn and renews the session's expiry.
func (s *Store) Append(id, role, content string) {
	turns := s.History(id)
	turns = append(turns, models.ChatTurn{Role: role, Content: content})
	s.cache.Set(id, turns, s.ttl)
}

// History returns the transcript for a session, oldest first. A missing or
// expired session yields an empty transcript.
func (s *Store) History(id string) []models.ChatTurn {
	val, found := s.cache.Get(id)
	if !found {
		return nil
	}
	turns, ok := val.([]models.ChatTurn)
	if !ok {
		return nil
	}
	out := make([]models.ChatTurn, len(turns))
	copy(out, turns)
	return out
}

// FormatHistory renders a transcript into the context block the chat prompt
// expects: one "User:"/"AI:" line per turn.
func FormatHistory(turns []models.ChatTurn) string {
	if len(turns) == 0 {
		return ""
	}

	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		role := "AI"
		if turn.Role == models.RoleUser {
			role = "User"
		}
		lines = append(lines, role+": "+turn.Content)
	}
	return strings.Join(lines, "\n")
}
