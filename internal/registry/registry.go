package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"cardbox/internal/logging"
)

// Broadcast event types understood by connected viewers.
const (
	EventUpdateCard = "updateCard"
	EventNewCard    = "newCard"
	EventOpenCard   = "openCard"
)

// DefaultCardID is assigned when a creation request names no identifier.
const DefaultCardID = "CARD_ID"

// Broadcaster fans a state-change event out to every connected viewer.
type Broadcaster interface {
	Broadcast(eventType string, payload any)
}

// ArtworkCache stores one cached thumbnail per card, best-effort.
type ArtworkCache interface {
	Replace(ctx context.Context, cardID, title, artworkURL string)
}

// Registry is the single source of truth for all cards. One mutex guards
// the collection, the store write, and the broadcast together.
type Registry struct {
	mu      sync.Mutex
	cards   []Card
	codec   *Codec
	events  Broadcaster
	artwork ArtworkCache
	logger  *slog.Logger
}

// New builds a registry persisting through codec and announcing through
// events. artwork may be nil when thumbnail caching is disabled.
func New(codec *Codec, events Broadcaster, artwork ArtworkCache, logger *slog.Logger) (*Registry, error) {
	cards, err := codec.Load()
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return &Registry{
		cards:   cards,
		codec:   codec,
		events:  events,
		artwork: artwork,
		logger:  logging.WithComponent(logger, "registry"),
	}, nil
}

// Snapshot returns a copy of the ordered card collection.
func (r *Registry) Snapshot() []Card {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Card, len(r.cards))
	copy(out, r.cards)
	return out
}

// Count returns the number of registered cards.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.cards)
}

// Update overwrites the name and media reference of an existing card,
// persists the snapshot, and broadcasts updateCard. An unknown identifier
// is a silent no-op: stale viewers re-submit edits for cards that were
// renamed underneath them, and crashing on those requests helps nobody.
func (r *Registry) Update(id, name, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		r.logger.Debug("update for unknown card ignored", slog.String(logging.FieldCardID, id))
		return nil
	}
	prev := r.cards[idx]
	r.cards[idx].Name = name
	r.cards[idx].URL = url
	if err := r.codec.Save(r.cards); err != nil {
		r.cards[idx] = prev
		return err
	}
	r.events.Broadcast(EventUpdateCard, r.cards[idx])
	r.logger.Info("card updated", slog.String(logging.FieldCardID, id))
	return nil
}

// Create appends a new card with empty name and reference. A duplicate
// identifier creates nothing; instead an openCard event steers every
// viewer to the existing entry and ErrDuplicate is returned.
func (r *Registry) Create(id string) (Card, error) {
	if id == "" {
		id = DefaultCardID
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(id) >= 0 {
		r.events.Broadcast(EventOpenCard, id)
		return Card{}, fmt.Errorf("create card %q: %w", id, ErrDuplicate)
	}
	card := Card{ID: id}
	r.cards = append(r.cards, card)
	if err := r.codec.Save(r.cards); err != nil {
		r.cards = r.cards[:len(r.cards)-1]
		return Card{}, err
	}
	r.events.Broadcast(EventNewCard, card)
	r.logger.Info("card created", slog.String(logging.FieldCardID, id))
	return card, nil
}

// SelectMedia assigns a search result to a card: display name becomes
// "<artist> - <title>", the media reference is replaced, and the cached
// thumbnail is swapped for the new artwork. Thumbnail work is best-effort
// and never fails the selection.
func (r *Registry) SelectMedia(ctx context.Context, id, artist, title, uri, artworkURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("select media for card %q: %w", id, ErrNotFound)
	}
	prev := r.cards[idx]
	r.cards[idx].Name = artist + " - " + title
	r.cards[idx].URL = uri

	if r.artwork != nil {
		r.artwork.Replace(ctx, id, title, artworkURL)
	}

	if err := r.codec.Save(r.cards); err != nil {
		r.cards[idx] = prev
		return err
	}
	r.events.Broadcast(EventUpdateCard, r.cards[idx])
	r.logger.Info("media selected", slog.String(logging.FieldCardID, id), slog.String("uri", uri))
	return nil
}

// RequestFocus tells every viewer to bring a card into view. No mutation,
// no store write.
func (r *Registry) RequestFocus(id string) {
	r.events.Broadcast(EventOpenCard, id)
}

// indexOf is called with the lock held.
func (r *Registry) indexOf(id string) int {
	for i := range r.cards {
		if r.cards[i].ID == id {
			return i
		}
	}
	return -1
}
