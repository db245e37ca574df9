// Package session implements an optimistic product editing session: products
// are loaded and edited in memory, then saved in one commit or discarded.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/light-bringer/changetrack/internal/app/product/contracts"
	"github.com/light-bringer/changetrack/internal/app/product/domain"
	"github.com/light-bringer/changetrack/internal/pkg/changetrack"
	"github.com/light-bringer/changetrack/internal/pkg/clock"
	"github.com/light-bringer/changetrack/internal/pkg/committer"
)

// ErrUnknownProduct is returned when an operation names a product the session does not hold.
var ErrUnknownProduct = errors.New("product is not part of the session")

// Change describes the pending edits of one product.
type Change struct {
	ProductID string
	New       bool
	Fields    []string
}

// Session tracks products between load and save. It is not safe for concurrent use.
type Session struct {
	tracker *changetrack.Tracker[*domain.Product]
	repo    contracts.ProductRepository
	outbox  contracts.OutboxRepository
	applier committer.Applier
	clock   clock.Clock
	logger  *slog.Logger

	byID    map[string]*domain.Product
	created map[*domain.Product]bool
}

// New creates an empty Session. A nil logger discards output.
func New(
	repo contracts.ProductRepository,
	outbox contracts.OutboxRepository,
	applier committer.Applier,
	clk clock.Clock,
	logger *slog.Logger,
) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		tracker: changetrack.New(domain.Schema(), changetrack.WithLogger(logger)),
		repo:    repo,
		outbox:  outbox,
		applier: applier,
		clock:   clk,
		logger:  logger,
		byID:    make(map[string]*domain.Product),
		created: make(map[*domain.Product]bool),
	}
}

// Load returns the product with the given ID, reading it only the first time.
func (s *Session) Load(ctx context.Context, productID string) (*domain.Product, error) {
	if p, ok := s.byID[productID]; ok {
		return p, nil
	}

	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := s.Track(p); err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCategory loads the products of a category into the session. Products
// already held by the session are returned as they are, edits included.
func (s *Session) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	loaded, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(loaded))
	for _, p := range loaded {
		if held, ok := s.byID[p.ID()]; ok {
			products = append(products, held)
			continue
		}
		if err := s.Track(p); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// Track adds an already persisted product; its current state becomes the baseline.
func (s *Session) Track(p *domain.Product) error {
	if _, ok := s.byID[p.ID()]; ok {
		return fmt.Errorf("product %s: %w", p.ID(), changetrack.ErrDuplicateItem)
	}
	if err := s.tracker.Add(p); err != nil {
		return fmt.Errorf("product %s: %w", p.ID(), err)
	}
	s.byID[p.ID()] = p
	return nil
}

// Create adds a product that does not exist yet; the next Save inserts it.
func (s *Session) Create(p *domain.Product) error {
	if err := s.Track(p); err != nil {
		return err
	}
	s.created[p] = true
	return nil
}

// Forget drops a product from the session without touching it.
func (s *Session) Forget(p *domain.Product) {
	if s.tracker.Remove(p) {
		delete(s.byID, p.ID())
		delete(s.created, p)
	}
}

// Changes lists unsaved products in the order they joined the session.
func (s *Session) Changes() []Change {
	var changes []Change
	for p := range s.tracker.All() {
		dirty := s.tracker.DirtyProperties(p)
		if len(dirty) == 0 && !s.created[p] {
			continue
		}
		changes = append(changes, Change{
			ProductID: p.ID(),
			New:       s.created[p],
			Fields:    changetrack.Names(dirty),
		})
	}
	return changes
}

// HasChanges reports whether Save has anything to write.
func (s *Session) HasChanges() bool {
	return len(s.Changes()) > 0
}

// Save writes every new and edited product in a single commit together with
// their outbox events. Edited products are guarded by version checks. Nothing
// is accepted unless the commit succeeds.
func (s *Session) Save(ctx context.Context) error {
	now := s.clock.Now()
	plan := committer.NewPlan()
	var checks []committer.VersionCheck
	var saved []*domain.Product

	for p := range s.tracker.All() {
		dirty := s.tracker.DirtyProperties(p)
		isNew := s.created[p]
		if len(dirty) == 0 && !isNew {
			continue
		}

		if err := p.Validate(); err != nil {
			return fmt.Errorf("product %s: %w", p.ID(), err)
		}

		var events []domain.DomainEvent
		if isNew {
			mut, err := s.repo.InsertMut(p)
			if err != nil {
				return fmt.Errorf("product %s: %w", p.ID(), err)
			}
			plan.Add(mut)
			events = append(events, &domain.ProductCreatedEvent{
				ProductID: p.ID(),
				Name:      p.Name(),
				Category:  p.Category(),
				CreatedAt: p.CreatedAt(),
			})
		} else {
			mut, err := s.repo.UpdateMut(p, dirty)
			if err != nil {
				return fmt.Errorf("product %s: %w", p.ID(), err)
			}
			plan.Add(mut)
			checks = append(checks, s.repo.VersionCheck(p))
			events = append(events, updateEvents(p, dirty, now)...)
		}

		for _, event := range events {
			outboxEvent, err := s.outbox.EnrichEvent(event)
			if err != nil {
				return fmt.Errorf("failed to serialize event: %w", err)
			}
			plan.Add(s.outbox.InsertMut(outboxEvent))
		}
		saved = append(saved, p)
	}

	if plan.IsEmpty() {
		return nil
	}

	if err := s.applier.Apply(ctx, plan, checks...); err != nil {
		s.logger.WarnContext(ctx, "save failed, changes kept", "products", len(saved), "error", err)
		return fmt.Errorf("failed to commit session: %w", err)
	}

	if err := s.tracker.AcceptChanges(saved...); err != nil {
		return err
	}
	for _, p := range saved {
		p.MarkPersisted(p.Version()+1, now)
		delete(s.created, p)
	}

	s.logger.InfoContext(ctx, "session saved",
		"products", len(saved),
		"mutations", plan.Count())
	return nil
}

// updateEvents describes a saved edit; archiving gets its own event as well.
func updateEvents(p *domain.Product, dirty []*changetrack.Property[*domain.Product], now time.Time) []domain.DomainEvent {
	fields := changetrack.Names(dirty)
	events := []domain.DomainEvent{&domain.ProductUpdatedEvent{
		ProductID:     p.ID(),
		ChangedFields: fields,
		Status:        string(p.Status()),
		Version:       p.Version() + 1,
		UpdatedAt:     now,
	}}
	if at := p.ArchivedAt(); at != nil && p.IsArchived() && slices.Contains(fields, domain.FieldStatus) {
		events = append(events, &domain.ProductArchivedEvent{
			ProductID:  p.ID(),
			ArchivedAt: *at,
		})
	}
	return events
}

// Discard rolls every product back to its last saved state.
func (s *Session) Discard() error {
	return s.tracker.RejectAll()
}

// Revert rolls back the named fields of p, leaving its other edits pending.
// Without fields every edit of p is rolled back.
func (s *Session) Revert(p *domain.Product, fields ...string) error {
	if !s.tracker.Contains(p) {
		return fmt.Errorf("product %s: %w", p.ID(), ErrUnknownProduct)
	}
	if len(fields) > 0 {
		unsubscribe := s.tracker.OnBeforeReject(func(tr *changetrack.Transition[*domain.Product]) {
			tr.Only(fields...)
		})
		defer unsubscribe()
	}
	return s.tracker.RejectChanges(p)
}

// Pending reports whether the named field of p differs from its saved value.
func (s *Session) Pending(p *domain.Product, field string) bool {
	return slices.Contains(changetrack.Names(s.tracker.DirtyProperties(p)), field)
}
