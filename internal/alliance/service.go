package alliance

import (
	"context"
	"errors"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/AegisInttellegenceCore/AIC/internal/audit"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/metrics"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/platform/sentinel"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// Service orchestrates the alliance lifecycle and key handling. All key
// wrapping and unwrapping happens here; stores and cache only ever see
// ciphertext.
type Service struct {
	alliances   AllianceStore
	memberships MembershipStore
	cache       Cache
	universes   []string

	adminIdentityID string
	adminNickname   string

	logger  *log.Logger
	metrics *metrics.Metrics
	events  *audit.Publisher
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithCache(cache Cache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithAdmin(identityID, nickname string) Option {
	return func(s *Service) {
		s.adminIdentityID = identityID
		s.adminNickname = nickname
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func NewService(alliances AllianceStore, memberships MembershipStore, universes []string, opts ...Option) *Service {
	s := &Service{
		alliances:   alliances,
		memberships: memberships,
		cache:       NewMemoryCache(),
		universes:   universes,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create founds a new alliance: fresh key material, one password-wrapped
// copy on the alliance row, one identity-wrapped copy on the founder's
// membership row. Returns the unwrapped membership for immediate use.
func (s *Service) Create(ctx context.Context, name, universe, password string) (Membership, error) {
	name = normalizeName(name)
	if err := s.validateInputs(name, universe, password); err != nil {
		return Membership{}, err
	}
	identityID := requestcontext.IdentityID(ctx)
	if identityID == "" {
		return Membership{}, dErrors.New(dErrors.CodeUnauthorized, "no resolved identity")
	}

	key, err := GenerateKey()
	if err != nil {
		return Membership{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not generate alliance key")
	}

	now := requestcontext.Now(ctx)
	wrappedForAlliance, err := cryptobox.SealString(key, password, now.UnixMilli())
	if err != nil {
		return Membership{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not wrap alliance key")
	}

	a := Alliance{
		ID:         uuid.NewString(),
		Name:       name,
		Universe:   universe,
		WrappedKey: wrappedForAlliance,
		CreatedAt:  now,
	}
	if err := s.alliances.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return Membership{}, dErrors.New(dErrors.CodeConflict, "alliance name already taken in this universe")
		}
		return Membership{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store alliance")
	}

	if err := s.bindMember(ctx, identityID, a, key); err != nil {
		return Membership{}, err
	}

	if s.metrics != nil {
		s.metrics.AlliancesCreated.Inc()
	}
	s.emit(ctx, audit.EventAllianceCreated, identityID, a.ID, universe)

	return Membership{AllianceID: a.ID, Name: a.Name, Universe: universe, Key: key}, nil
}

// Join unwraps the password-wrapped key of an existing alliance and stores
// an identity-wrapped copy for the joining member, overwriting any prior
// membership in that universe.
func (s *Service) Join(ctx context.Context, name, universe, password string) (Membership, error) {
	name = normalizeName(name)
	if err := s.validateInputs(name, universe, password); err != nil {
		return Membership{}, err
	}
	identityID := requestcontext.IdentityID(ctx)
	if identityID == "" {
		return Membership{}, dErrors.New(dErrors.CodeUnauthorized, "no resolved identity")
	}

	a, err := s.alliances.FindByName(ctx, name, universe)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Membership{}, dErrors.New(dErrors.CodeNotFound, "alliance not found")
		}
		return Membership{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not look up alliance")
	}

	key, err := cryptobox.OpenString(a.WrappedKey, password)
	if err != nil {
		// Wrong password and corrupted key material are indistinguishable
		// on purpose; both surface as an auth failure.
		return Membership{}, dErrors.New(dErrors.CodeUnauthorized, "wrong alliance password")
	}

	if err := s.bindMember(ctx, identityID, a, key); err != nil {
		return Membership{}, err
	}

	if s.metrics != nil {
		s.metrics.AllianceJoins.Inc()
	}
	s.emit(ctx, audit.EventAllianceJoined, identityID, a.ID, universe)

	return Membership{AllianceID: a.ID, Name: a.Name, Universe: universe, Key: key}, nil
}

// LoadMembership resolves the caller's membership for a universe. The
// cache is tried first; a miss (or an entry that no longer unwraps) falls
// back to the membership store. Returns CodeNotFound when the caller has
// no membership in that universe.
func (s *Service) LoadMembership(ctx context.Context, universe string) (Membership, error) {
	identityID := requestcontext.IdentityID(ctx)
	if identityID == "" {
		return Membership{}, dErrors.New(dErrors.CodeUnauthorized, "no resolved identity")
	}
	if universe == "" {
		return Membership{}, dErrors.New(dErrors.CodeValidation, "universe is required")
	}

	if cached, ok := s.cache.Get(ctx, identityID, universe); ok {
		if key, err := cryptobox.OpenString(cached.WrappedKey, identityID); err == nil {
			return Membership{
				AllianceID: cached.AllianceID,
				Name:       cached.Name,
				Universe:   universe,
				Key:        key,
			}, nil
		}
		// Stale or foreign cache entry; ignore it and re-fetch.
	}

	row, err := s.memberships.Find(ctx, identityID, universe)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Membership{}, dErrors.New(dErrors.CodeNotFound, "no membership for this universe")
		}
		return Membership{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not load membership")
	}

	key, err := cryptobox.OpenString(row.WrappedKey, identityID)
	if err != nil {
		return Membership{}, dErrors.New(dErrors.CodeUnauthorized, "membership key does not unwrap for this identity")
	}

	a, err := s.alliances.FindByID(ctx, row.AllianceID)
	if err != nil {
		return Membership{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not resolve alliance")
	}

	s.cache.Put(ctx, identityID, universe, CachedMembership{
		AllianceID: a.ID,
		Name:       a.Name,
		WrappedKey: row.WrappedKey,
	})

	return Membership{AllianceID: a.ID, Name: a.Name, Universe: universe, Key: key}, nil
}

// IsAdmin is the authorization predicate: the configured administrator
// identity or the configured administrator nickname. It grants capability
// only — it does not touch key material or membership.
func (s *Service) IsAdmin(identityID, nickname string) bool {
	if s.adminIdentityID != "" && identityID == s.adminIdentityID {
		return true
	}
	return s.adminNickname != "" && nickname == s.adminNickname
}

func (s *Service) bindMember(ctx context.Context, identityID string, a Alliance, key string) error {
	now := requestcontext.Now(ctx)
	wrappedForMember, err := cryptobox.SealString(key, identityID, now.UnixMilli())
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not wrap member key")
	}
	row := MembershipRow{
		IdentityID: identityID,
		Universe:   a.Universe,
		AllianceID: a.ID,
		WrappedKey: wrappedForMember,
		UpdatedAt:  now,
	}
	if err := s.memberships.Save(ctx, row); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store membership")
	}
	s.cache.Put(ctx, identityID, a.Universe, CachedMembership{
		AllianceID: a.ID,
		Name:       a.Name,
		WrappedKey: wrappedForMember,
	})
	return nil
}

func (s *Service) validateInputs(name, universe, password string) error {
	switch {
	case name == "":
		return dErrors.New(dErrors.CodeValidation, "alliance name is required")
	case password == "":
		return dErrors.New(dErrors.CodeValidation, "password is required")
	case universe == "":
		return dErrors.New(dErrors.CodeValidation, "universe is required")
	}
	if len(s.universes) > 0 && !slices.Contains(s.universes, universe) {
		return dErrors.New(dErrors.CodeValidation, "unknown universe")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType, identityID, allianceID, universe string) {
	err := s.events.Emit(ctx, audit.Event{
		Type:       eventType,
		IdentityID: identityID,
		AllianceID: allianceID,
		Universe:   universe,
	})
	if err != nil && s.logger != nil {
		s.logger.Printf("audit emit %s failed: %v", eventType, err)
	}
}

func normalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
