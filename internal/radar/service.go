package radar

import (
	"context"
	"log"
	"sort"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/audit"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/metrics"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// Service manages encrypted scanner entries. Rows are indexed by the
// pseudonymous alliance hash; the sensitive fields (track, level, range)
// live inside the ciphertext.
type Service struct {
	store   ScannerStore
	logger  *log.Logger
	metrics *metrics.Metrics
	events  *audit.Publisher
}

type Option func(*Service)

func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) { s.events = p }
}

func NewService(store ScannerStore, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save upserts a scanner entry. The range is recomputed from the level on
// every write; concurrent writers to the same key race under
// last-write-wins with no version check.
func (s *Service) Save(ctx context.Context, m alliance.Membership, galaxy, system int, track Track, level int) (Entry, error) {
	if err := validatePosition(m, galaxy, system, track); err != nil {
		return Entry{}, err
	}
	if level < 0 {
		return Entry{}, dErrors.New(dErrors.CodeValidation, "scanner level must not be negative")
	}

	entry := Entry{
		Universe: m.Universe,
		Galaxy:   galaxy,
		System:   system,
		Track:    track,
		Level:    level,
		Range:    RangeForLevel(level),
	}

	now := requestcontext.Now(ctx)
	ciphertext, err := cryptobox.Seal(payload{Track: track, Level: level, Range: entry.Range}, m.Key, now.UnixMilli())
	if err != nil {
		return Entry{}, dErrors.Wrap(err, dErrors.CodeInternal, "could not encrypt scanner entry")
	}

	row := CipherRow{
		Key:        s.keyFor(m, galaxy, system, track),
		Ciphertext: ciphertext,
		UpdatedAt:  now,
	}
	if err := s.store.Upsert(ctx, row); err != nil {
		s.logf("scanner upsert failed: %v", err)
		return Entry{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store scanner entry")
	}

	if s.metrics != nil {
		s.metrics.ScannerUpserts.Inc()
	}
	s.emit(ctx, audit.EventScannerSaved, m)

	return entry, nil
}

// Delete removes exactly one composite key.
func (s *Service) Delete(ctx context.Context, m alliance.Membership, galaxy, system int, track Track) error {
	if err := validatePosition(m, galaxy, system, track); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, s.keyFor(m, galaxy, system, track)); err != nil {
		s.logf("scanner delete failed: %v", err)
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "could not delete scanner entry")
	}
	if s.metrics != nil {
		s.metrics.ScannerDeletes.Inc()
	}
	s.emit(ctx, audit.EventScannerDeleted, m)
	return nil
}

// ArcEntry pairs a decrypted entry with its rendered coverage arc.
type ArcEntry struct {
	Entry Entry `json:"entry"`
	Arc   Arc   `json:"arc"`
}

// List fetches and decrypts every scanner entry for a galaxy, attaching
// the computed arc to each. Undecryptable rows are dropped silently;
// store failures degrade to an empty result with a logged diagnostic.
// Results are ordered by system index, own track first.
func (s *Service) List(ctx context.Context, m alliance.Membership, galaxy int) ([]ArcEntry, error) {
	if m.Key == "" || m.AllianceID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no alliance membership")
	}
	if galaxy < 1 || galaxy > GalaxyCount {
		return nil, dErrors.New(dErrors.CodeValidation, "galaxy out of range")
	}

	hash := cryptobox.HashLabel(m.AllianceID, m.Key)
	rows, err := s.store.ListByGalaxy(ctx, hash, m.Universe, galaxy)
	if err != nil {
		s.logf("scanner list failed: %v", err)
		return []ArcEntry{}, nil
	}

	out := make([]ArcEntry, 0, len(rows))
	for _, row := range rows {
		var p payload
		if _, err := cryptobox.Open(row.Ciphertext, m.Key, &p); err != nil {
			continue
		}
		entry := Entry{
			Universe: row.Key.Universe,
			Galaxy:   row.Key.Galaxy,
			System:   row.Key.System,
			Track:    p.Track,
			Level:    p.Level,
			Range:    p.Range,
		}
		out = append(out, ArcEntry{
			Entry: entry,
			Arc:   ArcFor(entry.System, entry.Range, entry.Track),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Entry, out[j].Entry
		if a.System != b.System {
			return a.System < b.System
		}
		return a.Track == TrackOwn && b.Track != TrackOwn
	})
	return out, nil
}

func (s *Service) keyFor(m alliance.Membership, galaxy, system int, track Track) Key {
	return Key{
		AllianceHash: cryptobox.HashLabel(m.AllianceID, m.Key),
		Universe:     m.Universe,
		Galaxy:       galaxy,
		System:       system,
		Track:        track,
	}
}

func validatePosition(m alliance.Membership, galaxy, system int, track Track) error {
	switch {
	case m.Key == "" || m.AllianceID == "":
		return dErrors.New(dErrors.CodeUnauthorized, "no alliance membership")
	case galaxy < 1 || galaxy > GalaxyCount:
		return dErrors.New(dErrors.CodeValidation, "galaxy out of range")
	case system < 1 || system > SystemsPerGalaxy:
		return dErrors.New(dErrors.CodeValidation, "system out of range")
	case !track.Valid():
		return dErrors.New(dErrors.CodeValidation, "unknown track")
	}
	return nil
}

func (s *Service) emit(ctx context.Context, eventType string, m alliance.Membership) {
	err := s.events.Emit(ctx, audit.Event{
		Type:       eventType,
		IdentityID: requestcontext.IdentityID(ctx),
		AllianceID: m.AllianceID,
		Universe:   m.Universe,
	})
	if err != nil {
		s.logf("audit emit %s failed: %v", eventType, err)
	}
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
