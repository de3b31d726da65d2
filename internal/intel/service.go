package intel

import (
	"context"
	"log"
	"sort"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/audit"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	"github.com/AegisInttellegenceCore/AIC/internal/platform/metrics"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

// decryptWorkers bounds the concurrent batch decrypt during fetch.
const decryptWorkers = 8

// fallbackName is used when neither an override nor a parsed planet name
// is available. The coordinate fallback is the same literal.
const fallbackName = "Unknown"

// Service handles encrypted report ingestion and synchronization.
type Service struct {
	store   ReportStore
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

func NewService(store ReportStore, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit ingests a raw scan: resolves a display name and coordinate,
// computes the pseudonymous subject label, encrypts the full record under
// the alliance key, and appends it to the store. Empty rawText is a no-op
// returning (nil, nil).
func (s *Service) Submit(ctx context.Context, m alliance.Membership, rawText, nameOverride string) (*Report, error) {
	if rawText == "" {
		return nil, nil
	}
	if m.Key == "" || m.AllianceID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no alliance membership")
	}

	snap := Parse(rawText)

	displayName := nameOverride
	if displayName == "" {
		displayName = snap.PlanetName
	}
	if displayName == "" {
		displayName = fallbackName
	}
	coords := snap.Coords
	if coords == "" {
		coords = fallbackName
	}

	now := requestcontext.Now(ctx)
	report := Report{
		Timestamp:   now.UnixMilli(),
		Label:       cryptobox.HashLabel(displayName, m.Key),
		DisplayName: displayName,
		Coords:      coords,
		Universe:    m.Universe,
		RawText:     rawText,
	}

	ciphertext, err := cryptobox.Seal(report, m.Key, report.Timestamp)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not encrypt report")
	}

	row := CipherRow{
		ID:         uuid.NewString(),
		AllianceID: m.AllianceID,
		Ciphertext: ciphertext,
		CreatedAt:  now,
	}
	if err := s.store.Append(ctx, row); err != nil {
		s.logf("report append failed: %v", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "could not store report")
	}

	if s.metrics != nil {
		s.metrics.ReportsSubmitted.Inc()
	}
	if err := s.events.Emit(ctx, audit.Event{
		Type:       audit.EventReportSubmitted,
		IdentityID: requestcontext.IdentityID(ctx),
		AllianceID: m.AllianceID,
		Universe:   m.Universe,
	}); err != nil {
		s.logf("audit emit failed: %v", err)
	}

	return &report, nil
}

// FetchAll retrieves every ciphertext row scoped to the alliance, decrypts
// each independently, filters to the membership's universe, and returns
// the remainder sorted by descending timestamp. Store failures degrade to
// an empty result with a logged diagnostic; undecryptable rows are dropped
// silently — a wrong membership key simply yields nothing.
func (s *Service) FetchAll(ctx context.Context, m alliance.Membership) ([]Report, error) {
	if m.Key == "" || m.AllianceID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "no alliance membership")
	}

	rows, err := s.store.ListByAlliance(ctx, m.AllianceID)
	if err != nil {
		s.logf("report list failed: %v", err)
		return []Report{}, nil
	}

	var (
		mu      sync.Mutex
		reports []Report
		dropped int
	)
	var g errgroup.Group
	g.SetLimit(decryptWorkers)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			var report Report
			if _, err := cryptobox.Open(row.Ciphertext, m.Key, &report); err != nil {
				mu.Lock()
				dropped++
				mu.Unlock()
				return nil
			}
			if report.Universe != m.Universe {
				// A stale alliance id pointing at reused storage; the
				// embedded universe tag is the guard.
				return nil
			}
			mu.Lock()
			reports = append(reports, report)
			mu.Unlock()
			return nil
		})
	}
	// Workers never return errors; Wait is synchronization only.
	_ = g.Wait()

	if dropped > 0 {
		if s.metrics != nil {
			s.metrics.ReportsDropped.Add(float64(dropped))
		}
		s.logf("dropped %d undecryptable report rows for alliance %s", dropped, m.AllianceID)
	}

	sort.Slice(reports, func(i, j int) bool {
		return reports[i].Timestamp > reports[j].Timestamp
	})
	return reports, nil
}

func (s *Service) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
