package intel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

type IntelServiceSuite struct {
	suite.Suite
	store *InMemoryReportStore
	svc   *Service
	ctx   context.Context
	m     alliance.Membership
}

func (s *IntelServiceSuite) SetupTest() {
	s.store = NewInMemoryReportStore()
	s.svc = NewService(s.store)
	s.ctx = requestcontext.WithIdentityID(context.Background(), "scout-id")
	s.m = alliance.Membership{
		AllianceID: "ally-1",
		Name:       "NOVA",
		Universe:   "Retro",
		Key:        "ALLY-K7JQ2ZP",
	}
}

func TestIntelServiceSuite(t *testing.T) {
	suite.Run(t, new(IntelServiceSuite))
}

func (s *IntelServiceSuite) at(t time.Time) context.Context {
	return requestcontext.WithTime(s.ctx, t)
}

func (s *IntelServiceSuite) TestSubmitAndFetchRoundTrip() {
	report, err := s.svc.Submit(s.ctx, s.m, structuredScan, "Target1")
	s.Require().NoError(err)
	s.Require().NotNil(report)

	s.Equal("Target1", report.DisplayName)
	s.Equal("[3:120:8]", report.Coords)
	s.Equal(cryptobox.HashLabel("Target1", s.m.Key), report.Label)
	s.Equal(structuredScan, report.RawText)

	fetched, err := s.svc.FetchAll(s.ctx, s.m)
	s.Require().NoError(err)
	s.Require().Len(fetched, 1)
	s.Equal(*report, fetched[0])
}

func (s *IntelServiceSuite) TestSubmitNameAndCoordFallbacks() {
	s.Run("parsed planet name when no override", func() {
		report, err := s.svc.Submit(s.ctx, s.m, structuredScan, "")
		s.Require().NoError(err)
		s.Equal("Outpost-7", report.DisplayName)
	})

	s.Run("fallback literal when nothing resolves", func() {
		report, err := s.svc.Submit(s.ctx, s.m, "freeform text, no data", "")
		s.Require().NoError(err)
		s.Equal("Unknown", report.DisplayName)
		s.Equal("Unknown", report.Coords)
	})

	s.Run("empty raw text is a no-op", func() {
		report, err := s.svc.Submit(s.ctx, s.m, "", "Target1")
		s.NoError(err)
		s.Nil(report)

		rows, err := s.store.ListByAlliance(s.ctx, s.m.AllianceID)
		s.Require().NoError(err)
		s.Len(rows, 2, "only the two earlier submissions exist")
	})
}

func (s *IntelServiceSuite) TestFetchAllOrdersByDescendingTimestamp() {
	base := time.Unix(1700000000, 0)
	for i, name := range []string{"First", "Second", "Third"} {
		_, err := s.svc.Submit(s.at(base.Add(time.Duration(i)*time.Minute)), s.m, "[1:2:3] sighting", name)
		s.Require().NoError(err)
	}

	fetched, err := s.svc.FetchAll(s.ctx, s.m)
	s.Require().NoError(err)
	s.Require().Len(fetched, 3)
	s.Equal("Third", fetched[0].DisplayName)
	s.Equal("Second", fetched[1].DisplayName)
	s.Equal("First", fetched[2].DisplayName)
}

func (s *IntelServiceSuite) TestFetchUnderWrongKeyYieldsNothing() {
	_, err := s.svc.Submit(s.ctx, s.m, structuredScan, "Target1")
	s.Require().NoError(err)

	other := s.m
	other.Key = "ALLY-OTHERKEY"
	fetched, err := s.svc.FetchAll(s.ctx, other)
	s.Require().NoError(err)
	s.Empty(fetched, "all rows fail to decrypt and are dropped")
}

func (s *IntelServiceSuite) TestFetchFiltersForeignUniverse() {
	_, err := s.svc.Submit(s.ctx, s.m, structuredScan, "Target1")
	s.Require().NoError(err)

	nexus := s.m
	nexus.Universe = "Nexus"
	_, err = s.svc.Submit(s.ctx, nexus, "[9:9:9] nexus sighting", "Target2")
	s.Require().NoError(err)

	fetched, err := s.svc.FetchAll(s.ctx, s.m)
	s.Require().NoError(err)
	s.Require().Len(fetched, 1)
	s.Equal("Target1", fetched[0].DisplayName)
}

func (s *IntelServiceSuite) TestFetchSkipsCorruptedRows() {
	_, err := s.svc.Submit(s.ctx, s.m, structuredScan, "Target1")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Append(s.ctx, CipherRow{
		ID:         "corrupt",
		AllianceID: s.m.AllianceID,
		Ciphertext: "garbage-row",
		CreatedAt:  time.Now(),
	}))

	fetched, err := s.svc.FetchAll(s.ctx, s.m)
	s.Require().NoError(err)
	s.Len(fetched, 1, "the corrupted row is dropped, not surfaced")
}

func (s *IntelServiceSuite) TestFetchDegradesOnStoreFailure() {
	svc := NewService(failingStore{})
	fetched, err := svc.FetchAll(s.ctx, s.m)
	s.NoError(err)
	s.Empty(fetched)
}

func (s *IntelServiceSuite) TestStoreOnlySeesCiphertext() {
	_, err := s.svc.Submit(s.ctx, s.m, structuredScan, "Target1")
	s.Require().NoError(err)

	rows, err := s.store.ListByAlliance(s.ctx, s.m.AllianceID)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.NotContains(rows[0].Ciphertext, "Target1")
	s.NotContains(rows[0].Ciphertext, "Outpost-7")
}

type failingStore struct{}

func (failingStore) Append(context.Context, CipherRow) error {
	return errors.New("store down")
}

func (failingStore) ListByAlliance(context.Context, string) ([]CipherRow, error) {
	return nil, errors.New("store down")
}
