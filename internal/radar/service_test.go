package radar

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/AegisInttellegenceCore/AIC/internal/alliance"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

type RadarServiceSuite struct {
	suite.Suite
	store *InMemoryScannerStore
	svc   *Service
	ctx   context.Context
	m     alliance.Membership
}

func (s *RadarServiceSuite) SetupTest() {
	s.store = NewInMemoryScannerStore()
	s.svc = NewService(s.store)
	s.ctx = requestcontext.WithIdentityID(context.Background(), "scout-id")
	s.m = alliance.Membership{
		AllianceID: "ally-1",
		Name:       "NOVA",
		Universe:   "Retro",
		Key:        "ALLY-K7JQ2ZP",
	}
}

func TestRadarServiceSuite(t *testing.T) {
	suite.Run(t, new(RadarServiceSuite))
}

func (s *RadarServiceSuite) TestSaveDerivesRangeFromLevel() {
	entry, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)
	s.Equal(21, entry.Range)

	s.Run("re-saving the same key overwrites", func() {
		entry, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 5)
		s.Require().NoError(err)
		s.Equal(31, entry.Range)

		listed, err := s.svc.List(s.ctx, s.m, 3)
		s.Require().NoError(err)
		s.Require().Len(listed, 1, "only one entry exists at that key")
		s.Equal(5, listed[0].Entry.Level)
		s.Equal(31, listed[0].Entry.Range)
	})

	s.Run("the two tracks at one system are distinct keys", func() {
		_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackThirdParty, 2)
		s.Require().NoError(err)

		listed, err := s.svc.List(s.ctx, s.m, 3)
		s.Require().NoError(err)
		s.Len(listed, 2)
	})
}

func (s *RadarServiceSuite) TestDeleteRemovesExactKey() {
	_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)
	_, err = s.svc.Save(s.ctx, s.m, 3, 121, TrackOwn, 4)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Delete(s.ctx, s.m, 3, 120, TrackOwn))

	listed, err := s.svc.List(s.ctx, s.m, 3)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)
	s.Equal(121, listed[0].Entry.System)
}

func (s *RadarServiceSuite) TestListAttachesArcs() {
	_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)

	listed, err := s.svc.List(s.ctx, s.m, 3)
	s.Require().NoError(err)
	s.Require().Len(listed, 1)

	want := ArcFor(120, 21, TrackOwn)
	s.Equal(want, listed[0].Arc)
}

func (s *RadarServiceSuite) TestListScopedByGalaxyAndUniverse() {
	_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)
	_, err = s.svc.Save(s.ctx, s.m, 4, 120, TrackOwn, 4)
	s.Require().NoError(err)

	nexus := s.m
	nexus.Universe = "Nexus"
	_, err = s.svc.Save(s.ctx, nexus, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)

	listed, err := s.svc.List(s.ctx, s.m, 3)
	s.Require().NoError(err)
	s.Len(listed, 1)
}

func (s *RadarServiceSuite) TestForeignKeyCannotReadRows() {
	_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)

	other := s.m
	other.Key = "ALLY-OTHERKEY"
	listed, err := s.svc.List(s.ctx, other, 3)
	s.Require().NoError(err)
	s.Empty(listed, "different key means a different alliance hash, so no rows match")
}

func (s *RadarServiceSuite) TestValidation() {
	_, err := s.svc.Save(s.ctx, s.m, 0, 120, TrackOwn, 4)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Save(s.ctx, s.m, 15, 120, TrackOwn, 4)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Save(s.ctx, s.m, 3, 401, TrackOwn, 4)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Save(s.ctx, s.m, 3, 120, Track("drone"), 4)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, -1)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Save(s.ctx, alliance.Membership{}, 3, 120, TrackOwn, 4)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *RadarServiceSuite) TestStoreOnlySeesHashAndCiphertext() {
	_, err := s.svc.Save(s.ctx, s.m, 3, 120, TrackOwn, 4)
	s.Require().NoError(err)

	rows, err := s.store.ListByGalaxy(s.ctx, cryptobox.HashLabel(s.m.AllianceID, s.m.Key), s.m.Universe, 3)
	s.Require().NoError(err)
	s.Require().Len(rows, 1)
	s.NotEqual(s.m.AllianceID, rows[0].Key.AllianceHash)
	s.NotContains(rows[0].Ciphertext, "own")
}
