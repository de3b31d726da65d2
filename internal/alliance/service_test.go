package alliance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/AegisInttellegenceCore/AIC/internal/audit"
	"github.com/AegisInttellegenceCore/AIC/internal/cryptobox"
	dErrors "github.com/AegisInttellegenceCore/AIC/pkg/domain-errors"
	"github.com/AegisInttellegenceCore/AIC/pkg/requestcontext"
)

type AllianceServiceSuite struct {
	suite.Suite
	svc  *Service
	sink *audit.MemorySink
	ctx  context.Context
}

func (s *AllianceServiceSuite) SetupTest() {
	s.sink = audit.NewMemorySink()
	s.svc = NewService(
		NewInMemoryAllianceStore(),
		NewInMemoryMembershipStore(),
		[]string{"Retro", "Nexus"},
		WithAdmin("admin-identity", "Overseer"),
		WithAuditPublisher(audit.NewPublisher(s.sink)),
	)
	s.ctx = requestcontext.WithTime(context.Background(), time.Unix(1700000000, 0))
}

func TestAllianceServiceSuite(t *testing.T) {
	suite.Run(t, new(AllianceServiceSuite))
}

func (s *AllianceServiceSuite) asIdentity(id string) context.Context {
	return requestcontext.WithIdentityID(s.ctx, id)
}

func (s *AllianceServiceSuite) TestCreateAndJoin() {
	founder := s.asIdentity("founder-id")

	created, err := s.svc.Create(founder, "nova", "Retro", "p1")
	s.Require().NoError(err)
	s.Equal("NOVA", created.Name)
	s.NotEmpty(created.AllianceID)
	s.NotEmpty(created.Key)

	s.Run("second identity joins with the right password", func() {
		joined, err := s.svc.Join(s.asIdentity("scout-id"), "NOVA", "Retro", "p1")
		s.Require().NoError(err)
		s.Equal(created.AllianceID, joined.AllianceID)
		s.Equal(created.Key, joined.Key)
	})

	s.Run("wrong password fails with an auth error", func() {
		_, err := s.svc.Join(s.asIdentity("scout-id"), "NOVA", "Retro", "wrong")
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("unknown alliance fails with not found", func() {
		_, err := s.svc.Join(s.asIdentity("scout-id"), "GHOST", "Retro", "p1")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("audit trail records lifecycle events", func() {
		events := s.sink.Events()
		s.Require().NotEmpty(events)
		s.Equal(audit.EventAllianceCreated, events[0].Type)
		s.Equal("founder-id", events[0].IdentityID)
	})
}

func (s *AllianceServiceSuite) TestCreateValidation() {
	ctx := s.asIdentity("founder-id")

	_, err := s.svc.Create(ctx, "", "Retro", "p1")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Create(ctx, "NOVA", "Retro", "")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Create(ctx, "NOVA", "", "p1")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.svc.Create(ctx, "NOVA", "Andromeda", "p1")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "universe outside the catalog")
}

func (s *AllianceServiceSuite) TestCreateConflict() {
	_, err := s.svc.Create(s.asIdentity("a"), "NOVA", "Retro", "p1")
	s.Require().NoError(err)

	_, err = s.svc.Create(s.asIdentity("b"), "nova", "Retro", "p2")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "name normalization makes NOVA and nova collide")

	// Same name in a different universe is a distinct alliance.
	_, err = s.svc.Create(s.asIdentity("b"), "NOVA", "Nexus", "p2")
	s.NoError(err)
}

func (s *AllianceServiceSuite) TestLoadMembership() {
	founder := s.asIdentity("founder-id")
	created, err := s.svc.Create(founder, "NOVA", "Retro", "p1")
	s.Require().NoError(err)

	s.Run("loads from cache fast path", func() {
		m, err := s.svc.LoadMembership(founder, "Retro")
		s.Require().NoError(err)
		s.Equal(created.AllianceID, m.AllianceID)
		s.Equal(created.Key, m.Key)
	})

	s.Run("survives a cold cache", func() {
		s.svc.cache = NewMemoryCache()
		m, err := s.svc.LoadMembership(founder, "Retro")
		s.Require().NoError(err)
		s.Equal(created.Key, m.Key)
	})

	s.Run("no membership in another universe", func() {
		_, err := s.svc.LoadMembership(founder, "Nexus")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("other identity has no membership", func() {
		_, err := s.svc.LoadMembership(s.asIdentity("stranger"), "Retro")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AllianceServiceSuite) TestRejoinOverwritesMembership() {
	first, err := s.svc.Create(s.asIdentity("founder-a"), "ALPHA", "Retro", "pa")
	s.Require().NoError(err)
	second, err := s.svc.Create(s.asIdentity("founder-b"), "BETA", "Retro", "pb")
	s.Require().NoError(err)

	scout := s.asIdentity("scout-id")
	_, err = s.svc.Join(scout, "ALPHA", "Retro", "pa")
	s.Require().NoError(err)

	_, err = s.svc.Join(scout, "BETA", "Retro", "pb")
	s.Require().NoError(err)

	m, err := s.svc.LoadMembership(scout, "Retro")
	s.Require().NoError(err)
	s.Equal(second.AllianceID, m.AllianceID, "one active membership per universe")
	s.NotEqual(first.AllianceID, m.AllianceID)
}

func (s *AllianceServiceSuite) TestIsAdmin() {
	s.True(s.svc.IsAdmin("admin-identity", ""))
	s.True(s.svc.IsAdmin("anyone", "Overseer"))
	s.False(s.svc.IsAdmin("anyone", "overseer"), "nickname match is exact")
	s.False(s.svc.IsAdmin("anyone", ""))

	unconfigured := NewService(NewInMemoryAllianceStore(), NewInMemoryMembershipStore(), nil)
	s.False(unconfigured.IsAdmin("", ""), "empty config never matches empty fields")
}

func (s *AllianceServiceSuite) TestWrappedKeyNeverStoredInPlaintext() {
	founder := s.asIdentity("founder-id")
	created, err := s.svc.Create(founder, "NOVA", "Retro", "p1")
	s.Require().NoError(err)

	stored, err := s.svc.alliances.FindByName(s.ctx, "NOVA", "Retro")
	s.Require().NoError(err)
	s.NotContains(stored.WrappedKey, created.Key)

	key, err := cryptobox.OpenString(stored.WrappedKey, "p1")
	s.Require().NoError(err)
	s.Equal(created.Key, key)

	row, err := s.svc.memberships.Find(s.ctx, "founder-id", "Retro")
	s.Require().NoError(err)
	s.NotContains(row.WrappedKey, created.Key)
}

func TestGenerateKeyShape(t *testing.T) {
	suiteSeen := map[string]bool{}
	for i := 0; i < 32; i++ {
		key, err := GenerateKey()
		if err != nil {
			t.Fatalf("GenerateKey: %v", err)
		}
		if len(key) != len("ALLY-")+7 {
			t.Fatalf("unexpected key length: %q", key)
		}
		if key[:5] != "ALLY-" {
			t.Fatalf("missing prefix: %q", key)
		}
		if suiteSeen[key] {
			t.Fatalf("duplicate key generated: %q", key)
		}
		suiteSeen[key] = true
	}
}
