package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/dmitrijs2005/entrust/internal/server/config"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		S3Region:                     "us-east-1",
		S3RootUser:                   "minioadmin",
		S3RootPassword:               "minioadmin",
		S3BaseEndpoint:               "http://127.0.0.1:9000",
		S3Bucket:                     "cards",
	}
}

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newMemberService(t *testing.T) (*MemberService, *repomanager.MemoryRepositoryManager) {
	t.Helper()
	rm := repomanager.NewMemoryRepositoryManager()
	s := NewMemberService(rm, logging.Nop{})
	s.now = func() time.Time { return fixedNow }
	return s, rm
}

func register(t *testing.T, s *MemberService, id, phone, password string) *domain.Member {
	t.Helper()
	m, err := s.Create(context.Background(), &domain.Member{
		ID: id, Name: "Member " + id, Phone: phone, Emergency: "7000000000", Password: password,
	})
	require.NoError(t, err)
	return m
}

func adminCaller() *domain.Member {
	return &domain.Member{ID: "COT-1000", Role: domain.RoleAdmin, Status: domain.StatusActive}
}
