package cotadmin

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/entrust/internal/client/client"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	baseURL  string
	role     domain.Role
	members  []*domain.Member
	statuses map[string]domain.Status
	logins   []string
}

func (f *fakeAPI) Login(_ context.Context, id, pw string) (*domain.Member, error) {
	f.logins = append(f.logins, id+":"+pw)
	if pw != "admin-pw" {
		return nil, client.ErrUnauthorized
	}
	return &domain.Member{ID: id, Role: f.role}, nil
}

func (f *fakeAPI) ListMembers(context.Context) ([]*domain.Member, error) {
	return f.members, nil
}

func (f *fakeAPI) SetStatus(_ context.Context, id string, st domain.Status) (*domain.Member, error) {
	if id == "COT-9999" {
		return nil, common.ErrorNotFound
	}
	f.statuses[id] = st
	return &domain.Member{ID: id, Status: st}, nil
}

func (f *fakeAPI) PublishCard(_ context.Context, id string) (*client.Publication, error) {
	return &client.Publication{Key: id, URL: "https://cards.example/" + id, Expires: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}, nil
}

func setup(t *testing.T, role domain.Role) *fakeAPI {
	t.Helper()
	f := &fakeAPI{
		role: role,
		members: []*domain.Member{
			{ID: "COT-1000", Name: "Admin", Role: domain.RoleAdmin, Status: domain.StatusActive},
			{ID: "COT-2001", Name: "Ruth", Role: domain.RoleMember, Status: domain.StatusPending},
		},
		statuses: map[string]domain.Status{},
	}

	origAPI, origLogger := newAPI, newLogger
	newAPI = func(baseURL string) adminAPI {
		f.baseURL = baseURL
		return f
	}
	newLogger = func(bool) (logging.Logger, func(), error) { return logging.Nop{}, func() {}, nil }
	t.Cleanup(func() { newAPI, newLogger = origAPI, origLogger })
	return f
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	f := setup(t, domain.RoleAdmin)

	out, err := run(t, "--server", "http://cot.local", "-p", "admin-pw", "list")
	require.NoError(t, err)
	assert.Equal(t, "http://cot.local", f.baseURL)
	assert.Equal(t, []string{"COT-1000:admin-pw"}, f.logins)
	assert.Contains(t, out, "COT-1000")
	assert.Contains(t, out, "COT-2001")

	out, err = run(t, "-p", "admin-pw", "list", "--pending")
	require.NoError(t, err)
	assert.NotContains(t, out, "COT-1000")
	assert.Contains(t, out, "Pending Verification")
}

func TestStatus(t *testing.T) {
	f := setup(t, domain.RoleAdmin)

	out, err := run(t, "-p", "admin-pw", "status", "COT-2001", "active")
	require.NoError(t, err)
	assert.Equal(t, "COT-2001 is now Active\n", out)
	assert.Equal(t, domain.StatusActive, f.statuses["COT-2001"])

	_, err = run(t, "-p", "admin-pw", "status", "COT-2001", "archived")
	require.ErrorIs(t, err, common.ErrorValidation)

	_, err = run(t, "-p", "admin-pw", "status", "COT-9999", "reject")
	require.ErrorIs(t, err, common.ErrorNotFound)

	_, err = run(t, "-p", "admin-pw", "status", "COT-2001")
	require.Error(t, err)
}

func TestPublish(t *testing.T) {
	setup(t, domain.RoleAdmin)

	out, err := run(t, "-p", "admin-pw", "publish", "COT-2001")
	require.NoError(t, err)
	assert.Contains(t, out, "https://cards.example/COT-2001")
	assert.Contains(t, out, "expires 2026-01-02 03:04:05 UTC")
}

func TestSignIn(t *testing.T) {
	setup(t, domain.RoleMember)

	_, err := run(t, "-p", "admin-pw", "list")
	require.ErrorContains(t, err, "not an admin")

	_, err = run(t, "-p", "wrong", "list")
	require.ErrorIs(t, err, client.ErrUnauthorized)

	t.Setenv(PasswordEnv, "")
	_, err = run(t, "list")
	require.ErrorContains(t, err, PasswordEnv)
}

func TestPasswordFromEnv(t *testing.T) {
	f := setup(t, domain.RoleAdmin)
	t.Setenv(PasswordEnv, "admin-pw")

	_, err := run(t, "-u", "COT-1001", "list")
	require.NoError(t, err)
	assert.Equal(t, []string{"COT-1001:admin-pw"}, f.logins)
}
