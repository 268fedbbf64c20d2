package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/client"
	"github.com/dmitrijs2005/entrust/internal/common"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// fakeAPI is an in-memory stand-in for client.HTTPClient.
type fakeAPI struct {
	mu       sync.Mutex
	members  map[string]*domain.Member
	order    []string
	password map[string]string

	listErr   error
	createErr error
	updateErr error
	cardErr   error
	askErr    error
	askReply  string
	askBlock  chan struct{}

	updates  int
	loggedIn bool
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{members: map[string]*domain.Member{}, password: map[string]string{}}
}

func (f *fakeAPI) add(m *domain.Member, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.members[m.ID] = m.Clone()
	f.order = append(f.order, m.ID)
	f.password[m.ID] = password
}

func (f *fakeAPI) Login(_ context.Context, identifier, password string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range f.order {
		m := f.members[id]
		if (m.ID == identifier || m.Phone == identifier) && f.password[id] == password {
			f.loggedIn = true
			return m.Clone(), nil
		}
	}
	return nil, &client.StatusError{Code: 401, Message: "unauthorized"}
}

func (f *fakeAPI) Logout() { f.loggedIn = false }

func (f *fakeAPI) RecoverID(context.Context, string) (string, error) {
	return "If this number is registered, the member ID has been sent to it.", nil
}

func (f *fakeAPI) ListMembers(context.Context) ([]*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Member, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.members[id].Clone())
	}
	return out, nil
}

func (f *fakeAPI) GetMember(_ context.Context, id string) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return m.Clone(), nil
}

func (f *fakeAPI) CreateMember(_ context.Context, m *domain.Member) (*domain.Member, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c := m.Clone()
	pw := c.Password
	c.Password = ""
	c.Version = 1
	f.add(c, pw)
	return c.Clone(), nil
}

func (f *fakeAPI) UpdateMember(_ context.Context, m *domain.Member) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	cur, ok := f.members[m.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if m.Version != 0 && m.Version != cur.Version {
		return nil, common.ErrVersionConflict
	}
	c := m.Clone()
	c.Version = cur.Version + 1
	f.members[c.ID] = c
	return c.Clone(), nil
}

func (f *fakeAPI) SetStatus(_ context.Context, id string, status domain.Status) (*domain.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.members[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	m.Status = status
	m.Version++
	return m.Clone(), nil
}

func (f *fakeAPI) Card(_ context.Context, id string, format card.Format) ([]byte, error) {
	if f.cardErr != nil {
		return nil, f.cardErr
	}
	return []byte(id + "." + string(format)), nil
}

func (f *fakeAPI) Ask(ctx context.Context, topic string) (string, error) {
	if f.askBlock != nil {
		<-f.askBlock
	}
	return f.askReply, f.askErr
}

type failingRenderer struct{}

func (failingRenderer) PNG(*domain.Member, card.Options) ([]byte, error) {
	return nil, errors.New("raster failed")
}

func (failingRenderer) PDF(*domain.Member, card.Options) ([]byte, error) {
	return nil, errors.New("document failed")
}
