package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/filex"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// ErrNotSignedIn is returned by dashboard operations without a session.
var ErrNotSignedIn = errors.New("not signed in")

// CardAPI downloads server-rendered cards.
type CardAPI interface {
	Card(ctx context.Context, id string, f card.Format) ([]byte, error)
}

type memberUpdater interface {
	UpdateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
	Fetch(ctx context.Context, id string) (*domain.Member, error)
}

// Dashboard is the signed-in member's view: the card, the profile draft and
// downloads.
type Dashboard struct {
	session  *Session
	store    memberUpdater
	renderer CardRenderer
	cards    CardAPI
	dir      string
	logger   logging.Logger

	draft *domain.Profile
}

func NewDashboard(session *Session, store memberUpdater, renderer CardRenderer, cards CardAPI, dir string, logger logging.Logger) *Dashboard {
	return &Dashboard{
		session:  session,
		store:    store,
		renderer: renderer,
		cards:    cards,
		dir:      dir,
		logger:   logger.With("module", "dashboard"),
	}
}

// BeginEdit stages a draft from the current record.
func (d *Dashboard) BeginEdit() error {
	m := d.session.Current()
	if m == nil {
		return ErrNotSignedIn
	}
	p := domain.ProfileOf(m)
	d.draft = &p
	return nil
}

func (d *Dashboard) Editing() bool { return d.draft != nil }

// SetField edits the draft. Only profile fields are accepted.
func (d *Dashboard) SetField(field, value string) error {
	if d.draft == nil {
		return errors.New("no edit in progress")
	}
	f, err := domain.ParseField(field)
	if err != nil {
		return err
	}
	if f == domain.FieldPhoto && value != "" {
		if _, err := card.DecodePhoto(value); err != nil {
			return err
		}
	}
	return d.draft.Set(f, value)
}

// Preview is the signed-in record with the draft merged, or nil.
func (d *Dashboard) Preview() *domain.Member {
	m := d.session.Current()
	if m == nil {
		return nil
	}
	if d.draft == nil {
		return m
	}
	return d.draft.ApplyTo(m)
}

// PreviewPNG renders the front face of Preview. Members who are not Active
// get the pending overlay.
func (d *Dashboard) PreviewPNG() ([]byte, error) {
	m := d.Preview()
	if m == nil {
		return nil, ErrNotSignedIn
	}
	return d.renderer.PNG(m, card.OptionsFor(m))
}

// Save merges the draft and replaces the record on the server.
func (d *Dashboard) Save(ctx context.Context) notice.Notice {
	if d.draft == nil {
		return notice.Warningf("Nothing to save.")
	}
	m := d.Preview()
	if m == nil {
		return notice.Errorf("Please sign in again.")
	}

	saved, err := d.store.UpdateMember(ctx, m)
	if err != nil {
		d.logger.Error(ctx, "update member failed", "id", m.ID, "error", err)
		if errors.Is(err, common.ErrVersionConflict) {
			return notice.Errorf("Your record changed elsewhere. Reload and try again.")
		}
		return notice.Errorf("Could not save your profile: %v", err)
	}

	d.session.Update(saved)
	d.draft = nil
	return notice.Successf("Profile saved.")
}

// Cancel drops the draft without touching the store.
func (d *Dashboard) Cancel() {
	d.draft = nil
}

// Reload pulls the signed-in record from the server, e.g. after an admin
// verified it.
func (d *Dashboard) Reload(ctx context.Context) notice.Notice {
	m := d.session.Current()
	if m == nil {
		return notice.Warningf("Sign in first.")
	}
	fresh, err := d.store.Fetch(ctx, m.ID)
	if err != nil {
		d.logger.Warn(ctx, "reload failed", "id", m.ID, "error", err)
		return notice.Errorf("Could not reload your record: %v", err)
	}
	d.session.Update(fresh)
	return notice.Infof("Status: %s.", fresh.Status)
}

// CanDownload is true only for Active members.
func (d *Dashboard) CanDownload() bool {
	m := d.session.Current()
	return m != nil && m.IsActive()
}

// Download fetches the card in format from the server and saves it.
func (d *Dashboard) Download(ctx context.Context, format card.Format) notice.Notice {
	m := d.session.Current()
	if m == nil {
		return notice.Warningf("Sign in first.")
	}
	if !d.CanDownload() {
		return notice.Warningf("Your card can be downloaded once your membership is verified.")
	}

	data, err := d.cards.Card(ctx, m.ID, format)
	if err != nil {
		d.logger.Error(ctx, "card download failed", "id", m.ID, "error", err)
		return notice.Errorf("Could not download your card: %v", err)
	}
	path, err := filex.WriteAtomic(d.dir, card.FileName(m.ID, format), data)
	if err != nil {
		return notice.Errorf("Could not save your card: %v", err)
	}
	return notice.Successf("Card saved to %s.", path)
}
