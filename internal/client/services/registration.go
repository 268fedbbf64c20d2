package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/filex"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// CardRenderer produces card artifacts locally.
type CardRenderer interface {
	PNG(m *domain.Member, opts card.Options) ([]byte, error)
	PDF(m *domain.Member, opts card.Options) ([]byte, error)
}

func renderArtifact(r CardRenderer, m *domain.Member, f card.Format, opts card.Options) ([]byte, error) {
	switch f {
	case card.FormatPNG:
		return r.PNG(m, opts)
	case card.FormatPDF:
		return r.PDF(m, opts)
	default:
		return nil, fmt.Errorf("unknown card format %q", f)
	}
}

// RegistrationFields are the form inputs accepted by Registration.Set.
var RegistrationFields = []string{
	"name", "phone", "password", "email", "dob", "location", "gender",
	"bloodGroup", "emergency", "role", "photo",
}

type memberCreator interface {
	CreateMember(ctx context.Context, m *domain.Member) (*domain.Member, error)
}

// Registration is the ID issuance form. The identifier is generated up front
// and never checked for uniqueness; the server rejects a taken one.
type Registration struct {
	form     *domain.Member
	rng      *rand.Rand
	store    memberCreator
	renderer CardRenderer
	dir      string
	now      func() time.Time
	logger   logging.Logger
	idTaken  bool
}

// NewRegistration prefills the form with a generated identifier. A nil rng
// uses the global source.
func NewRegistration(rng *rand.Rand, store memberCreator, renderer CardRenderer, dir string, logger logging.Logger) *Registration {
	r := &Registration{
		form:     &domain.Member{},
		rng:      rng,
		store:    store,
		renderer: renderer,
		dir:      dir,
		now:      time.Now,
		logger:   logger.With("module", "registration"),
	}
	r.form.ID = domain.GenerateID(rng)
	return r
}

// RegenerateID draws a new identifier and leaves the rest of the form alone.
func (r *Registration) RegenerateID() string {
	r.form.ID = domain.GenerateID(r.rng)
	return r.form.ID
}

// Form returns a copy of the current form.
func (r *Registration) Form() *domain.Member {
	return r.form.Clone()
}

// Set fills one form input. Values are kept verbatim apart from trimming.
func (r *Registration) Set(field, value string) error {
	value = strings.TrimSpace(value)
	f := r.form
	switch field {
	case "name":
		f.Name = value
	case "phone":
		f.Phone = value
	case "password":
		f.Password = value
	case "email":
		f.Email = value
	case "dob":
		f.DOB = value
	case "location":
		f.Location = value
	case "gender":
		f.Gender = value
	case "bloodGroup":
		f.BloodGroup = value
	case "emergency":
		f.Emergency = value
	case "role":
		role, err := domain.ParseRole(value)
		if err != nil {
			return err
		}
		f.Role = role
	case "photo":
		if value != "" {
			if _, err := card.DecodePhoto(value); err != nil {
				return err
			}
		}
		f.Photo = value
	default:
		return fmt.Errorf("unknown registration field %q", field)
	}
	return nil
}

// IDTaken reports whether the last Submit failed because the identifier is
// already registered. RegenerateID and Submit again to retry.
func (r *Registration) IDTaken() bool {
	return r.idTaken
}

// Submit renders the card in format, writes it to the download directory and
// then creates the member record. A render or write failure leaves no file and
// creates nothing. A create failure keeps the downloaded card.
func (r *Registration) Submit(ctx context.Context, format card.Format) (*domain.Member, notice.Notice) {
	m := r.form.Clone()
	m.ApplyRegistrationDefaults(r.now())
	if err := m.Validate(); err != nil {
		return nil, notice.Errorf("Please check the form: %v", err)
	}

	data, err := renderArtifact(r.renderer, m, format, card.Options{})
	if err != nil {
		r.logger.Error(ctx, "card render failed", "id", m.ID, "error", err)
		return nil, notice.Errorf("Could not generate your ID card: %v", err)
	}

	path, err := filex.WriteAtomic(r.dir, card.FileName(m.ID, format), data)
	if err != nil {
		r.logger.Error(ctx, "card write failed", "id", m.ID, "error", err)
		return nil, notice.Errorf("Could not save your ID card: %v", err)
	}

	created, err := r.store.CreateMember(ctx, m)
	r.idTaken = errors.Is(err, common.ErrorAlreadyExists)
	if err != nil {
		r.logger.Error(ctx, "create member failed", "id", m.ID, "error", err)
		return nil, notice.Errorf("Your card was saved to %s but registration failed: %v", path, err)
	}

	r.logger.Info(ctx, "member registered", "id", created.ID, "artifact", path)
	return created, notice.Successf("Welcome, %s! Your member ID is %s. Card saved to %s. Status: %s.",
		created.Name, created.ID, path, created.Status)
}
