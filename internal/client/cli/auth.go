package cli

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"os"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/client/router"
	"github.com/dmitrijs2005/entrust/internal/client/services"
	"github.com/dmitrijs2005/entrust/internal/common"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

// newRNG supplies the identifier source for registrations; nil uses the
// global generator.
var newRNG = func() *rand.Rand { return nil }

var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getPairs      = GetPairs
)

var registrationPrompts = []struct{ field, label string }{
	{"name", "Full name"},
	{"phone", "Phone"},
	{"email", "Email"},
	{"dob", "Date of birth (YYYY-MM-DD)"},
	{"gender", "Gender"},
	{"bloodGroup", "Blood group"},
	{"location", "Location"},
	{"emergency", "Emergency contact phone"},
	{"role", "Role (Member, Ministry Leader, Choir, Media Team) [Member]"},
}

// photoDataURL reads an image file into the data URL form stored on the record.
func photoDataURL(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return "data:" + http.DetectContentType(raw) + ";base64," + base64.StdEncoding.EncodeToString(raw), nil
}

// Register runs the ID issuance form. An optional argument selects the card
// format (png or pdf). On success the new member is signed in.
func (a *App) Register(ctx context.Context, args []string) error {
	if a.isLoggedIn() {
		return errors.New("already signed in, log out to register a new member")
	}

	format := card.FormatPNG
	if len(args) > 0 {
		f, err := card.ParseFormat(args[0])
		if err != nil {
			return err
		}
		format = f
	}

	reg := services.NewRegistration(newRNG(), a.store, a.renderer, a.config.DownloadDir, a.logger)
	for {
		v, err := getSimpleText(a.reader, fmt.Sprintf("Your member ID will be %s (enter to keep, 'new' for another)", reg.Form().ID), a.out)
		if err != nil {
			return err
		}
		if !strings.EqualFold(v, "new") {
			break
		}
		reg.RegenerateID()
	}

	for _, p := range registrationPrompts {
		for {
			v, err := getSimpleText(a.reader, p.label, a.out)
			if err != nil {
				return err
			}
			if v == "" && p.field == "role" {
				v = string(domain.RoleMember)
			}
			if err := reg.Set(p.field, v); err != nil {
				a.notify(notice.Warningf("%v", err))
				continue
			}
			break
		}
	}

	photo, err := getSimpleText(a.reader, "Photo file (optional)", a.out)
	if err != nil {
		return err
	}
	if photo != "" {
		url, err := photoDataURL(photo)
		if err == nil {
			err = reg.Set("photo", url)
		}
		if err != nil {
			a.notify(notice.Warningf("Photo skipped: %v", err))
		}
	}

	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	password := string(pw)
	if err := reg.Set("password", password); err != nil {
		return err
	}
	if password == "" {
		password = domain.DefaultPassword
		a.notify(notice.Warningf("No password given, the default password was assigned. Change it after signing in."))
	}

	created, n := reg.Submit(ctx, format)
	a.notify(n)
	for created == nil && reg.IDTaken() {
		v, err := getSimpleText(a.reader, fmt.Sprintf("Member ID %s is already taken. Draw a new one and retry? (y/n) [y]", reg.Form().ID), a.out)
		if err != nil {
			return err
		}
		if strings.EqualFold(v, "n") || strings.EqualFold(v, "no") {
			return nil
		}
		a.notify(notice.Infof("Retrying with member ID %s.", reg.RegenerateID()))
		created, n = reg.Submit(ctx, format)
		a.notify(n)
	}
	if created == nil {
		return nil
	}

	if n := a.session.Login(ctx, created.ID, password); n.IsError() {
		a.notify(n)
		return nil
	}
	a.apply(router.Action{Kind: router.Registered})
	return nil
}

// Login signs in with a member ID or phone number.
func (a *App) Login(ctx context.Context, args []string) error {
	if a.isLoggedIn() {
		return errors.New("already signed in")
	}

	var identifier string
	if len(args) > 0 {
		identifier = args[0]
	} else {
		v, err := getSimpleText(a.reader, "Member ID or phone", a.out)
		if err != nil {
			return err
		}
		identifier = v
	}

	pw, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	n := a.session.Login(ctx, identifier, string(pw))
	a.notify(n)
	if a.session.SignedIn() {
		a.apply(router.Action{Kind: router.SignedIn})
	}
	return nil
}

func (a *App) Recover(ctx context.Context, args []string) error {
	phone := strings.Join(args, "")
	if phone == "" {
		v, err := getSimpleText(a.reader, "Registered phone number", a.out)
		if err != nil {
			return err
		}
		phone = v
	}
	a.notify(a.session.RecoverID(ctx, phone))
	return nil
}

func (a *App) Logout(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	a.dashboard.Cancel()
	a.notify(a.session.Logout())
	a.apply(router.Action{Kind: router.SignedOut})
	return nil
}
