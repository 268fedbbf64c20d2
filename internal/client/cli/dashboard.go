package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/client/notice"
	"github.com/dmitrijs2005/entrust/internal/filex"
	domain "github.com/dmitrijs2005/entrust/internal/members"
)

func (a *App) printMember(m *domain.Member) {
	rows := [][2]string{
		{"ID", m.ID},
		{"Name", m.Name},
		{"Role", string(m.Role)},
		{"Status", string(m.Status)},
		{"Phone", m.Phone},
		{"Email", m.Email},
		{"Born", m.DOB},
		{"Gender", m.Gender},
		{"Blood group", m.BloodGroup},
		{"Location", m.Location},
		{"Emergency", m.Emergency},
		{"Member since", m.MemberSince},
		{"Joined", m.JoinedDate},
	}
	for _, r := range rows {
		v := r[1]
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(a.out, "%-13s %s\n", r[0]+":", v)
	}
	if m.Photo != "" {
		fmt.Fprintf(a.out, "%-13s %s\n", "Photo:", "attached")
	}
	if !m.IsActive() {
		fmt.Fprintln(a.out, "PENDING VERIFICATION: downloads unlock once an admin verifies your membership.")
	}
}

// Card shows the signed-in member's card details.
func (a *App) Card(ctx context.Context, args []string) error {
	m := a.session.Current()
	if m == nil {
		return errNotSignedIn
	}
	a.printMember(m)
	return nil
}

// Edit stages profile changes from name=value lines, shows the merged
// record and then saves or drops the draft.
func (a *App) Edit(ctx context.Context, args []string) error {
	if err := a.dashboard.BeginEdit(); err != nil {
		return errNotSignedIn
	}

	pairs, err := getPairs(a.reader, "Editable fields: phone, emergency, email, location, bloodGroup, photo", a.out)
	if err != nil {
		a.dashboard.Cancel()
		return err
	}
	for _, p := range pairs {
		value := p[1]
		if p[0] == string(domain.FieldPhoto) && value != "" && !strings.HasPrefix(value, "data:") {
			if value, err = photoDataURL(value); err != nil {
				a.notify(notice.Warningf("photo: %v", err))
				continue
			}
		}
		if err := a.dashboard.SetField(p[0], value); err != nil {
			a.notify(notice.Warningf("%s: %v", p[0], err))
		}
	}

	if m := a.dashboard.Preview(); m != nil {
		a.printMember(m)
	}
	if path, err := a.writePreview(); err != nil {
		a.notify(notice.Warningf("Card preview failed: %v", err))
	} else {
		a.notify(notice.Infof("Card preview with your changes saved to %s.", path))
	}

	answer, err := getSimpleText(a.reader, "Save changes? (save/cancel) [save]", a.out)
	if err != nil {
		a.dashboard.Cancel()
		return err
	}
	if strings.EqualFold(answer, "cancel") {
		a.dashboard.Cancel()
		a.notify(notice.Infof("Changes discarded."))
		return nil
	}

	a.notify(a.dashboard.Save(ctx))
	return nil
}

// writePreview renders the front face with any staged draft merged.
func (a *App) writePreview() (string, error) {
	m := a.dashboard.Preview()
	if m == nil {
		return "", errNotSignedIn
	}
	data, err := a.dashboard.PreviewPNG()
	if err != nil {
		return "", err
	}
	return filex.WriteAtomic(a.config.DownloadDir, previewFileName(m.ID), data)
}

func previewFileName(id string) string {
	return "preview-" + card.FileName(id, card.FormatPNG)
}

// Preview writes the front face as it would look with any pending draft.
func (a *App) Preview(ctx context.Context, args []string) error {
	path, err := a.writePreview()
	if err != nil {
		return err
	}
	a.notify(notice.Infof("Preview saved to %s.", path))
	return nil
}

func (a *App) Download(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	if len(args) != 1 {
		return errors.New("usage: download png|pdf")
	}
	f, err := card.ParseFormat(args[0])
	if err != nil {
		return err
	}
	a.notify(a.dashboard.Download(ctx, f))
	return nil
}

func (a *App) Reload(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotSignedIn
	}
	a.notify(a.dashboard.Reload(ctx))
	return nil
}
