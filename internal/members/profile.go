package members

import (
	"fmt"

	"github.com/dmitrijs2005/entrust/internal/common"
)

// Field names a member attribute a member may edit on their own record.
type Field string

const (
	FieldPhone      Field = "phone"
	FieldEmergency  Field = "emergency"
	FieldEmail      Field = "email"
	FieldLocation   Field = "location"
	FieldBloodGroup Field = "bloodGroup"
	FieldPhoto      Field = "photo"
)

// EditableFields lists the profile fields in display order.
var EditableFields = []Field{FieldPhone, FieldEmergency, FieldEmail, FieldLocation, FieldBloodGroup, FieldPhoto}

// BloodGroups are the values offered by the registration form.
var BloodGroups = []string{"O+ve", "O-ve", "A+ve", "A-ve", "B+ve", "B-ve", "AB+ve", "AB-ve"}

// Profile is the editable subset of a member, used as a dashboard draft.
type Profile struct {
	Phone      string
	Emergency  string
	Email      string
	Location   string
	BloodGroup string
	Photo      string
}

func ProfileOf(m *Member) Profile {
	return Profile{
		Phone:      m.Phone,
		Emergency:  m.Emergency,
		Email:      m.Email,
		Location:   m.Location,
		BloodGroup: m.BloodGroup,
		Photo:      m.Photo,
	}
}

func ParseField(s string) (Field, error) {
	for _, f := range EditableFields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: field %q is not editable", common.ErrorValidation, s)
}

// Set updates one field of the draft.
func (p *Profile) Set(f Field, value string) error {
	switch f {
	case FieldPhone:
		p.Phone = value
	case FieldEmergency:
		p.Emergency = value
	case FieldEmail:
		p.Email = value
	case FieldLocation:
		p.Location = value
	case FieldBloodGroup:
		p.BloodGroup = value
	case FieldPhoto:
		p.Photo = value
	default:
		return fmt.Errorf("%w: field %q is not editable", common.ErrorValidation, f)
	}
	return nil
}

// ApplyTo returns a copy of m with the profile fields replaced and every
// other field left untouched.
func (p Profile) ApplyTo(m *Member) *Member {
	c := m.Clone()
	c.Phone = p.Phone
	c.Emergency = p.Emergency
	c.Email = p.Email
	c.Location = p.Location
	c.BloodGroup = p.BloodGroup
	c.Photo = p.Photo
	return c
}
