package members

import (
	"testing"

	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_ApplyTo_ChangesOnlyEditableFields(t *testing.T) {
	m := &Member{
		ID: "COT-1111", Phone: "5550001", Name: "A", Email: "a@x", DOB: "1995-08-20",
		Location: "Valparai", Gender: "Male", BloodGroup: "O+ve", MemberSince: "2015",
		Emergency: "5559999", Role: RoleMediaTeam, Status: StatusActive, JoinedDate: "2024-01-01",
		Version: 3, PasswordHash: "h",
	}

	p := ProfileOf(m)
	require.NoError(t, p.Set(FieldEmail, "new@x"))
	require.NoError(t, p.Set(FieldLocation, "Coimbatore"))

	got := p.ApplyTo(m)

	want := m.Clone()
	want.Email = "new@x"
	want.Location = "Coimbatore"
	assert.Empty(t, cmp.Diff(want, got))
	assert.Equal(t, "a@x", m.Email, "source record must stay untouched")
}

func TestProfile_SetEveryField(t *testing.T) {
	var p Profile
	for _, f := range EditableFields {
		require.NoError(t, p.Set(f, string(f)+"-v"))
	}
	assert.Equal(t, Profile{
		Phone: "phone-v", Emergency: "emergency-v", Email: "email-v",
		Location: "location-v", BloodGroup: "bloodGroup-v", Photo: "photo-v",
	}, p)

	assert.ErrorIs(t, p.Set("status", "Active"), common.ErrorValidation)
}

func TestParseField(t *testing.T) {
	f, err := ParseField("bloodGroup")
	require.NoError(t, err)
	assert.Equal(t, FieldBloodGroup, f)

	_, err = ParseField("role")
	assert.ErrorIs(t, err, common.ErrorValidation)
}
