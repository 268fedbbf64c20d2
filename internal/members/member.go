// Package members defines the Member record shared by the server, the
// terminal client and the admin tool, together with its status/role
// enumerations, identifier generation and the editable profile subset.
package members

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/entrust/internal/common"
)

// Status is the verification state of a member.
type Status string

const (
	StatusPending  Status = "Pending Verification"
	StatusActive   Status = "Active"
	StatusRejected Status = "Rejected"
)

// Role is the ministry role printed on the card.
type Role string

const (
	RoleMember         Role = "Member"
	RoleAdmin          Role = "Admin"
	RoleMinistryLeader Role = "Ministry Leader"
	RoleChoir          Role = "Choir"
	RoleMediaTeam      Role = "Media Team"
)

// DefaultPassword is assigned when a registration does not carry one.
const DefaultPassword = "password"

// IDPrefix starts every member identifier.
const IDPrefix = "COT-"

const (
	idMin = 1000
	idMax = 9999
)

var idPattern = regexp.MustCompile(`^COT-[1-9][0-9]{3}$`)

var statuses = []Status{StatusPending, StatusActive, StatusRejected}

var roles = []Role{RoleMember, RoleAdmin, RoleMinistryLeader, RoleChoir, RoleMediaTeam}

// Member is the durable record. JSON names mirror the collection resource.
//
// Password travels only inbound (registration, replace); the server keeps
// PasswordHash and never serializes either back.
type Member struct {
	ID           string `json:"id"`
	Phone        string `json:"phone"`
	Password     string `json:"password,omitempty"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	DOB          string `json:"dob"`
	Location     string `json:"location"`
	Gender       string `json:"gender"`
	BloodGroup   string `json:"bloodGroup"`
	MemberSince  string `json:"memberSince"`
	Emergency    string `json:"emergency"`
	Role         Role   `json:"role"`
	Status       Status `json:"status"`
	Photo        string `json:"photo,omitempty"`
	JoinedDate   string `json:"joinedDate"`
	Version      int64  `json:"version,omitempty"`
}

// GenerateID returns "COT-" followed by a number in [1000, 9999].
// Uniqueness is not checked; the store rejects duplicates on create.
func GenerateID(rng *rand.Rand) string {
	var n int
	if rng == nil {
		n = idMin + rand.IntN(idMax-idMin+1)
	} else {
		n = idMin + rng.IntN(idMax-idMin+1)
	}
	return IDPrefix + strconv.Itoa(n)
}

// ValidID reports whether id has the COT-#### shape with a 1000–9999 suffix.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

func ParseStatus(s string) (Status, error) {
	for _, st := range statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", common.ErrorValidation, s)
}

var statusAliases = map[string]Status{
	"pending":  StatusPending,
	"active":   StatusActive,
	"verify":   StatusActive,
	"verified": StatusActive,
	"rejected": StatusRejected,
	"reject":   StatusRejected,
}

// LookupStatus accepts a status name or a short case-insensitive alias
// such as "active" or "reject".
func LookupStatus(s string) (Status, error) {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st, nil
	}
	return ParseStatus(s)
}

func ParseRole(s string) (Role, error) {
	for _, r := range roles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrorValidation, s)
}

// Validate checks the fields the store relies on: identifier shape and
// enumerations. Free-text fields are not validated.
func (m *Member) Validate() error {
	if !ValidID(m.ID) {
		return fmt.Errorf("%w: identifier %q must look like COT-####", common.ErrorValidation, m.ID)
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", common.ErrorValidation)
	}
	if _, err := ParseRole(string(m.Role)); err != nil {
		return err
	}
	if _, err := ParseStatus(string(m.Status)); err != nil {
		return err
	}
	return nil
}

// ApplyRegistrationDefaults fills what a fresh registration leaves empty.
// Status is always reset to pending.
func (m *Member) ApplyRegistrationDefaults(now time.Time) {
	if m.Role == "" {
		m.Role = RoleMember
	}
	m.Status = StatusPending
	if m.Phone == "" {
		m.Phone = m.Emergency
	}
	if m.Password == "" {
		m.Password = DefaultPassword
	}
	if m.MemberSince == "" {
		m.MemberSince = strconv.Itoa(now.Year())
	}
	if m.JoinedDate == "" {
		m.JoinedDate = now.Format(time.DateOnly)
	}
}

func (m *Member) IsActive() bool { return m.Status == StatusActive }

func (m *Member) IsAdmin() bool { return m.Role == RoleAdmin }

// Clone returns an independent copy.
func (m *Member) Clone() *Member {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

// Sanitized returns a copy without password material, fit for responses.
func (m *Member) Sanitized() *Member {
	c := m.Clone()
	c.Password = ""
	c.PasswordHash = ""
	return c
}
