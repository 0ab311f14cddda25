package domain

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleAgent  Role = "agent"
	RoleClient Role = "client"
)

var Roles = []Role{RoleAdmin, RoleAgent, RoleClient}

func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleAgent, RoleClient:
		return true
	}
	return false
}

// Label is the display name used in dashboards and forms.
func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Administrator"
	case RoleAgent:
		return "Agent"
	case RoleClient:
		return "Client"
	}
	return string(r)
}

type Profile struct {
	ID        string `db:"id" json:"id"`
	FullName  string `db:"full_name" json:"full_name"`
	Email     string `db:"email" json:"email"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Role      Role   `db:"role" json:"role"`
	Hash      string `db:"password_hash" json:"-"`
	CreatedAt string `db:"created_at" json:"created_at"`
	UpdatedAt string `db:"updated_at" json:"updated_at"`
}

func (p *Profile) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
func (p *Profile) IsAgent() bool { return p != nil && p.Role == RoleAgent }

// CanManageListings reports whether the profile may create listings.
func (p *Profile) CanManageListings() bool {
	return p != nil && (p.Role == RoleAdmin || p.Role == RoleAgent)
}

// UserStats counts profiles per role.
type UserStats struct {
	Total   int
	Admins  int
	Agents  int
	Clients int
}

func CountRoles(profiles []Profile) UserStats {
	s := UserStats{Total: len(profiles)}
	for _, p := range profiles {
		switch p.Role {
		case RoleAdmin:
			s.Admins++
		case RoleAgent:
			s.Agents++
		case RoleClient:
			s.Clients++
		}
	}
	return s
}
