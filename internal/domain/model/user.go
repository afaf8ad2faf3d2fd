package model

// UserStats summarizes the signed-in manager's portfolio.
type UserStats struct {
	TotalProjects int     `json:"totalProjects"`
	Concluded     int     `json:"concluded"`
	Rating        float64 `json:"rating"`
}

// UserProfile is the session's single user.
type UserProfile struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Department  string    `json:"department"`
	Avatar      string    `json:"avatar"`
	Permissions string    `json:"permissions"`
	Stats       UserStats `json:"stats"`
}

// UserPatch lists the mutable profile fields. Nil fields are left as-is.
type UserPatch struct {
	Name        *string    `json:"name,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Role        *string    `json:"role,omitempty"`
	Department  *string    `json:"department,omitempty"`
	Avatar      *string    `json:"avatar,omitempty"`
	Permissions *string    `json:"permissions,omitempty"`
	Stats       *UserStats `json:"stats,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u UserProfile) UserProfile {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Avatar != nil {
		u.Avatar = *p.Avatar
	}
	if p.Permissions != nil {
		u.Permissions = *p.Permissions
	}
	if p.Stats != nil {
		u.Stats = *p.Stats
	}
	return u
}
