package domain

// Role gates which map view and task list a user sees.
type Role string

const (
	RoleReponedor  Role = "reponedor"
	RoleSupervisor Role = "supervisor"
)

// User is the authenticated account attached to the stored session.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Session is the bearer credential plus its owner, as stashed locally
// after login and cleared on logout or 401.
type Session struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	User        User   `json:"user"`
}
