package models

// Role представляет класс прав пользователя (role claim в access token)
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleClient     Role = "client"
	RoleFreelancer Role = "freelancer"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleClient, RoleFreelancer:
		return true
	}
	return false
}

// Dashboard returns the dashboard route for the role. Unknown roles land on
// the freelancer dashboard.
func (r Role) Dashboard() string {
	switch r {
	case RoleAdmin:
		return "/admin/dashboard"
	case RoleClient:
		return "/client/dashboard"
	default:
		return "/freelancer/dashboard"
	}
}

// User представляет пользователя в системе (GET /user, /admin/users)
type User struct {
	ClientData     *ClientData     `json:"client_data,omitempty"`
	FreelancerData *FreelancerData `json:"freelancer_data,omitempty"`
	Email          string          `json:"email"`
	Role           Role            `json:"role"`
	Name           string          `json:"name,omitempty"`
	Surname        string          `json:"surname,omitempty"`
	ID             int             `json:"id"`
	Banned         bool            `json:"ban,omitempty"`
}

// ClientData - профиль клиента
type ClientData struct {
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
}

// FreelancerData - профиль фрилансера
type FreelancerData struct {
	Title        string  `json:"title,omitempty"`
	Description  string  `json:"description,omitempty"`
	WorkType     string  `json:"work_type,omitempty"`
	Skills       []Skill `json:"skills,omitempty"`
	HourlyRate   float64 `json:"hourly_rate,omitempty"`
	HoursPerWeek int     `json:"hours_per_week,omitempty"`
}

// PublicProfile is what /freelancers and /clients return.
type PublicProfile struct {
	ClientData     *ClientData     `json:"client_data,omitempty"`
	FreelancerData *FreelancerData `json:"freelancer_data,omitempty"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	ID             int             `json:"id"`
}
