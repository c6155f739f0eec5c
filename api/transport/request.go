package transport

// LoginRequest carries the credentials for POST /api/v1/auth/login. The
// identifier matches either username or email, case-insensitively.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Tier     string `json:"subscription"`
	Secret   string `json:"secret,omitempty"`
}

// UpdateUserRequest is a partial update; absent fields stay untouched.
// ID and CreatedAt are listed only so patches carrying them can be rejected.
type UpdateUserRequest struct {
	ID           *string `json:"id,omitempty"`
	CreatedAt    *string `json:"created_at,omitempty"`
	Username     *string `json:"username,omitempty"`
	Email        *string `json:"email,omitempty"`
	Role         *string `json:"role,omitempty"`
	Active       *bool   `json:"is_active,omitempty"`
	CreditsUsed  *int    `json:"daily_credits_used,omitempty"`
	CreditsLimit *int    `json:"daily_credits_limit,omitempty"`
}

type SetActiveRequest struct {
	Active *bool `json:"is_active"`
}

type ChangeTierRequest struct {
	Tier string `json:"subscription"`
}

type SearchRequest struct {
	SearchType string `json:"search_type,omitempty"`
	Query      string `json:"query"`
}
