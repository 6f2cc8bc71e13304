package dto

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued session token and the caller's identity.
type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	Role        string `json:"role"`
}

// SignupRequest payload for POST /users/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// SignupResponse confirms the created account.
type SignupResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
