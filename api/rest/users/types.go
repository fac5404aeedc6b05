package users

// returned by a successful login
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"` // "Bearer <credential>"
}

// identity of the authenticated caller
type CurrentUserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TestResponse struct {
	Msg string `json:"msg"`
}

// field messages shown by the login and register forms
const (
	msgUserNotFound      = "User not found"
	msgIncorrectPassword = "Incorrect Password"
	msgEmailExists       = "Email already exists"
)
