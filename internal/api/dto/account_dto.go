package dto

// RegisterForm is the registration form payload.
type RegisterForm struct {
	Username string `form:"username"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// LoginForm is the login form payload.
type LoginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}
