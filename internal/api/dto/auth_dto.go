package dto

// RegisterDTO 註冊請求
type RegisterDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	UserName string `json:"user_name"`
}

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserDTO struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	UserName string `json:"user_name"`
	IsAdmin  bool   `json:"is_admin"`
}

// LoginResponse 登入響應
type LoginResponse struct {
	Token     string  `json:"token"`
	ExpiresIn int     `json:"expires_in"`
	User      UserDTO `json:"user"`
}
