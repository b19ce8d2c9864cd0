package model

type CreateUserRequest struct {
	Name string `json:"name"`
}

type CreateUserResponse struct {
	User User `json:"user"`
}

type GetMeRequest struct{}

type GetMeResponse User

type GetUserRequest struct {
	Handle int64 `json:"handle"`
}

type GetUserResponse User
