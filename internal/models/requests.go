package models

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiverId"`
	Content    string `json:"content"`
}

type MarkAsReadRequest struct {
	MessageIDs []uint `json:"messageIds"`
}

type LoginRequestBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
