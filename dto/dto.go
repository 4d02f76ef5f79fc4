package dto

// RemoteIdentity is the verified profile returned by an identity provider.
type RemoteIdentity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Nickname string `json:"nickname"`
	Avatar   string `json:"avatar"`
	Token    string `json:"-"`
}

// APIResponse is the envelope every API endpoint answers with.
type APIResponse struct {
	Data    any    `json:"data"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type UserResponse struct {
	ID        uint     `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Roles     []string `json:"roles"`
	Providers []string `json:"providers"`
}

type LoginPageResponse struct {
	Errors map[string]string `json:"errors"`
}

type DeleteNotification struct {
	UserID         string `json:"user_id" validate:"required"`
	NotificationID string `json:"notification_id" validate:"required"`
}
