package request

type LoginRequest struct {
	OperatorCode string `json:"operator_code" binding:"required"`
	PIN          string `json:"pin" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
