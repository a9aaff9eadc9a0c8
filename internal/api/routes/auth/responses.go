package auth

type TokenLoginResponse struct {
	AuthToken string `json:"auth_token"`
}
