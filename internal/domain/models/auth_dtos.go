package models

// RegisterRequest carries the fields required to create an account.
// Validation tags mirror the public API contract: username 3-32 word
// characters, password 8-32 with a matching confirmation, and an email
// verification code obtained through the send-code endpoint beforehand.
type RegisterRequest struct {
	Username              string      `json:"username" binding:"required,min=3,max=32"`
	Email                 string      `json:"email" binding:"required,email"`
	Password              string      `json:"password" binding:"required,min=8,max=32"`
	ConfirmPassword       string      `json:"confirm_password" binding:"required,eqfield=Password"`
	EmailVerificationCode string      `json:"email_verification_code" binding:"required,len=6,numeric"`
	PhoneVerificationCode string      `json:"phone_verification_code,omitempty" binding:"omitempty,len=6,numeric"`
	Phone                 string      `json:"phone,omitempty"`
	ReferralCode          string      `json:"referral_code,omitempty"`
	DeviceInfo            *DeviceInfo `json:"device_info,omitempty"`
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username   string      `json:"username" binding:"required"`
	Password   string      `json:"password" binding:"required"`
	DeviceInfo *DeviceInfo `json:"device_info,omitempty"`
}

// DeviceInfo describes the client device presented at login. Recording it is
// informational only and never gates authentication.
type DeviceInfo struct {
	DeviceID   string `json:"device_id"`
	DeviceType string `json:"device_type"` // WEB, IOS, ANDROID
	DeviceName string `json:"device_name,omitempty"`
	IPAddress  string `json:"ip_address,omitempty"`
	UserAgent  string `json:"user_agent,omitempty"`
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"` // access token lifetime in seconds
}
