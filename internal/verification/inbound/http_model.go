package inbound

type SendOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
}

type SendOTPResponse struct {
	Success   bool   `json:"success"`
	Msg       string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

func (r SendOTPResponse) Message() string {
	return r.Msg
}

type VerifyOTPRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	OTP         string `json:"otp"`
}

type VerifyOTPResponse struct {
	Success           bool   `json:"success"`
	Msg               string `json:"message"`
	RemainingAttempts *int   `json:"remainingAttempts,omitempty"`
}

func (r VerifyOTPResponse) Message() string {
	return r.Msg
}
