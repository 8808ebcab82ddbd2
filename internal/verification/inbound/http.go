package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/verification/otp/send", end.SendOTP)
	r.POST("/api/v1/verification/otp/verify", end.VerifyOTP)
}
