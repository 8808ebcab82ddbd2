package inbound

import (
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/verification/entity"
	"github.com/shandysiswandi/otpgate/internal/verification/usecase"
)

// HTTPEndpoint exposes the OTP send and verify handlers.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a new challenge for a phone number and delivers it by SMS.
// @Summary Send OTP
// @Description Normalizes the Bangladesh phone number, replaces any active challenge and sends a 6-digit code by SMS. A delivery failure is reported with success=false; the challenge stays valid.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Send OTP payload"
// @Success 200 {object} router.successResponse{data=SendOTPResponse} "Challenge created or delivery failed"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error" example:{"message":"Invalid Bangladesh phone number format. Use +8801XXXXXXXXX","error":{"phone_number":"phone_number must be a valid Bangladesh mobile number"}}
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verification/otp/send [post]
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.IssueChallenge(r.Context(), usecase.IssueChallengeInput{
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}

	out := SendOTPResponse{Success: resp.Success(), Msg: resp.Message}
	if resp.Status == entity.IssueChallengeCreated {
		out.RequestID = resp.RequestID
		out.ExpiresIn = int(resp.ExpiresIn.Seconds())
	}

	return out, nil
}

// VerifyOTP checks a code against the active challenge.
// @Summary Verify OTP
// @Description Verifies the code for a phone number. Every outcome other than a successful match is reported with success=false.
// @Tags Verification
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Verify OTP payload"
// @Success 200 {object} router.successResponse{data=VerifyOTPResponse} "Verification outcome"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 500 {object} router.errorResponse "Internal server error"
// @Router /api/v1/verification/otp/verify [post]
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		PhoneNumber: req.PhoneNumber,
		OTP:         req.OTP,
	})
	if err != nil {
		return nil, err
	}

	out := VerifyOTPResponse{Success: resp.Success(), Msg: resp.Message()}
	if resp.Status == entity.VerifyMismatch {
		remaining := resp.RemainingAttempts
		out.RemainingAttempts = &remaining
	}

	return out, nil
}
