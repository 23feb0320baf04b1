package payments

import (
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/internal"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/mailtemplates"
	"github.com/rs/zerolog/log"
)

// OTPIssueResult reports a freshly issued verification code. Code is only
// populated when the service runs in dev mode; production responses never
// carry the raw code.
type OTPIssueResult struct {
	Email      string    `json:"email"`
	Expiration time.Time `json:"expiration"`
	Code       string    `json:"code,omitempty"`
}

// OTPVerifyResult reports a successful verification. PendingMembership is
// informational only and carries the membership awaiting payment, if any.
type OTPVerifyResult struct {
	Verified          bool           `json:"verified"`
	PendingMembership *db.Membership `json:"pendingMembership,omitempty"`
}

// IssueOTP generates a uniformly random numeric code for the user, replaces
// any previous live session with a fresh one and mails the code to the
// user's address. The response carries the expiry, never the code itself
// outside dev mode.
func (s *Service) IssueOTP(userID uint64) (*OTPIssueResult, error) {
	user, err := s.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	code := internal.RandomOTPCode(OTPCodeLength)
	expiration := time.Now().Add(s.otpExpiry)
	// the session document is keyed by user ID, so storing it drops any
	// prior live code for the user
	if err := s.db.SetOTPSession(&db.OTPSession{
		UserID:     userID,
		Email:      user.Email,
		Code:       code,
		Expiration: expiration,
	}); err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	if s.mailer != nil {
		notification, err := mailtemplates.PaymentOTPNotification.ExecTemplate(struct {
			Code    string
			Minutes int
		}{code, int(s.otpExpiry.Minutes())})
		if err != nil {
			return nil, errors.ErrGenericInternalServerError.WithErr(err)
		}
		notification.ToName = user.FirstName
		notification.ToAddress = user.Email
		ctx, cancel := notificationContext()
		defer cancel()
		if err := s.mailer.SendNotification(ctx, notification); err != nil {
			return nil, errors.ErrGenericInternalServerError.WithErr(err)
		}
	}
	result := &OTPIssueResult{Email: user.Email, Expiration: expiration}
	if s.devMode {
		log.Warn().Uint64("user", userID).Msg("dev mode: echoing OTP code in response")
		result.Code = code
	}
	return result, nil
}

// VerifyOTP checks the submitted code against the user's live session. The
// session is deleted on success and on expiry, so a code can never be used
// twice.
func (s *Service) VerifyOTP(userID uint64, code string) (*OTPVerifyResult, error) {
	if userID == 0 || code == "" {
		return nil, errors.ErrInvalidData.Withf("userId and code are required")
	}
	session, err := s.db.OTPSessionByUser(userID)
	if err != nil {
		if err == db.ErrNotFound {
			return nil, errors.ErrOTPNotFound
		}
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	if time.Now().After(session.Expiration) {
		if err := s.db.DelOTPSession(userID); err != nil {
			log.Warn().Err(err).Uint64("user", userID).Msg("failed to delete expired OTP session")
		}
		return nil, errors.ErrOTPExpired
	}
	if session.Code != code {
		return nil, errors.ErrOTPInvalid
	}
	// single use, the session dies with the successful verification
	if err := s.db.DelOTPSession(userID); err != nil {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	result := &OTPVerifyResult{Verified: true}
	if pending, err := s.db.PendingMembershipByUser(userID); err == nil {
		result.PendingMembership = pending
	} else if err != db.ErrNotFound {
		return nil, errors.ErrInternalStorageError.WithErr(err)
	}
	return result, nil
}
