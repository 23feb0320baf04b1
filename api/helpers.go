package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/internal"
	"github.com/FebaRodrigues/final-fit-sub000/notifications"
	"github.com/FebaRodrigues/final-fit-sub000/notifications/mailtemplates"
	"github.com/go-chi/chi/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// buildLoginResponse creates a JWT token for the given user identifier.
// The token is signed with the API secret, following the JWT specification.
// The token is valid for the period specified on jwtExpiration constant.
func (a *API) buildLoginResponse(id string) (*apicommon.LoginResponse, error) {
	j := jwt.New()
	if err := j.Set("userId", id); err != nil {
		return nil, err
	}
	if err := j.Set(jwt.ExpirationKey, time.Now().Add(jwtExpiration).UnixNano()); err != nil {
		return nil, err
	}
	lr := apicommon.LoginResponse{}
	lr.Expirity = time.Now().Add(jwtExpiration)
	jmap, err := j.AsMap(context.Background())
	if err != nil {
		return nil, err
	}
	_, lr.Token, _ = a.auth.Encode(jmap)
	return &lr, nil
}

// sendUserCode method allows to send a code to the user via email or SMS. It
// generates a verification code and stores it in the database associated to
// the user email. If the mail service is available, it sends the verification
// code via email. If the SMS service is available, it sends the verification
// code via SMS. If neither the mail service nor the SMS service are available,
// the verification code will be empty but stored in the database to mock the
// verification process in any case.
func (a *API) sendUserCode(ctx context.Context, user *db.User, codeType db.CodeType) error {
	// generate verification code if the mail service is available, if not
	// the verification code will not be sent but stored in the database
	// generated with just the user email to mock the verification process
	var code string
	if a.mail != nil || a.sms != nil {
		code = internal.RandomHex(VerificationCodeLength)
	}
	hashCode := internal.HashVerificationCode(user.Email, code)
	// store the verification code in the database
	expiration := time.Now().Add(VerificationCodeExpiration)
	if err := a.db.SetVerificationCode(&db.User{ID: user.ID}, hashCode, codeType, expiration); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()
	// send the verification code via email if the mail service is available
	if a.mail != nil {
		notification, err := mailtemplates.VerifyAccountNotification.ExecTemplate(struct {
			Code string
		}{code})
		if err != nil {
			return err
		}
		notification.ToName = fmt.Sprintf("%s %s", user.FirstName, user.LastName)
		notification.ToAddress = user.Email
		if err := a.mail.SendNotification(ctx, notification); err != nil {
			return err
		}
	} else if a.sms != nil {
		// send the verification code via SMS if the SMS service is available
		if err := a.sms.SendNotification(ctx, &notifications.Notification{
			ToNumber:  user.Phone,
			PlainBody: VerificationCodeTextBody + code,
		}); err != nil {
			return err
		}
	}
	return nil
}

// objectIDFromURL parses the named URL parameter as a Mongo object ID.
func objectIDFromURL(r *http.Request, param string) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, param)
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s: %w", param, err)
	}
	return id, nil
}

// userIDFromURL parses the named URL parameter as a numeric user ID.
func userIDFromURL(r *http.Request, param string) (uint64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", param, err)
	}
	return id, nil
}
