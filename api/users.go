package api

import (
	"encoding/json"
	"net/http"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/internal"
	"github.com/rs/zerolog/log"
)

// registerHandler handles the register request. It creates a new user in the
// database with the member role and sends the account verification code.
func (a *API) registerHandler(w http.ResponseWriter, r *http.Request) {
	userInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	// check the email is correct format
	if !internal.ValidEmail(userInfo.Email) {
		errors.ErrEmailMalformed.Write(w)
		return
	}
	// check the password is correct format
	if len(userInfo.Password) < 8 {
		errors.ErrPasswordTooShort.Write(w)
		return
	}
	// check the first name is not empty
	if userInfo.FirstName == "" {
		errors.ErrMalformedBody.Withf("first name is empty").Write(w)
		return
	}
	// check the last name is not empty
	if userInfo.LastName == "" {
		errors.ErrMalformedBody.Withf("last name is empty").Write(w)
		return
	}
	// add the user to the database, self registration always creates members
	userID, err := a.db.SetUser(&db.User{
		Email:     userInfo.Email,
		FirstName: userInfo.FirstName,
		LastName:  userInfo.LastName,
		Phone:     userInfo.Phone,
		Password:  internal.HexHashPassword(passwordSalt, userInfo.Password),
		Role:      db.MemberRole,
	})
	if err != nil {
		if err == db.ErrAlreadyExists {
			errors.ErrDuplicateConflict.With("email already registered").Write(w)
			return
		}
		log.Warn().Err(err).Msg("could not create user")
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// compose the new user and send the verification code
	newUser := &db.User{
		ID:        userID,
		Email:     userInfo.Email,
		FirstName: userInfo.FirstName,
		LastName:  userInfo.LastName,
		Phone:     userInfo.Phone,
	}
	if err := a.sendUserCode(r.Context(), newUser, db.CodeTypeVerifyAccount); err != nil {
		log.Warn().Err(err).Msg("could not send verification code")
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}

// verifyUserAccountHandler handles the request to verify the user account. It
// requires the user email and the verification code to be provided. If the
// verification code is correct, the user account is verified and a new token
// is generated and sent back to the user.
func (a *API) verifyUserAccountHandler(w http.ResponseWriter, r *http.Request) {
	verification := &apicommon.UserVerification{}
	if err := json.NewDecoder(r.Body).Decode(verification); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	hashCode := internal.HashVerificationCode(verification.Email, verification.Code)
	user, _, err := a.db.UserByVerificationCode(hashCode, db.CodeTypeVerifyAccount)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUnauthorized.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if err := a.db.VerifyUserAccount(user); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// generate a new token with the user email as the subject
	res, err := a.buildLoginResponse(user.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	// send the token back to the user
	apicommon.HTTPWriteJSON(w, res)
}

// userInfoHandler handles the request to get the information of the current
// authenticated user.
func (a *API) userInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, apicommon.UserFromDB(user))
}

// updateUserInfoHandler handles the request to update the information of the
// current authenticated user.
func (a *API) updateUserInfoHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := apicommon.UserFromContext(r.Context())
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	userInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	// create a flag to check if the user information has changed and needs
	// to be updated
	updateUser := false
	// check the email is correct format if it is not empty
	if userInfo.Email != "" && userInfo.Email != user.Email {
		if !internal.ValidEmail(userInfo.Email) {
			errors.ErrEmailMalformed.Write(w)
			return
		}
		user.Email = userInfo.Email
		updateUser = true
	}
	if userInfo.FirstName != "" {
		user.FirstName = userInfo.FirstName
		updateUser = true
	}
	if userInfo.LastName != "" {
		user.LastName = userInfo.LastName
		updateUser = true
	}
	if userInfo.Phone != "" {
		user.Phone = userInfo.Phone
		updateUser = true
	}
	if userInfo.AvatarURL != "" {
		user.AvatarURL = userInfo.AvatarURL
		updateUser = true
	}
	// update the user information if needed
	if updateUser {
		if _, err := a.db.SetUser(user); err != nil {
			log.Warn().Err(err).Msg("could not update user")
			errors.ErrGenericInternalServerError.Write(w)
			return
		}
	}
	// generate a new token in case the email (the token subject) has changed
	res, err := a.buildLoginResponse(user.Email)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, res)
}

// trainersHandler returns the directory of registered trainers.
func (a *API) trainersHandler(w http.ResponseWriter, _ *http.Request) {
	trainers, err := a.db.UsersByRole(db.TrainerRole)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	list := &apicommon.UserList{Users: make([]*apicommon.UserInfo, 0, len(trainers))}
	for _, trainer := range trainers {
		list.Users = append(list.Users, apicommon.UserFromDB(trainer))
	}
	apicommon.HTTPWriteJSON(w, list)
}

// usersHandler returns a listing of all users of a role. The role is taken
// from the optional `role` query parameter, defaulting to members. Admin only.
func (a *API) usersHandler(w http.ResponseWriter, r *http.Request) {
	role := db.UserRole(r.URL.Query().Get("role"))
	if role == "" {
		role = db.MemberRole
	}
	users, err := a.db.UsersByRole(role)
	if err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	list := &apicommon.UserList{Users: make([]*apicommon.UserInfo, 0, len(users))}
	for _, user := range users {
		list.Users = append(list.Users, apicommon.UserFromDB(user))
	}
	apicommon.HTTPWriteJSON(w, list)
}

// userByIDHandler returns a single user record. Admin only.
func (a *API) userByIDHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromURL(r, "userID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, apicommon.UserFromDB(user))
}

// updateUserHandler updates a user record, including role assignment. Admin
// only.
func (a *API) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromURL(r, "userID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	userInfo := &apicommon.UserInfo{}
	if err := json.NewDecoder(r.Body).Decode(userInfo); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	if userInfo.Role != "" {
		switch userInfo.Role {
		case db.MemberRole, db.TrainerRole, db.AdminRole:
			user.Role = userInfo.Role
		default:
			errors.ErrInvalidData.Withf("unknown role %q", userInfo.Role).Write(w)
			return
		}
	}
	if userInfo.FirstName != "" {
		user.FirstName = userInfo.FirstName
	}
	if userInfo.LastName != "" {
		user.LastName = userInfo.LastName
	}
	if userInfo.Phone != "" {
		user.Phone = userInfo.Phone
	}
	if _, err := a.db.SetUser(user); err != nil {
		log.Warn().Err(err).Uint64("userId", userID).Msg("could not update user")
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteJSON(w, apicommon.UserFromDB(user))
}

// deleteUserHandler removes a user record. Admin only.
func (a *API) deleteUserHandler(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromURL(r, "userID")
	if err != nil {
		errors.ErrMalformedURLParam.WithErr(err).Write(w)
		return
	}
	user, err := a.db.User(userID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrUserNotFound.Write(w)
			return
		}
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	if err := a.db.DelUser(user); err != nil {
		errors.ErrGenericInternalServerError.Write(w)
		return
	}
	apicommon.HTTPWriteOK(w)
}
