package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"testing"

	"github.com/FebaRodrigues/final-fit-sub000/api/apicommon"
	"github.com/FebaRodrigues/final-fit-sub000/db"
	"github.com/FebaRodrigues/final-fit-sub000/errors"
	"github.com/FebaRodrigues/final-fit-sub000/internal"
	qt "github.com/frankban/quicktest"
)

// registerAndLogin helper registers a user, verifies the account and returns
// a valid bearer token. The test API runs without mail or SMS services so the
// stored verification code is empty.
func registerAndLogin(t *testing.T, email string) string {
	t.Helper()
	userInfo := &apicommon.UserInfo{
		Email:     email,
		Password:  testPass,
		FirstName: testFirstName,
		LastName:  testLastName,
	}
	_, code := testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	if code != http.StatusOK {
		t.Fatalf("unexpected register status: %d", code)
	}
	verification := &apicommon.UserVerification{Email: email}
	resp, code := testRequest(t, http.MethodPost, "", verification, verifyUserEndpoint)
	if code != http.StatusOK {
		t.Fatalf("unexpected verify status: %d", code)
	}
	loginResp := &apicommon.LoginResponse{}
	if err := json.Unmarshal(resp, loginResp); err != nil {
		t.Fatalf("could not decode login response: %v", err)
	}
	return loginResp.Token
}

// adminToken helper creates a verified admin user directly in the database
// and logs it in through the API.
func adminToken(t *testing.T, email string) string {
	t.Helper()
	_, err := testDB.SetUser(&db.User{
		Email:     email,
		Password:  internal.HexHashPassword(passwordSalt, testPass),
		FirstName: "admin",
		LastName:  "user",
		Role:      db.AdminRole,
		Verified:  true,
	})
	if err != nil {
		t.Fatalf("could not create admin user: %v", err)
	}
	resp, code := testRequest(t, http.MethodPost, "", &apicommon.UserInfo{
		Email:    email,
		Password: testPass,
	}, authLoginEndpoint)
	if code != http.StatusOK {
		t.Fatalf("unexpected admin login status: %d", code)
	}
	loginResp := &apicommon.LoginResponse{}
	if err := json.Unmarshal(resp, loginResp); err != nil {
		t.Fatalf("could not decode login response: %v", err)
	}
	return loginResp.Token
}

func TestRegisterHandler(t *testing.T) {
	c := qt.New(t)

	// invalid body
	resp, code := testRequest(t, http.MethodPost, "", "invalid body", usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp, qt.JSONEquals, errors.ErrMalformedBody)

	// valid registration
	userInfo := &apicommon.UserInfo{
		Email:     "register@test.com",
		Password:  testPass,
		FirstName: testFirstName,
		LastName:  testLastName,
	}
	_, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)

	// duplicate email
	resp, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusConflict)
	c.Assert(resp, qt.JSONEquals, errors.ErrDuplicateConflict.With("email already registered"))

	// empty last name
	userInfo.Email = "register2@test.com"
	userInfo.LastName = ""
	resp, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp, qt.JSONEquals, errors.ErrMalformedBody.Withf("last name is empty"))

	// empty first name
	userInfo.LastName = testLastName
	userInfo.FirstName = ""
	resp, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp, qt.JSONEquals, errors.ErrMalformedBody.Withf("first name is empty"))

	// invalid email
	userInfo.FirstName = testFirstName
	userInfo.Email = "invalid"
	resp, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp, qt.JSONEquals, errors.ErrEmailMalformed)

	// short password
	userInfo.Email = "register2@test.com"
	userInfo.Password = "short"
	resp, code = testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusBadRequest)
	c.Assert(resp, qt.JSONEquals, errors.ErrPasswordTooShort)
}

func TestVerifyAndLogin(t *testing.T) {
	c := qt.New(t)

	userInfo := &apicommon.UserInfo{
		Email:     testEmail,
		Password:  testPass,
		FirstName: testFirstName,
		LastName:  testLastName,
	}
	_, code := testRequest(t, http.MethodPost, "", userInfo, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)

	// login before verification is rejected
	resp, code := testRequest(t, http.MethodPost, "", userInfo, authLoginEndpoint)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)
	c.Assert(resp, qt.JSONEquals, errors.ErrUserNoVerified)

	// wrong verification code is rejected
	resp, code = testRequest(t, http.MethodPost, "", &apicommon.UserVerification{
		Email: testEmail,
		Code:  "bad-code",
	}, verifyUserEndpoint)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)
	c.Assert(resp, qt.JSONEquals, errors.ErrUnauthorized)

	// valid verification returns a token
	resp, code = testRequest(t, http.MethodPost, "", &apicommon.UserVerification{
		Email: testEmail,
	}, verifyUserEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	verifyLogin := &apicommon.LoginResponse{}
	c.Assert(json.Unmarshal(resp, verifyLogin), qt.IsNil)
	c.Assert(verifyLogin.Token, qt.Not(qt.Equals), "")

	// wrong password is rejected
	resp, code = testRequest(t, http.MethodPost, "", &apicommon.UserInfo{
		Email:    testEmail,
		Password: "wrong-password",
	}, authLoginEndpoint)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)
	c.Assert(resp, qt.JSONEquals, errors.ErrUnauthorized)

	// valid login returns a token
	resp, code = testRequest(t, http.MethodPost, "", userInfo, authLoginEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	loginResp := &apicommon.LoginResponse{}
	c.Assert(json.Unmarshal(resp, loginResp), qt.IsNil)

	// the token grants access to the user profile
	resp, code = testRequest(t, http.MethodGet, loginResp.Token, nil, usersMeEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	me := &apicommon.UserInfo{}
	c.Assert(json.Unmarshal(resp, me), qt.IsNil)
	c.Assert(me.Email, qt.Equals, testEmail)
	c.Assert(me.Verified, qt.IsTrue)
	c.Assert(me.Password, qt.Equals, "")

	// requests without a token are rejected
	_, code = testRequest(t, http.MethodGet, "", nil, usersMeEndpoint)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)
}

func TestUpdateUserInfo(t *testing.T) {
	c := qt.New(t)
	token := registerAndLogin(t, "update@test.com")

	resp, code := testRequest(t, http.MethodPut, token, &apicommon.UserInfo{
		FirstName: "updated",
		Phone:     "+34678909090",
	}, usersMeEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	// the update returns a fresh token
	loginResp := &apicommon.LoginResponse{}
	c.Assert(json.Unmarshal(resp, loginResp), qt.IsNil)

	resp, code = testRequest(t, http.MethodGet, loginResp.Token, nil, usersMeEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	me := &apicommon.UserInfo{}
	c.Assert(json.Unmarshal(resp, me), qt.IsNil)
	c.Assert(me.FirstName, qt.Equals, "updated")
	c.Assert(me.Phone, qt.Equals, "+34678909090")
	c.Assert(me.LastName, qt.Equals, testLastName)
}

func TestAdminUserManagement(t *testing.T) {
	c := qt.New(t)
	memberToken := registerAndLogin(t, "managed@test.com")
	admin := adminToken(t, "admin@test.com")

	// members cannot list users
	resp, code := testRequest(t, http.MethodGet, memberToken, nil, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusUnauthorized)
	c.Assert(resp, qt.JSONEquals, errors.ErrUnauthorized.Withf("admin role required"))

	// admins list members
	resp, code = testRequest(t, http.MethodGet, admin, nil, usersEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	list := &apicommon.UserList{}
	c.Assert(json.Unmarshal(resp, list), qt.IsNil)
	found := false
	for _, u := range list.Users {
		if u.Email == "managed@test.com" {
			found = true
		}
	}
	c.Assert(found, qt.IsTrue)

	// promote the member to trainer
	managed, err := testDB.UserByEmail("managed@test.com")
	c.Assert(err, qt.IsNil)
	_, code = testRequest(t, http.MethodPut, admin, &apicommon.UserInfo{
		Role: db.TrainerRole,
	}, usersEndpoint, strconv.FormatUint(managed.ID, 10))
	c.Assert(code, qt.Equals, http.StatusOK)
	managed, err = testDB.UserByEmail("managed@test.com")
	c.Assert(err, qt.IsNil)
	c.Assert(managed.Role, qt.Equals, db.TrainerRole)

	// the trainer listing now contains the promoted user
	resp, code = testRequest(t, http.MethodGet, memberToken, nil, trainersEndpoint)
	c.Assert(code, qt.Equals, http.StatusOK)
	trainerList := &apicommon.UserList{}
	c.Assert(json.Unmarshal(resp, trainerList), qt.IsNil)
	c.Assert(len(trainerList.Users) > 0, qt.IsTrue)
}
