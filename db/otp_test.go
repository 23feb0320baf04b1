package db

import (
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestOTPSessionReplace(t *testing.T) {
	c := qt.New(t)
	userID := testUser(t, "otp-replace@example.com")

	c.Assert(testDB.SetOTPSession(&OTPSession{
		UserID:     userID,
		Email:      "otp-replace@example.com",
		Code:       "111111",
		Expiration: time.Now().Add(5 * time.Minute),
	}), qt.IsNil)

	// issuing a second code replaces the first, a user never holds two
	c.Assert(testDB.SetOTPSession(&OTPSession{
		UserID:     userID,
		Email:      "otp-replace@example.com",
		Code:       "222222",
		Expiration: time.Now().Add(5 * time.Minute),
	}), qt.IsNil)

	session, err := testDB.OTPSessionByUser(userID)
	c.Assert(err, qt.IsNil)
	c.Assert(session.Code, qt.Equals, "222222")
}

func TestOTPSessionDelete(t *testing.T) {
	c := qt.New(t)
	userID := testUser(t, "otp-delete@example.com")

	c.Assert(testDB.SetOTPSession(&OTPSession{
		UserID:     userID,
		Email:      "otp-delete@example.com",
		Code:       "123456",
		Expiration: time.Now().Add(5 * time.Minute),
	}), qt.IsNil)
	c.Assert(testDB.DelOTPSession(userID), qt.IsNil)
	_, err := testDB.OTPSessionByUser(userID)
	c.Assert(err, qt.Equals, ErrNotFound)

	// deleting a missing session is not an error
	c.Assert(testDB.DelOTPSession(userID), qt.IsNil)
}

func TestOTPSessionInvalidData(t *testing.T) {
	c := qt.New(t)
	c.Assert(testDB.SetOTPSession(&OTPSession{UserID: 0, Code: "123456"}), qt.Equals, ErrInvalidData)
	c.Assert(testDB.SetOTPSession(&OTPSession{UserID: 1, Code: ""}), qt.Equals, ErrInvalidData)
}
