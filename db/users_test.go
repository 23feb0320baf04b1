package db

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestUserCRUD(t *testing.T) {
	c := qt.New(t)
	id := testUser(t, "crud@example.com")
	c.Assert(id, qt.Not(qt.Equals), uint64(0))

	// fetch by ID and by email
	user, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user.Email, qt.Equals, "crud@example.com")
	c.Assert(user.Role, qt.Equals, MemberRole)
	c.Assert(user.Verified, qt.IsFalse)

	byEmail, err := testDB.UserByEmail("crud@example.com")
	c.Assert(err, qt.IsNil)
	c.Assert(byEmail.ID, qt.Equals, id)

	// update
	user.FirstName = "Updated"
	_, err = testDB.SetUser(user)
	c.Assert(err, qt.IsNil)
	updated, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(updated.FirstName, qt.Equals, "Updated")

	// delete
	c.Assert(testDB.DelUser(user), qt.IsNil)
	_, err = testDB.User(id)
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestUserDuplicateEmail(t *testing.T) {
	c := qt.New(t)
	testUser(t, "dup@example.com")
	_, err := testDB.SetUser(&User{
		Email:     "dup@example.com",
		Password:  testDBUserPass,
		FirstName: testDBFirstName,
		LastName:  testDBLastName,
	})
	c.Assert(err, qt.Equals, ErrAlreadyExists)
}

func TestUserNotFound(t *testing.T) {
	c := qt.New(t)
	_, err := testDB.User(999999)
	c.Assert(err, qt.Equals, ErrNotFound)
	_, err = testDB.UserByEmail("nobody@example.com")
	c.Assert(err, qt.Equals, ErrNotFound)
}

func TestVerifyUserAccount(t *testing.T) {
	c := qt.New(t)
	id := testUser(t, "verify@example.com")
	user, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(user.Verified, qt.IsFalse)

	c.Assert(testDB.VerifyUserAccount(user), qt.IsNil)
	verified, err := testDB.User(id)
	c.Assert(err, qt.IsNil)
	c.Assert(verified.Verified, qt.IsTrue)
}

func TestUsersByRole(t *testing.T) {
	c := qt.New(t)
	trainerID, err := testDB.SetUser(&User{
		Email:     "trainer-role@example.com",
		Password:  testDBUserPass,
		FirstName: "Trainer",
		LastName:  "Role",
		Role:      TrainerRole,
	})
	c.Assert(err, qt.IsNil)

	trainers, err := testDB.UsersByRole(TrainerRole)
	c.Assert(err, qt.IsNil)
	found := false
	for _, trainer := range trainers {
		c.Assert(trainer.Role, qt.Equals, TrainerRole)
		if trainer.ID == trainerID {
			found = true
		}
	}
	c.Assert(found, qt.IsTrue)
}
