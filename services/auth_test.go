package services

import (
	"testing"
	"time"

	"attendance_tracker_go/models"

	"github.com/stretchr/testify/assert"
)

func TestPasswordHashing(t *testing.T) {
	password := "SecretPass123!"

	hash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	assert.True(t, VerifyPassword(hash, password))
	assert.False(t, VerifyPassword(hash, "WrongPass"))
}

func TestSessionLifecycle(t *testing.T) {
	db := setupServiceTestDB(t)
	user := models.User{Name: "Test Teacher", Email: "t@example.com", Password: "x", IsActive: true}
	assert.NoError(t, db.Create(&user).Error)

	// 1. Create Session
	session, err := CreateSession(db, user.ID, "127.0.0.1", "TestAgent")
	assert.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Len(t, session.Token, SessionTokenLength*2)
	assert.Equal(t, user.ID, session.UserID)
	assert.WithinDuration(t, time.Now().Add(DefaultSessionDuration), session.ExpiresAt, 10*time.Second)

	// 2. Validate Session (Valid)
	validSession, err := ValidateSession(db, session.Token)
	assert.NoError(t, err)
	assert.Equal(t, session.ID, validSession.ID)
	assert.Equal(t, "t@example.com", validSession.User.Email)

	// 3. Validate Session (Invalid Token)
	invalidSession, err := ValidateSession(db, "invalid-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Nil(t, invalidSession)

	// 4. Delete Session
	assert.NoError(t, DeleteSession(db, session.Token))

	// 5. Validate Deleted Session
	deletedSession, err := ValidateSession(db, session.Token)
	assert.Error(t, err)
	assert.Nil(t, deletedSession)
}

func TestSessionExpiry(t *testing.T) {
	db := setupServiceTestDB(t)

	token := "expired-token"
	db.Create(&models.Session{
		ID:        "sess-expired",
		UserID:    "user-exp",
		Token:     token,
		ExpiresAt: time.Now().Add(-1 * time.Hour),
	})

	// Should return error and delete the session
	sess, err := ValidateSession(db, token)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Nil(t, sess)

	var count int64
	db.Model(&models.Session{}).Where("token = ?", token).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestCleanupExpiredSessions(t *testing.T) {
	db := setupServiceTestDB(t)

	db.Create(&models.Session{ID: "sess-valid", Token: "valid", ExpiresAt: time.Now().Add(1 * time.Hour)})
	db.Create(&models.Session{ID: "sess-expired-1", Token: "exp1", ExpiresAt: time.Now().Add(-1 * time.Hour)})
	db.Create(&models.Session{ID: "sess-expired-2", Token: "exp2", ExpiresAt: time.Now().Add(-2 * time.Hour)})

	assert.NoError(t, CleanupExpiredSessions(db))

	var count int64
	db.Model(&models.Session{}).Count(&count)
	assert.Equal(t, int64(1), count)

	var remaining models.Session
	db.First(&remaining)
	assert.Equal(t, "sess-valid", remaining.ID)
}

func TestDeleteAllUserSessions(t *testing.T) {
	db := setupServiceTestDB(t)

	db.Create(&models.Session{ID: "s1", UserID: "target-user", Token: "t1"})
	db.Create(&models.Session{ID: "s2", UserID: "target-user", Token: "t2"})
	db.Create(&models.Session{ID: "s3", UserID: "other-user", Token: "t3"})

	assert.NoError(t, DeleteAllUserSessions(db, "target-user"))

	var count int64
	db.Model(&models.Session{}).Where("user_id = ?", "target-user").Count(&count)
	assert.Equal(t, int64(0), count)

	db.Model(&models.Session{}).Where("user_id = ?", "other-user").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestAuthenticate(t *testing.T) {
	db := setupServiceTestDB(t)
	hash, err := HashPassword("correct-horse")
	assert.NoError(t, err)
	user := models.User{Name: "Test Teacher", Email: "teacher@example.com", Password: hash, IsActive: true}
	assert.NoError(t, db.Create(&user).Error)

	t.Run("Success", func(t *testing.T) {
		got, err := Authenticate(db, "teacher@example.com", "correct-horse")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
		assert.NotNil(t, got.LastLoginAt)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := Authenticate(db, "nobody@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("LocksAfterRepeatedFailures", func(t *testing.T) {
		for i := 0; i < MaxFailedLogins; i++ {
			_, err := Authenticate(db, "teacher@example.com", "wrong")
			assert.ErrorIs(t, err, ErrInvalidCredentials)
		}

		// Even the right password is refused while locked
		_, err := Authenticate(db, "teacher@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrAccountLocked)

		var stored models.User
		db.First(&stored, "id = ?", user.ID)
		assert.True(t, stored.IsLockedOut(time.Now()))
	})

	t.Run("Inactive", func(t *testing.T) {
		inactive := models.User{Name: "Old", Email: "old@example.com", Password: hash, IsActive: true}
		db.Create(&inactive)
		db.Model(&inactive).Update("is_active", false)

		_, err := Authenticate(db, "old@example.com", "correct-horse")
		assert.ErrorIs(t, err, ErrAccountInactive)
	})
}
