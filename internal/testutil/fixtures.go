package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"

	"thrift/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password, a unique email,
// and a nil (never computed) balance.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestUserWithBalance creates a user whose balance is already
// initialized to the given amount in cents.
func CreateTestUserWithBalance(t *testing.T, db *gorm.DB, balance int64) *models.User {
	t.Helper()

	user := CreateTestUser(t, db)
	if err := db.Model(user).Update("balance", balance).Error; err != nil {
		t.Fatalf("failed to set test user balance: %v", err)
	}
	user.Balance = &balance
	return user
}

// CreateTestEntry creates an entry with a unique name on the given date.
func CreateTestEntry(t *testing.T, db *gorm.DB, userID string, kind models.EntryKind, amount int64, year, month, day int, category string) *models.Entry {
	t.Helper()

	entry := &models.Entry{
		UserID:      userID,
		Kind:        kind,
		Name:        fmt.Sprintf("entry-%d", nextID()),
		Amount:      amount,
		Year:        year,
		Month:       month,
		Day:         day,
		Category:    category,
		Description: "test entry",
	}
	if err := db.Create(entry).Error; err != nil {
		t.Fatalf("failed to create test entry: %v", err)
	}
	return entry
}

// CreateTestChallenge creates a challenge with a unique name.
func CreateTestChallenge(t *testing.T, db *gorm.DB, userID string, totalAmount int64, year, month, day int) *models.Challenge {
	t.Helper()

	challenge := &models.Challenge{
		UserID:      userID,
		Name:        fmt.Sprintf("challenge-%d", nextID()),
		TotalAmount: totalAmount,
		Deadline:    fmt.Sprintf("%d-%d-%d", year, month, day),
		Year:        year,
		Month:       month,
		Day:         day,
	}
	if err := db.Create(challenge).Error; err != nil {
		t.Fatalf("failed to create test challenge: %v", err)
	}
	return challenge
}
