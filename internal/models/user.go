package models

// User represents the user model in the database.
//
// Balance is the user's net cash position in cents. It is nullable on
// purpose: nil means the balance has never been computed for this account,
// which is distinct from a balance of zero. The ledger service initializes
// it once, from the full entry collections, on first encounter.
type User struct {
	Base
	Email      string      `gorm:"uniqueIndex;not null" json:"email"`
	Password   string      `gorm:"not null" json:"-"`
	Balance    *int64      `json:"balance,omitempty"`
	Entries    []Entry     `gorm:"foreignKey:UserID" json:"entries,omitempty"`
	Challenges []Challenge `gorm:"foreignKey:UserID" json:"challenges,omitempty"`
}
