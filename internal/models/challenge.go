package models

// Challenge represents a savings goal with a deadline.
//
// Amount is the total saved so far in cents; it starts at zero and may
// exceed TotalAmount (there is no cap and no terminal state). Deadline is
// a Y-M-D string kept alongside its decomposed parts; whether it has
// passed is computed at read time, never persisted.
type Challenge struct {
	Base
	UserID      string `gorm:"type:uuid;not null;uniqueIndex:idx_challenges_user_name" json:"user_id"`
	Name        string `gorm:"not null;uniqueIndex:idx_challenges_user_name" json:"name"`
	Amount      int64  `gorm:"type:bigint;not null;default:0" json:"amount"`
	TotalAmount int64  `gorm:"type:bigint;not null" json:"total_amount"`
	Deadline    string `gorm:"not null" json:"deadline"`
	Year        int    `gorm:"not null" json:"year"`
	Month       int    `gorm:"not null" json:"month"`
	Day         int    `gorm:"not null" json:"day"`
}

// Progress returns the saved/goal ratio, clamped only at the lower bound.
// Values above 1 are meaningful: the goal has been exceeded.
func (c *Challenge) Progress() float64 {
	if c.TotalAmount <= 0 {
		return 0
	}
	return float64(c.Amount) / float64(c.TotalAmount)
}
