package actor

import "gorm.io/gorm"

// OwnedBy returns a GORM scope that filters rows by the owning actor.
// Rows carry the user_id XOR session_token pair; anonymous rows have a
// null user_id so a stale session token can never shadow a user's row.
func OwnedBy(a Actor) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if a.IsIdentified() {
			return db.Where("user_id = ?", a.UserID())
		}
		return db.Where("user_id IS NULL AND session_token = ?", a.sessionToken)
	}
}
