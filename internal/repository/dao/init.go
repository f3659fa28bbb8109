package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&PilgrimProfile{},
		&Activity{},
		&ActivityParticipant{},
		&ChatMessage{},
		&Rating{},
		&Donation{},
		&PushSubscription{},
		&Invite{},
		&InviteRedemption{},
		&Block{},
		&Report{},
	)
}
