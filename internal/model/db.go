package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Song{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&SongVersion{}); err != nil {
		return err
	}

	return nil
}
