package domain

import "time"

type Folder struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"userId" gorm:"index;not null"`
	Name      string    `json:"name" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

// FolderDocument links a document into a folder. Memberships are removed
// when the document is trashed and are not recreated on restore.
type FolderDocument struct {
	FolderID   uint `json:"folderId" gorm:"primaryKey;autoIncrement:false"`
	DocumentID uint `json:"documentId" gorm:"primaryKey;autoIncrement:false"`
}
