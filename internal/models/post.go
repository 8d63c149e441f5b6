package models

// Post is the persisted blog post entity. UserName and UserEmail are
// display-only attributes filled in from the user service on reads; they are
// never written to the database.
type Post struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Title     string `gorm:"type:varchar(255);not null" json:"title"`
	Content   string `gorm:"type:text;not null" json:"content"`
	UserID    int    `gorm:"index;not null" json:"userId"`
	Approved  bool   `gorm:"not null;default:false" json:"approved"`
	UserName  string `gorm:"-" json:"userName,omitempty"`
	UserEmail string `gorm:"-" json:"userEmail,omitempty"`
}
