package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Relations are plain id columns: the storage adapter owns referential
// checks and cascades, the schema has no foreign keys.

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"not null;default:user"`
	CreatedAt    time.Time `gorm:"index"`
	UpdatedAt    time.Time
}

type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"not null"`
	Description string    `gorm:"not null"`
	Price       int64     `gorm:"not null;check:price > 0"`
	Image       string    `gorm:"not null"`
	CategoryID  uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt   time.Time `gorm:"index"`
	UpdatedAt   time.Time
}

type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"`
	Quantity  int       `gorm:"not null;check:quantity > 0"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (CartItem) TableName() string { return "cart_items" }

func (u *User) BeforeCreate(*gorm.DB) error     { u.ID = ensureID(u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error  { p.ID = ensureID(p.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error { c.ID = ensureID(c.ID); return nil }

func ensureID(id uuid.UUID) uuid.UUID {
	if id == uuid.Nil {
		return uuid.New()
	}
	return id
}

// All lists every table the storage adapter manages, in migration order.
func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &CartItem{}}
}
