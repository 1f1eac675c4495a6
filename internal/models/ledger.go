package models

import (
	"time"
)

// LedgerKind names one of the independent user relations.
type LedgerKind string

const (
	LedgerFavorite     LedgerKind = "favorite"
	LedgerCart         LedgerKind = "cart"
	LedgerSubscription LedgerKind = "subscription"
)

// LedgerEntry is the common shape of a favorite, cart or subscription row.
type LedgerEntry struct {
	ID        uint       `json:"id"`
	Kind      LedgerKind `json:"kind"`
	UserID    uint       `json:"user_id"`
	TargetID  uint       `json:"target_id"`
	CreatedAt time.Time  `json:"created_at"`
}

// Favorite marks a recipe as favorited by a user.
type Favorite struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Favorite) TableName() string {
	return "favorites"
}

func (f *Favorite) Entry() LedgerEntry {
	return LedgerEntry{ID: f.ID, Kind: LedgerFavorite, UserID: f.UserID, TargetID: f.RecipeID, CreatedAt: f.CreatedAt}
}

// CartItem puts a recipe in a user's shopping cart.
type CartItem struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	User      User   `gorm:"constraint:OnDelete:CASCADE"`
	RecipeID  uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	Recipe    Recipe `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (c *CartItem) Entry() LedgerEntry {
	return LedgerEntry{ID: c.ID, Kind: LedgerCart, UserID: c.UserID, TargetID: c.RecipeID, CreatedAt: c.CreatedAt}
}

// Subscription makes a user follow an author. Author and user must differ.
type Subscription struct {
	ID        uint `gorm:"primaryKey"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	User      User `gorm:"constraint:OnDelete:CASCADE"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	Author    User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) Entry() LedgerEntry {
	return LedgerEntry{ID: s.ID, Kind: LedgerSubscription, UserID: s.UserID, TargetID: s.AuthorID, CreatedAt: s.CreatedAt}
}
