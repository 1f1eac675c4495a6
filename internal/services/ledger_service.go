package services

import (
	"context"
	"errors"

	"github.com/franciscosanchezn/gin-foodgram-api/internal/metrics"
	"github.com/franciscosanchezn/gin-foodgram-api/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService records favorites, cart items and subscriptions. The three
// kinds share a shape but live in separate tables.
type LedgerService interface {
	Add(ctx context.Context, kind models.LedgerKind, userID, targetID uint) (models.LedgerEntry, error)
	Remove(ctx context.Context, kind models.LedgerKind, userID, targetID uint) error
	Has(ctx context.Context, kind models.LedgerKind, userID, targetID uint) (bool, error)
	// FlagsFor computes the viewer-dependent flags for a batch of recipes.
	FlagsFor(ctx context.Context, viewerID uint, recipes []models.Recipe) (map[uint]models.ViewerFlags, error)
	// SubscribedTo reports which of authorIDs the user follows.
	SubscribedTo(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
}

type ledgerRow interface {
	Entry() models.LedgerEntry
}

// ledgerTable describes how one kind is stored.
type ledgerTable struct {
	newRow       func(userID, targetID uint) ledgerRow
	targetColumn string
	// targetModel returns a model of the table the target id must exist in
	targetModel   func() interface{}
	targetName    string
	conflictField string
	conflictMsg   string
}

var ledgerTables = map[models.LedgerKind]ledgerTable{
	models.LedgerFavorite: {
		newRow: func(userID, targetID uint) ledgerRow {
			return &models.Favorite{UserID: userID, RecipeID: targetID}
		},
		targetColumn:  "recipe_id",
		targetModel:   func() interface{} { return &models.Recipe{} },
		targetName:    "recipe",
		conflictField: "recipe",
		conflictMsg:   "recipe is already in favorites",
	},
	models.LedgerCart: {
		newRow: func(userID, targetID uint) ledgerRow {
			return &models.CartItem{UserID: userID, RecipeID: targetID}
		},
		targetColumn:  "recipe_id",
		targetModel:   func() interface{} { return &models.Recipe{} },
		targetName:    "recipe",
		conflictField: "recipe",
		conflictMsg:   "recipe is already in the shopping cart",
	},
	models.LedgerSubscription: {
		newRow: func(userID, targetID uint) ledgerRow {
			return &models.Subscription{UserID: userID, AuthorID: targetID}
		},
		targetColumn:  "author_id",
		targetModel:   func() interface{} { return &models.User{} },
		targetName:    "user",
		conflictField: "author",
		conflictMsg:   "already subscribed to this author",
	},
}

type ledgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) LedgerService {
	return &ledgerService{db: db}
}

func lookupTable(kind models.LedgerKind) (ledgerTable, error) {
	table, ok := ledgerTables[kind]
	if !ok {
		return ledgerTable{}, models.NewValidationError("kind", "unknown relation kind "+string(kind))
	}
	return table, nil
}

// Add inserts the (user, target) pair. Uniqueness is enforced by the
// table's unique index: of two concurrent adds exactly one succeeds and the
// other reports a conflict.
func (s *ledgerService) Add(ctx context.Context, kind models.LedgerKind, userID, targetID uint) (models.LedgerEntry, error) {
	entry, err := s.add(ctx, kind, userID, targetID)
	metrics.RecordLedgerOperation(string(kind), "add", resultLabel(err))
	return entry, err
}

func (s *ledgerService) add(ctx context.Context, kind models.LedgerKind, userID, targetID uint) (models.LedgerEntry, error) {
	table, err := lookupTable(kind)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	if kind == models.LedgerSubscription && userID == targetID {
		return models.LedgerEntry{}, models.NewValidationError("author", "you cannot subscribe to yourself")
	}

	db := s.db.WithContext(ctx)

	var exists int64
	if err := db.Model(table.targetModel()).Where("id = ?", targetID).Count(&exists).Error; err != nil {
		return models.LedgerEntry{}, translateError(err, table.targetName, "", "")
	}
	if exists == 0 {
		return models.LedgerEntry{}, models.NewNotFoundError(table.targetName)
	}

	row := table.newRow(userID, targetID)
	if err := db.Omit(clause.Associations).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// target deleted between the existence check and the insert
			return models.LedgerEntry{}, models.NewNotFoundError(table.targetName)
		}
		return models.LedgerEntry{}, translateError(err, table.targetName, table.conflictField, table.conflictMsg)
	}

	entry := row.Entry()
	log.WithFields(logrus.Fields{
		"kind":      kind,
		"user_id":   userID,
		"target_id": targetID,
	}).Debug("Ledger entry added")
	return entry, nil
}

// Remove deletes the (user, target) pair; an absent pair is NotFound.
func (s *ledgerService) Remove(ctx context.Context, kind models.LedgerKind, userID, targetID uint) error {
	err := s.remove(ctx, kind, userID, targetID)
	metrics.RecordLedgerOperation(string(kind), "remove", resultLabel(err))
	return err
}

func (s *ledgerService) remove(ctx context.Context, kind models.LedgerKind, userID, targetID uint) error {
	table, err := lookupTable(kind)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("user_id = ? AND "+table.targetColumn+" = ?", userID, targetID).
		Delete(table.newRow(0, 0))
	if result.Error != nil {
		return translateError(result.Error, string(kind), "", "")
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError(string(kind))
	}

	log.WithFields(logrus.Fields{
		"kind":      kind,
		"user_id":   userID,
		"target_id": targetID,
	}).Debug("Ledger entry removed")
	return nil
}

func (s *ledgerService) Has(ctx context.Context, kind models.LedgerKind, userID, targetID uint) (bool, error) {
	table, err := lookupTable(kind)
	if err != nil {
		return false, err
	}

	var count int64
	err = s.db.WithContext(ctx).
		Model(table.newRow(0, 0)).
		Where("user_id = ? AND "+table.targetColumn+" = ?", userID, targetID).
		Count(&count).Error
	if err != nil {
		return false, translateError(err, string(kind), "", "")
	}
	return count > 0, nil
}

func (s *ledgerService) FlagsFor(ctx context.Context, viewerID uint, recipes []models.Recipe) (map[uint]models.ViewerFlags, error) {
	flags := make(map[uint]models.ViewerFlags, len(recipes))
	if len(recipes) == 0 {
		return flags, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	var authorIDs []uint
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		if r.AuthorID != nil {
			authorIDs = append(authorIDs, *r.AuthorID)
		}
	}

	db := s.db.WithContext(ctx)

	var favorited []uint
	if err := db.Model(&models.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, translateError(err, "favorite", "", "")
	}

	var inCart []uint
	if err := db.Model(&models.CartItem{}).
		Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return nil, translateError(err, "cart", "", "")
	}

	subscribed, err := s.SubscribedTo(ctx, viewerID, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		f := models.ViewerFlags{}
		if r.AuthorID != nil {
			f.AuthorSubscribed = subscribed[*r.AuthorID]
		}
		flags[r.ID] = f
	}
	for _, id := range favorited {
		f := flags[id]
		f.IsFavorited = true
		flags[id] = f
	}
	for _, id := range inCart {
		f := flags[id]
		f.IsInShoppingCart = true
		flags[id] = f
	}
	return flags, nil
}

func (s *ledgerService) SubscribedTo(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	subscribed := make(map[uint]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return subscribed, nil
	}

	var followed []uint
	if err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &followed).Error; err != nil {
		return nil, translateError(err, "subscription", "", "")
	}
	for _, id := range followed {
		subscribed[id] = true
	}
	return subscribed, nil
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return models.AsDomainError(err).Kind
}
