// repositories/mongo_store.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/motoventas/crm_backend/models"
)

// MongoStore is the MongoDB implementation of services.Store. The sale
// path and the batch writes run inside multi-document transactions; the
// driver's transaction isolation is the only synchronization: callers
// race and the loser's conditional update matches nothing.
type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) inventory() *mongo.Collection { return s.db.Collection("inventory") }
func (s *MongoStore) sales() *mongo.Collection     { return s.db.Collection("sales") }
func (s *MongoStore) users() *mongo.Collection     { return s.db.Collection("users") }

// InventoryItem reads one model's ledger entry.
func (s *MongoStore) InventoryItem(ctx context.Context, id primitive.ObjectID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	if err := s.inventory().FindOne(ctx, bson.M{"_id": id}).Decode(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

// InsertSale records a special-order sale; inventory is not touched.
func (s *MongoStore) InsertSale(ctx context.Context, sale *models.Sale) error {
	_, err := s.sales().InsertOne(ctx, sale)
	return err
}

// SellUnit pulls the sku, decrements stock and inserts the sale in one
// transaction. The update is filtered on sku presence, so a unit that was
// already sold matches no document and the whole transaction aborts with
// models.ErrSKUNotFound.
func (s *MongoStore) SellUnit(ctx context.Context, sale *models.Sale) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if err := s.pullSKU(sc, sale.MotorcycleID, sale.SoldSKU); err != nil {
			return err
		}
		_, err := s.sales().InsertOne(sc, sale)
		return err
	})
}

// DeleteSale removes a sale; a consumed unit goes back on the shelf in the
// same transaction.
func (s *MongoStore) DeleteSale(ctx context.Context, id primitive.ObjectID) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		var sale models.Sale
		if err := s.sales().FindOne(sc, bson.M{"_id": id}).Decode(&sale); err != nil {
			return err
		}
		if sale.Notes == "" && sale.SoldSKU != "" {
			if err := s.pushSKU(sc, sale.MotorcycleID, sale.SoldSKU); err != nil {
				return err
			}
		}
		_, err := s.sales().DeleteOne(sc, bson.M{"_id": id})
		return err
	})
}

// ReplaceSaleUnit rewrites an edited sale, returning the previous unit and
// consuming the new one atomically.
func (s *MongoStore) ReplaceSaleUnit(ctx context.Context, sale *models.Sale, prevItemID primitive.ObjectID, prevSKU string) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		if prevSKU != "" {
			if err := s.pushSKU(sc, prevItemID, prevSKU); err != nil {
				return err
			}
		}
		if sale.Notes == "" && sale.SoldSKU != "" {
			if err := s.pullSKU(sc, sale.MotorcycleID, sale.SoldSKU); err != nil {
				return err
			}
		}
		_, err := s.sales().ReplaceOne(sc, bson.M{"_id": sale.ID}, sale)
		return err
	})
}

func (s *MongoStore) Sale(ctx context.Context, id primitive.ObjectID) (*models.Sale, error) {
	var sale models.Sale
	if err := s.sales().FindOne(ctx, bson.M{"_id": id}).Decode(&sale); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *MongoStore) SalesBySprint(ctx context.Context, sprint string) ([]models.Sale, error) {
	return s.findSales(ctx, bson.M{"sprint": sprint})
}

func (s *MongoStore) AllSales(ctx context.Context) ([]models.Sale, error) {
	return s.findSales(ctx, bson.M{})
}

func (s *MongoStore) findSales(ctx context.Context, filter bson.M) ([]models.Sale, error) {
	cursor, err := s.sales().Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sales []models.Sale
	if err := cursor.All(ctx, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// MergeInventoryUnits folds extracted delivery-note rows into inventory in
// one transaction. Each write moves stock together with the sku set, so a
// partial or interrupted merge can never leave a model whose stock count
// disagrees with its unit list. Upserts are avoided on purpose: an upsert
// filtered on sku absence would try to insert a second document for an
// existing model and trip the unique model index, aborting the batch.
func (s *MongoStore) MergeInventoryUnits(ctx context.Context, units []models.ExtractedUnit) (int, error) {
	added := 0
	err := s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		added = 0 // the driver may retry the whole transaction
		now := time.Now()
		for _, unit := range units {
			if unit.Model == "" || unit.SKU == "" {
				continue
			}
			res, err := s.inventory().UpdateOne(sc,
				bson.M{"model": unit.Model, "skus": bson.M{"$ne": unit.SKU}},
				bson.M{
					"$push": bson.M{"skus": unit.SKU},
					"$inc":  bson.M{"stock": 1},
					"$set":  bson.M{"updatedAt": now},
				},
			)
			if err != nil {
				return err
			}
			if res.MatchedCount > 0 {
				added++
				continue
			}
			// Either the model already holds this sku, or it does not
			// exist at all. Only the latter needs an insert.
			count, err := s.inventory().CountDocuments(sc, bson.M{"model": unit.Model})
			if err != nil {
				return err
			}
			if count > 0 {
				continue
			}
			item := models.InventoryItem{
				ID:        primitive.NewObjectID(),
				Model:     unit.Model,
				Stock:     1,
				SKUs:      []string{unit.SKU},
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := s.inventory().InsertOne(sc, item); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return added, nil
}

// ListSalespeople returns active salesperson profiles.
func (s *MongoStore) ListSalespeople(ctx context.Context) ([]models.User, error) {
	cursor, err := s.users().Find(ctx, bson.M{"role": models.RoleSalesperson, "isActive": true})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var people []models.User
	if err := cursor.All(ctx, &people); err != nil {
		return nil, err
	}
	return people, nil
}

// UpdateGoals writes every goal pair inside one transaction; any failure
// rolls the whole batch back.
func (s *MongoStore) UpdateGoals(ctx context.Context, updates []models.GoalUpdate) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		for _, u := range updates {
			res, err := s.users().UpdateOne(sc,
				bson.M{"_id": u.UserID},
				bson.M{"$set": bson.M{
					"salesGoal":   u.SalesGoal,
					"creditsGoal": u.CreditsGoal,
					"updatedAt":   now,
				}},
			)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return mongo.ErrNoDocuments
			}
		}
		return nil
	})
}

// UpdateSaleAmounts rewrites amounts inside one transaction; all or nothing.
func (s *MongoStore) UpdateSaleAmounts(ctx context.Context, updates []models.SaleAmountUpdate) error {
	return s.withTransaction(ctx, func(sc mongo.SessionContext) error {
		for _, u := range updates {
			res, err := s.sales().UpdateOne(sc,
				bson.M{"_id": u.SaleID},
				bson.M{"$set": bson.M{"amount": u.NewAmount}},
			)
			if err != nil {
				return err
			}
			if res.MatchedCount == 0 {
				return mongo.ErrNoDocuments
			}
		}
		return nil
	})
}

// pullSKU removes one unit from a model, conditional on the sku still being
// present. No match means the unit is gone: ErrSKUNotFound.
func (s *MongoStore) pullSKU(sc mongo.SessionContext, itemID primitive.ObjectID, sku string) error {
	res, err := s.inventory().UpdateOne(sc,
		bson.M{"_id": itemID, "skus": sku},
		bson.M{
			"$pull": bson.M{"skus": sku},
			"$inc":  bson.M{"stock": -1},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrSKUNotFound
	}
	return nil
}

// pushSKU returns a unit to a model's shelf. Filtering on the sku being
// absent keeps the restock idempotent: a unit that is already back (or a
// model that was deleted) matches nothing and nothing changes.
func (s *MongoStore) pushSKU(sc mongo.SessionContext, itemID primitive.ObjectID, sku string) error {
	_, err := s.inventory().UpdateOne(sc,
		bson.M{"_id": itemID, "skus": bson.M{"$ne": sku}},
		bson.M{
			"$push": bson.M{"skus": sku},
			"$inc":  bson.M{"stock": 1},
			"$set":  bson.M{"updatedAt": time.Now()},
		},
	)
	return err
}

// withTransaction runs fn in a causally consistent multi-document
// transaction with majority read/write concerns.
func (s *MongoStore) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
