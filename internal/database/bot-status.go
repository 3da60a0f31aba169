package repository

import (
	"context"
	"fmt"

	"SaborBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const botStatusDocId = 1

// GetBotStatus returns the persisted global switch. A missing or corrupt
// document reads as active.
func (m *MongoDB) GetBotStatus(ctx context.Context) (entity.BotStatus, error) {
	connection, err := m.connect()
	if err != nil {
		return entity.BotActive, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(botStatusCollection)
	filter := bson.D{{Key: "_id", Value: botStatusDocId}}

	var doc struct {
		Status entity.BotStatus `bson:"status"`
	}
	err = collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		return entity.BotActive, m.findError(err)
	}
	if !doc.Status.Valid() {
		return entity.BotActive, nil
	}
	return doc.Status, nil
}

func (m *MongoDB) SetBotStatus(ctx context.Context, status entity.BotStatus) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(botStatusCollection)
	filter := bson.D{{Key: "_id", Value: botStatusDocId}}
	update := bson.M{"$set": bson.M{"status": status}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}
