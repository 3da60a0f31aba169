package repository

import (
	"context"
	"fmt"

	"SaborBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GetPendingAction(ctx context.Context, chatID string) (*entity.PendingAction, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(pendingActionsCollection)
	filter := bson.D{{Key: "chat_id", Value: chatID}}

	var action entity.PendingAction
	err = collection.FindOne(ctx, filter).Decode(&action)
	if err != nil {
		return nil, m.findError(err)
	}
	return &action, nil
}

func (m *MongoDB) SavePendingAction(ctx context.Context, action entity.PendingAction) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(pendingActionsCollection)
	filter := bson.D{{Key: "chat_id", Value: action.ChatID}}
	update := bson.M{"$set": action}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) ClearPendingAction(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, pendingActionsCollection, chatID)
}
