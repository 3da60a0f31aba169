package repository

import (
	"context"
	"fmt"

	"SaborBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) LogMessage(ctx context.Context, entry entity.MessageLogEntry) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messageLogCollection)
	_, err = collection.InsertOne(ctx, entry)
	if err != nil {
		return fmt.Errorf("mongodb insert error: %w", err)
	}
	return nil
}

// ListMessages returns the newest entries for a chat, most recent first.
func (m *MongoDB) ListMessages(ctx context.Context, chatID string, limit int64) ([]entity.MessageLogEntry, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(messageLogCollection)
	filter := bson.D{{Key: "chat_id", Value: chatID}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)

	cursor, err := collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []entity.MessageLogEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return entries, nil
}
