package repository

import (
	"context"
	"fmt"

	"SaborBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (m *MongoDB) GetDraft(ctx context.Context, chatID string) (*entity.RegistrationDraft, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(draftsCollection)
	filter := bson.D{{Key: "chat_id", Value: chatID}}

	var draft entity.RegistrationDraft
	err = collection.FindOne(ctx, filter).Decode(&draft)
	if err != nil {
		return nil, m.findError(err)
	}
	return &draft, nil
}

func (m *MongoDB) SaveDraft(ctx context.Context, draft entity.RegistrationDraft) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(draftsCollection)
	filter := bson.D{{Key: "chat_id", Value: draft.ChatID}}
	update := bson.M{"$set": draft}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) DeleteDraft(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, draftsCollection, chatID)
}

func (m *MongoDB) ListDraftChats(ctx context.Context) ([]string, error) {
	return m.listMarks(ctx, draftsCollection)
}

func (m *MongoDB) ClearDrafts(ctx context.Context) error {
	return m.clearCollection(ctx, draftsCollection)
}

// nextRegistrationID increments and returns the registration sequence. Ids
// keep growing after bulk resets so exported references stay unique.
func (m *MongoDB) nextRegistrationID(ctx context.Context) (int64, error) {
	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(countersCollection)
	filter := bson.D{{Key: "_id", Value: "registrations"}}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err = collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("mongodb counter error: %w", err)
	}
	return counter.Seq, nil
}

func (m *MongoDB) CreateRegistration(ctx context.Context, reg entity.Registration) (int64, error) {
	id, err := m.nextRegistrationID(ctx)
	if err != nil {
		return 0, err
	}
	reg.ID = id

	connection, err := m.connect()
	if err != nil {
		return 0, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)
	_, err = collection.InsertOne(ctx, reg)
	if err != nil {
		return 0, fmt.Errorf("mongodb insert error: %w", err)
	}
	return id, nil
}

func (m *MongoDB) ListRegistrations(ctx context.Context) ([]entity.Registration, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)
	cursor, err := collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var regs []entity.Registration
	if err := cursor.All(ctx, &regs); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return regs, nil
}

func (m *MongoDB) DeleteRegistration(ctx context.Context, id int64) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(registrationsCollection)
	_, err = collection.DeleteOne(ctx, bson.D{{Key: "id", Value: id}})
	return err
}

func (m *MongoDB) ClearRegistrations(ctx context.Context) error {
	return m.clearCollection(ctx, registrationsCollection)
}
