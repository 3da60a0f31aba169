package repository

import (
	"context"
	"fmt"
	"time"

	"SaborBot/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// chatMark is a membership row keyed by chat id, shared by the greetings
// and handoffs collections.
type chatMark struct {
	ChatID    string    `bson:"chat_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (m *MongoDB) hasMark(ctx context.Context, collectionName, chatID string) (bool, error) {
	connection, err := m.connect()
	if err != nil {
		return false, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionName)
	filter := bson.D{{Key: "chat_id", Value: chatID}}

	var mark chatMark
	err = collection.FindOne(ctx, filter).Decode(&mark)
	if err != nil {
		return false, m.findError(err)
	}
	return true, nil
}

func (m *MongoDB) setMark(ctx context.Context, collectionName, chatID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionName)
	filter := bson.D{{Key: "chat_id", Value: chatID}}
	update := bson.M{"$set": chatMark{ChatID: chatID, CreatedAt: time.Now()}}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) deleteMark(ctx context.Context, collectionName, chatID string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionName)
	filter := bson.D{{Key: "chat_id", Value: chatID}}

	_, err = collection.DeleteOne(ctx, filter)
	return err
}

func (m *MongoDB) listMarks(ctx context.Context, collectionName string) ([]string, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionName)
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var mark chatMark
		if err := cursor.Decode(&mark); err != nil {
			return nil, fmt.Errorf("mongodb decode error: %w", err)
		}
		ids = append(ids, mark.ChatID)
	}
	return ids, cursor.Err()
}

func (m *MongoDB) clearCollection(ctx context.Context, collectionName string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionName)
	_, err = collection.DeleteMany(ctx, bson.D{})
	return err
}

func (m *MongoDB) IsGreeted(ctx context.Context, chatID string) (bool, error) {
	return m.hasMark(ctx, greetingsCollection, chatID)
}

func (m *MongoDB) MarkGreeted(ctx context.Context, chatID string) error {
	return m.setMark(ctx, greetingsCollection, chatID)
}

func (m *MongoDB) ResetGreeting(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, greetingsCollection, chatID)
}

func (m *MongoDB) ListGreetedChats(ctx context.Context) ([]string, error) {
	return m.listMarks(ctx, greetingsCollection)
}

func (m *MongoDB) ClearGreetings(ctx context.Context) error {
	return m.clearCollection(ctx, greetingsCollection)
}

func (m *MongoDB) InHandoff(ctx context.Context, chatID string) (bool, error) {
	return m.hasMark(ctx, handoffsCollection, chatID)
}

func (m *MongoDB) StartHandoff(ctx context.Context, chatID string) error {
	return m.setMark(ctx, handoffsCollection, chatID)
}

func (m *MongoDB) EndHandoff(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, handoffsCollection, chatID)
}

func (m *MongoDB) ListHandoffChats(ctx context.Context) ([]string, error) {
	return m.listMarks(ctx, handoffsCollection)
}

func (m *MongoDB) ClearHandoffs(ctx context.Context) error {
	return m.clearCollection(ctx, handoffsCollection)
}

func (m *MongoDB) GetAttendance(ctx context.Context, chatID string) (*entity.Attendance, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(attendancesCollection)
	filter := bson.D{{Key: "chat_id", Value: chatID}}

	var att entity.Attendance
	err = collection.FindOne(ctx, filter).Decode(&att)
	if err != nil {
		return nil, m.findError(err)
	}
	return &att, nil
}

func (m *MongoDB) UpsertAttendance(ctx context.Context, att entity.Attendance) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(attendancesCollection)
	filter := bson.D{{Key: "chat_id", Value: att.ChatID}}
	update := bson.M{"$set": att}

	_, err = collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongodb upsert error: %w", err)
	}
	return nil
}

func (m *MongoDB) DeleteAttendance(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, attendancesCollection, chatID)
}

// ListActiveAttendances returns sessions touched at or after the cutoff.
func (m *MongoDB) ListActiveAttendances(ctx context.Context, since time.Time) ([]entity.Attendance, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(attendancesCollection)
	filter := bson.D{{Key: "last_activity", Value: bson.D{{Key: "$gte", Value: since}}}}

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var atts []entity.Attendance
	if err := cursor.All(ctx, &atts); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return atts, nil
}

// expiredAttendanceFilter matches sessions idle for at least the window.
// The cutoff itself counts as expired.
func expiredAttendanceFilter(before time.Time) bson.D {
	return bson.D{{Key: "last_activity", Value: bson.D{{Key: "$lte", Value: before}}}}
}

// ListExpiredAttendances returns sessions whose last activity is at or
// before the cutoff, for the inactivity sweeper.
func (m *MongoDB) ListExpiredAttendances(ctx context.Context, before time.Time) ([]entity.Attendance, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(attendancesCollection)
	filter := expiredAttendanceFilter(before)

	cursor, err := collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var atts []entity.Attendance
	if err := cursor.All(ctx, &atts); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}
	return atts, nil
}

func (m *MongoDB) ClearAttendances(ctx context.Context) error {
	return m.clearCollection(ctx, attendancesCollection)
}
