package repository

import (
	"context"
)

func (m *MongoDB) IsBlocked(ctx context.Context, chatID string) (bool, error) {
	return m.hasMark(ctx, blockedNumbersCollection, chatID)
}

func (m *MongoDB) BlockNumber(ctx context.Context, chatID string) error {
	return m.setMark(ctx, blockedNumbersCollection, chatID)
}

func (m *MongoDB) UnblockNumber(ctx context.Context, chatID string) error {
	return m.deleteMark(ctx, blockedNumbersCollection, chatID)
}

func (m *MongoDB) ListBlockedNumbers(ctx context.Context) ([]string, error) {
	return m.listMarks(ctx, blockedNumbersCollection)
}
