package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

func TestExpiredAttendanceFilterIncludesCutoff(t *testing.T) {
	t.Parallel()

	cutoff := time.Date(2025, 3, 14, 15, 0, 0, 0, time.UTC)
	filter := expiredAttendanceFilter(cutoff)

	if len(filter) != 1 || filter[0].Key != "last_activity" {
		t.Fatalf("filter = %v", filter)
	}
	cond, ok := filter[0].Value.(bson.D)
	if !ok || len(cond) != 1 {
		t.Fatalf("condition = %v", filter[0].Value)
	}
	// A session last touched exactly one window ago is already expired, so
	// the comparison must be inclusive.
	if cond[0].Key != "$lte" {
		t.Fatalf("operator = %q, want $lte", cond[0].Key)
	}
	if got, ok := cond[0].Value.(time.Time); !ok || !got.Equal(cutoff) {
		t.Fatalf("cutoff = %v, want %v", cond[0].Value, cutoff)
	}
}
