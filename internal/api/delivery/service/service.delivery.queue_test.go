package deliverysvc

import (
	"testing"
	"time"

	"delivery_marketplace/internal/api/delivery/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestPendingFilter(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	f := pendingFilter(now, 5*time.Minute)

	and, ok := f["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)

	statuses := and[0]["$or"].([]bson.M)
	assert.Equal(t, models.QueueStatusPending, statuses[0]["status"])
	assert.Equal(t, models.QueueStatusProcessing, statuses[1]["status"])
	assert.Equal(t, bson.M{"$lt": now.Add(-5 * time.Minute).UnixMilli()}, statuses[1]["updatedAt"])

	due := and[1]["$or"].([]bson.M)
	assert.Nil(t, due[0]["nextRetryAt"])
	assert.Equal(t, bson.M{"$lte": now.UnixMilli()}, due[1]["nextRetryAt"])
}
