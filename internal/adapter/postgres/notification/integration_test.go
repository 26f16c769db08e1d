//go:build integration

package notification_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/carehome-backend/internal/adapter/postgres/notification"
	"github.com/heartmarshall/carehome-backend/internal/adapter/postgres/testhelper"
	"github.com/heartmarshall/carehome-backend/internal/domain"
)

func TestIntegration_ConcurrentClaimsNeverOverlap(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetQueue(t, pool)
	repo := notification.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedProfile(t, pool, domain.RoleBusinessOwner)
	items := make([]domain.NotificationQueueItem, 20)
	for i := range items {
		items[i] = domain.NotificationQueueItem{
			RecipientID: owner.ID,
			Channel:     domain.ChannelEmail,
			Subject:     "subject",
			Payload:     map[string]any{"body": "b"},
			CreatedBy:   owner.ID,
		}
	}
	n, err := repo.InsertBatch(ctx, items)
	require.NoError(t, err)
	require.Equal(t, 20, n)

	var (
		mu   sync.Mutex
		seen = make(map[uuid.UUID]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := repo.ClaimQueued(ctx, domain.ChannelEmail, 8)
			assert.NoError(t, err)
			mu.Lock()
			defer mu.Unlock()
			for _, it := range claimed {
				seen[it.ID]++
			}
		}()
	}
	wg.Wait()

	for id, count := range seen {
		assert.Equal(t, 1, count, "row %s claimed more than once", id)
	}
}

func TestIntegration_ClaimMarkAndRequeue(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetQueue(t, pool)
	repo := notification.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedProfile(t, pool, domain.RoleBusinessOwner)
	_, err := repo.InsertBatch(ctx, []domain.NotificationQueueItem{
		{RecipientID: owner.ID, Channel: domain.ChannelEmail, Subject: "first", CreatedBy: owner.ID},
		{RecipientID: owner.ID, Channel: domain.ChannelInApp, Subject: "in app", CreatedBy: owner.ID},
	})
	require.NoError(t, err)

	claimed, err := repo.ClaimQueued(ctx, domain.ChannelEmail, 100)
	require.NoError(t, err)
	var mine *domain.NotificationQueueItem
	for i := range claimed {
		if claimed[i].RecipientID == owner.ID {
			mine = &claimed[i]
		}
	}
	require.NotNil(t, mine)
	assert.Equal(t, domain.NotificationStatusSending, mine.Status)
	require.NotNil(t, mine.ClaimedAt)

	requeued, err := repo.RequeueStale(ctx, domain.ChannelEmail, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, requeued, 1)

	again, err := repo.ClaimQueued(ctx, domain.ChannelEmail, 100)
	require.NoError(t, err)
	require.NotEmpty(t, again)

	for _, it := range again {
		require.NoError(t, repo.MarkSent(ctx, it.ID, time.Now()))
	}

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.Sent, 1)
	assert.GreaterOrEqual(t, stats.ByChannel[domain.ChannelInApp], 1)
}

func TestIntegration_FinishAfterRequeueIsRejected(t *testing.T) {
	pool := testhelper.SetupTestDB(t)
	testhelper.ResetQueue(t, pool)
	repo := notification.New(pool)
	ctx := context.Background()

	owner := testhelper.SeedProfile(t, pool, domain.RoleBusinessOwner)
	_, err := repo.InsertBatch(ctx, []domain.NotificationQueueItem{
		{RecipientID: owner.ID, Channel: domain.ChannelEmail, Subject: "slow", CreatedBy: owner.ID},
	})
	require.NoError(t, err)

	first, err := repo.ClaimQueued(ctx, domain.ChannelEmail, 100)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	// A later pass treats every claim as abandoned.
	_, err = repo.RequeueStale(ctx, domain.ChannelEmail, time.Now().Add(time.Hour))
	require.NoError(t, err)

	for _, it := range first {
		assert.ErrorIs(t, repo.MarkSent(ctx, it.ID, time.Now()), domain.ErrConflict)
	}

	second, err := repo.ClaimQueued(ctx, domain.ChannelEmail, 100)
	require.NoError(t, err)
	require.NotEmpty(t, second)
	for _, it := range second {
		require.NoError(t, repo.MarkSent(ctx, it.ID, time.Now()))
		assert.ErrorIs(t, repo.MarkFailed(ctx, it.ID, "late failure"), domain.ErrConflict)
	}

	var status string
	err = pool.QueryRow(ctx,
		`SELECT status FROM notification_queue WHERE id = $1`, second[0].ID).Scan(&status)
	require.NoError(t, err)
	assert.Equal(t, string(domain.NotificationStatusSent), status)
}
