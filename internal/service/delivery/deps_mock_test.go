package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
	"github.com/heartmarshall/carehome-backend/internal/provider"
)

var _ queueRepo = &queueRepoMock{}

type queueRepoMock struct {
	RequeueStaleFunc func(ctx context.Context, channel domain.Channel, cutoff time.Time) (int, error)
	ClaimQueuedFunc  func(ctx context.Context, channel domain.Channel, limit int) ([]domain.NotificationQueueItem, error)
	MarkSentFunc     func(ctx context.Context, id uuid.UUID, sentAt time.Time) error
	MarkFailedFunc   func(ctx context.Context, id uuid.UUID, errMsg string) error
	ReleaseFunc      func(ctx context.Context, ids []uuid.UUID) (int, error)
	StatsFunc        func(ctx context.Context) (domain.NotificationQueueStats, error)

	calls struct {
		RequeueStale []struct {
			Ctx     context.Context
			Channel domain.Channel
			Cutoff  time.Time
		}
		ClaimQueued []struct {
			Ctx     context.Context
			Channel domain.Channel
			Limit   int
		}
		MarkSent []struct {
			Ctx    context.Context
			ID     uuid.UUID
			SentAt time.Time
		}
		MarkFailed []struct {
			Ctx    context.Context
			ID     uuid.UUID
			ErrMsg string
		}
		Release []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
		Stats []struct {
			Ctx context.Context
		}
	}
	lockRequeueStale sync.RWMutex
	lockClaimQueued  sync.RWMutex
	lockMarkSent     sync.RWMutex
	lockMarkFailed   sync.RWMutex
	lockRelease      sync.RWMutex
	lockStats        sync.RWMutex
}

func (mock *queueRepoMock) RequeueStale(ctx context.Context, channel domain.Channel, cutoff time.Time) (int, error) {
	if mock.RequeueStaleFunc == nil {
		panic("queueRepoMock.RequeueStaleFunc: method is nil but queueRepo.RequeueStale was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Channel domain.Channel
		Cutoff  time.Time
	}{Ctx: ctx, Channel: channel, Cutoff: cutoff}
	mock.lockRequeueStale.Lock()
	mock.calls.RequeueStale = append(mock.calls.RequeueStale, callInfo)
	mock.lockRequeueStale.Unlock()
	return mock.RequeueStaleFunc(ctx, channel, cutoff)
}

func (mock *queueRepoMock) RequeueStaleCalls() []struct {
	Ctx     context.Context
	Channel domain.Channel
	Cutoff  time.Time
} {
	var calls []struct {
		Ctx     context.Context
		Channel domain.Channel
		Cutoff  time.Time
	}
	mock.lockRequeueStale.RLock()
	calls = mock.calls.RequeueStale
	mock.lockRequeueStale.RUnlock()
	return calls
}

func (mock *queueRepoMock) ClaimQueued(ctx context.Context, channel domain.Channel, limit int) ([]domain.NotificationQueueItem, error) {
	if mock.ClaimQueuedFunc == nil {
		panic("queueRepoMock.ClaimQueuedFunc: method is nil but queueRepo.ClaimQueued was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		Channel domain.Channel
		Limit   int
	}{Ctx: ctx, Channel: channel, Limit: limit}
	mock.lockClaimQueued.Lock()
	mock.calls.ClaimQueued = append(mock.calls.ClaimQueued, callInfo)
	mock.lockClaimQueued.Unlock()
	return mock.ClaimQueuedFunc(ctx, channel, limit)
}

func (mock *queueRepoMock) ClaimQueuedCalls() []struct {
	Ctx     context.Context
	Channel domain.Channel
	Limit   int
} {
	var calls []struct {
		Ctx     context.Context
		Channel domain.Channel
		Limit   int
	}
	mock.lockClaimQueued.RLock()
	calls = mock.calls.ClaimQueued
	mock.lockClaimQueued.RUnlock()
	return calls
}

func (mock *queueRepoMock) MarkSent(ctx context.Context, id uuid.UUID, sentAt time.Time) error {
	if mock.MarkSentFunc == nil {
		panic("queueRepoMock.MarkSentFunc: method is nil but queueRepo.MarkSent was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		SentAt time.Time
	}{Ctx: ctx, ID: id, SentAt: sentAt}
	mock.lockMarkSent.Lock()
	mock.calls.MarkSent = append(mock.calls.MarkSent, callInfo)
	mock.lockMarkSent.Unlock()
	return mock.MarkSentFunc(ctx, id, sentAt)
}

func (mock *queueRepoMock) MarkSentCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	SentAt time.Time
} {
	var calls []struct {
		Ctx    context.Context
		ID     uuid.UUID
		SentAt time.Time
	}
	mock.lockMarkSent.RLock()
	calls = mock.calls.MarkSent
	mock.lockMarkSent.RUnlock()
	return calls
}

func (mock *queueRepoMock) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	if mock.MarkFailedFunc == nil {
		panic("queueRepoMock.MarkFailedFunc: method is nil but queueRepo.MarkFailed was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		ID     uuid.UUID
		ErrMsg string
	}{Ctx: ctx, ID: id, ErrMsg: errMsg}
	mock.lockMarkFailed.Lock()
	mock.calls.MarkFailed = append(mock.calls.MarkFailed, callInfo)
	mock.lockMarkFailed.Unlock()
	return mock.MarkFailedFunc(ctx, id, errMsg)
}

func (mock *queueRepoMock) MarkFailedCalls() []struct {
	Ctx    context.Context
	ID     uuid.UUID
	ErrMsg string
} {
	var calls []struct {
		Ctx    context.Context
		ID     uuid.UUID
		ErrMsg string
	}
	mock.lockMarkFailed.RLock()
	calls = mock.calls.MarkFailed
	mock.lockMarkFailed.RUnlock()
	return calls
}

func (mock *queueRepoMock) Release(ctx context.Context, ids []uuid.UUID) (int, error) {
	if mock.ReleaseFunc == nil {
		panic("queueRepoMock.ReleaseFunc: method is nil but queueRepo.Release was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockRelease.Lock()
	mock.calls.Release = append(mock.calls.Release, callInfo)
	mock.lockRelease.Unlock()
	return mock.ReleaseFunc(ctx, ids)
}

func (mock *queueRepoMock) ReleaseCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		Ids []uuid.UUID
	}
	mock.lockRelease.RLock()
	calls = mock.calls.Release
	mock.lockRelease.RUnlock()
	return calls
}

func (mock *queueRepoMock) Stats(ctx context.Context) (domain.NotificationQueueStats, error) {
	if mock.StatsFunc == nil {
		panic("queueRepoMock.StatsFunc: method is nil but queueRepo.Stats was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockStats.Lock()
	mock.calls.Stats = append(mock.calls.Stats, callInfo)
	mock.lockStats.Unlock()
	return mock.StatsFunc(ctx)
}

func (mock *queueRepoMock) StatsCalls() []struct {
	Ctx context.Context
} {
	var calls []struct {
		Ctx context.Context
	}
	mock.lockStats.RLock()
	calls = mock.calls.Stats
	mock.lockStats.RUnlock()
	return calls
}

var _ emailDirectory = &emailDirectoryMock{}

type emailDirectoryMock struct {
	EmailsByIDsFunc func(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)

	calls struct {
		EmailsByIDs []struct {
			Ctx context.Context
			Ids []uuid.UUID
		}
	}
	lockEmailsByIDs sync.RWMutex
}

func (mock *emailDirectoryMock) EmailsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	if mock.EmailsByIDsFunc == nil {
		panic("emailDirectoryMock.EmailsByIDsFunc: method is nil but emailDirectory.EmailsByIDs was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ids []uuid.UUID
	}{Ctx: ctx, Ids: ids}
	mock.lockEmailsByIDs.Lock()
	mock.calls.EmailsByIDs = append(mock.calls.EmailsByIDs, callInfo)
	mock.lockEmailsByIDs.Unlock()
	return mock.EmailsByIDsFunc(ctx, ids)
}

func (mock *emailDirectoryMock) EmailsByIDsCalls() []struct {
	Ctx context.Context
	Ids []uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		Ids []uuid.UUID
	}
	mock.lockEmailsByIDs.RLock()
	calls = mock.calls.EmailsByIDs
	mock.lockEmailsByIDs.RUnlock()
	return calls
}

var _ emailSender = &emailSenderMock{}

type emailSenderMock struct {
	SendFunc func(ctx context.Context, msg provider.EmailMessage) (provider.SendResult, error)

	calls struct {
		Send []struct {
			Ctx context.Context
			Msg provider.EmailMessage
		}
	}
	lockSend sync.RWMutex
}

func (mock *emailSenderMock) Send(ctx context.Context, msg provider.EmailMessage) (provider.SendResult, error) {
	if mock.SendFunc == nil {
		panic("emailSenderMock.SendFunc: method is nil but emailSender.Send was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Msg provider.EmailMessage
	}{Ctx: ctx, Msg: msg}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, msg)
}

func (mock *emailSenderMock) SendCalls() []struct {
	Ctx context.Context
	Msg provider.EmailMessage
} {
	var calls []struct {
		Ctx context.Context
		Msg provider.EmailMessage
	}
	mock.lockSend.RLock()
	calls = mock.calls.Send
	mock.lockSend.RUnlock()
	return calls
}
