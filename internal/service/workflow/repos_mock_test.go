package workflow

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/carehome-backend/internal/domain"
)

var _ careHomeRepo = &careHomeRepoMock{}

type careHomeRepoMock struct {
	GetCareHomeFunc    func(ctx context.Context, id uuid.UUID) (domain.CareHome, error)
	ListManagerIDsFunc func(ctx context.Context, careHomeID uuid.UUID) ([]uuid.UUID, error)
	GetClientFunc      func(ctx context.Context, id uuid.UUID) (domain.Client, error)

	calls struct {
		GetCareHome []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
		ListManagerIDs []struct {
			Ctx        context.Context
			CareHomeID uuid.UUID
		}
		GetClient []struct {
			Ctx context.Context
			ID  uuid.UUID
		}
	}
	lockGetCareHome    sync.RWMutex
	lockListManagerIDs sync.RWMutex
	lockGetClient      sync.RWMutex
}

func (mock *careHomeRepoMock) GetCareHome(ctx context.Context, id uuid.UUID) (domain.CareHome, error) {
	if mock.GetCareHomeFunc == nil {
		panic("careHomeRepoMock.GetCareHomeFunc: method is nil but careHomeRepo.GetCareHome was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetCareHome.Lock()
	mock.calls.GetCareHome = append(mock.calls.GetCareHome, callInfo)
	mock.lockGetCareHome.Unlock()
	return mock.GetCareHomeFunc(ctx, id)
}

func (mock *careHomeRepoMock) GetCareHomeCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
	}
	mock.lockGetCareHome.RLock()
	calls = mock.calls.GetCareHome
	mock.lockGetCareHome.RUnlock()
	return calls
}

func (mock *careHomeRepoMock) ListManagerIDs(ctx context.Context, careHomeID uuid.UUID) ([]uuid.UUID, error) {
	if mock.ListManagerIDsFunc == nil {
		panic("careHomeRepoMock.ListManagerIDsFunc: method is nil but careHomeRepo.ListManagerIDs was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		CareHomeID uuid.UUID
	}{Ctx: ctx, CareHomeID: careHomeID}
	mock.lockListManagerIDs.Lock()
	mock.calls.ListManagerIDs = append(mock.calls.ListManagerIDs, callInfo)
	mock.lockListManagerIDs.Unlock()
	return mock.ListManagerIDsFunc(ctx, careHomeID)
}

func (mock *careHomeRepoMock) ListManagerIDsCalls() []struct {
	Ctx        context.Context
	CareHomeID uuid.UUID
} {
	var calls []struct {
		Ctx        context.Context
		CareHomeID uuid.UUID
	}
	mock.lockListManagerIDs.RLock()
	calls = mock.calls.ListManagerIDs
	mock.lockListManagerIDs.RUnlock()
	return calls
}

func (mock *careHomeRepoMock) GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error) {
	if mock.GetClientFunc == nil {
		panic("careHomeRepoMock.GetClientFunc: method is nil but careHomeRepo.GetClient was just called")
	}
	callInfo := struct {
		Ctx context.Context
		ID  uuid.UUID
	}{Ctx: ctx, ID: id}
	mock.lockGetClient.Lock()
	mock.calls.GetClient = append(mock.calls.GetClient, callInfo)
	mock.lockGetClient.Unlock()
	return mock.GetClientFunc(ctx, id)
}

func (mock *careHomeRepoMock) GetClientCalls() []struct {
	Ctx context.Context
	ID  uuid.UUID
} {
	var calls []struct {
		Ctx context.Context
		ID  uuid.UUID
	}
	mock.lockGetClient.RLock()
	calls = mock.calls.GetClient
	mock.lockGetClient.RUnlock()
	return calls
}

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	ListActiveIDsByRoleFunc func(ctx context.Context, role domain.Role) ([]uuid.UUID, error)

	calls struct {
		ListActiveIDsByRole []struct {
			Ctx  context.Context
			Role domain.Role
		}
	}
	lockListActiveIDsByRole sync.RWMutex
}

func (mock *profileRepoMock) ListActiveIDsByRole(ctx context.Context, role domain.Role) ([]uuid.UUID, error) {
	if mock.ListActiveIDsByRoleFunc == nil {
		panic("profileRepoMock.ListActiveIDsByRoleFunc: method is nil but profileRepo.ListActiveIDsByRole was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Role domain.Role
	}{Ctx: ctx, Role: role}
	mock.lockListActiveIDsByRole.Lock()
	mock.calls.ListActiveIDsByRole = append(mock.calls.ListActiveIDsByRole, callInfo)
	mock.lockListActiveIDsByRole.Unlock()
	return mock.ListActiveIDsByRoleFunc(ctx, role)
}

func (mock *profileRepoMock) ListActiveIDsByRoleCalls() []struct {
	Ctx  context.Context
	Role domain.Role
} {
	var calls []struct {
		Ctx  context.Context
		Role domain.Role
	}
	mock.lockListActiveIDsByRole.RLock()
	calls = mock.calls.ListActiveIDsByRole
	mock.lockListActiveIDsByRole.RUnlock()
	return calls
}

var _ queueRepo = &queueRepoMock{}

type queueRepoMock struct {
	InsertBatchFunc func(ctx context.Context, items []domain.NotificationQueueItem) (int, error)

	calls struct {
		InsertBatch []struct {
			Ctx   context.Context
			Items []domain.NotificationQueueItem
		}
	}
	lockInsertBatch sync.RWMutex
}

func (mock *queueRepoMock) InsertBatch(ctx context.Context, items []domain.NotificationQueueItem) (int, error) {
	if mock.InsertBatchFunc == nil {
		panic("queueRepoMock.InsertBatchFunc: method is nil but queueRepo.InsertBatch was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Items []domain.NotificationQueueItem
	}{Ctx: ctx, Items: items}
	mock.lockInsertBatch.Lock()
	mock.calls.InsertBatch = append(mock.calls.InsertBatch, callInfo)
	mock.lockInsertBatch.Unlock()
	return mock.InsertBatchFunc(ctx, items)
}

func (mock *queueRepoMock) InsertBatchCalls() []struct {
	Ctx   context.Context
	Items []domain.NotificationQueueItem
} {
	var calls []struct {
		Ctx   context.Context
		Items []domain.NotificationQueueItem
	}
	mock.lockInsertBatch.RLock()
	calls = mock.calls.InsertBatch
	mock.lockInsertBatch.RUnlock()
	return calls
}

var _ auditRepo = &auditRepoMock{}

type auditRepoMock struct {
	LogFunc func(ctx context.Context, event domain.AuditEvent) error

	calls struct {
		Log []struct {
			Ctx   context.Context
			Event domain.AuditEvent
		}
	}
	lockLog sync.RWMutex
}

func (mock *auditRepoMock) Log(ctx context.Context, event domain.AuditEvent) error {
	if mock.LogFunc == nil {
		panic("auditRepoMock.LogFunc: method is nil but auditRepo.Log was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Event domain.AuditEvent
	}{Ctx: ctx, Event: event}
	mock.lockLog.Lock()
	mock.calls.Log = append(mock.calls.Log, callInfo)
	mock.lockLog.Unlock()
	return mock.LogFunc(ctx, event)
}

func (mock *auditRepoMock) LogCalls() []struct {
	Ctx   context.Context
	Event domain.AuditEvent
} {
	var calls []struct {
		Ctx   context.Context
		Event domain.AuditEvent
	}
	mock.lockLog.RLock()
	calls = mock.calls.Log
	mock.lockLog.RUnlock()
	return calls
}

var _ realtimePublisher = &realtimePublisherMock{}

type realtimePublisherMock struct {
	PublishNotificationFunc func(ctx context.Context, item domain.NotificationQueueItem) error

	calls struct {
		PublishNotification []struct {
			Ctx  context.Context
			Item domain.NotificationQueueItem
		}
	}
	lockPublishNotification sync.RWMutex
}

func (mock *realtimePublisherMock) PublishNotification(ctx context.Context, item domain.NotificationQueueItem) error {
	if mock.PublishNotificationFunc == nil {
		panic("realtimePublisherMock.PublishNotificationFunc: method is nil but realtimePublisher.PublishNotification was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Item domain.NotificationQueueItem
	}{Ctx: ctx, Item: item}
	mock.lockPublishNotification.Lock()
	mock.calls.PublishNotification = append(mock.calls.PublishNotification, callInfo)
	mock.lockPublishNotification.Unlock()
	return mock.PublishNotificationFunc(ctx, item)
}

func (mock *realtimePublisherMock) PublishNotificationCalls() []struct {
	Ctx  context.Context
	Item domain.NotificationQueueItem
} {
	var calls []struct {
		Ctx  context.Context
		Item domain.NotificationQueueItem
	}
	mock.lockPublishNotification.RLock()
	calls = mock.calls.PublishNotification
	mock.lockPublishNotification.RUnlock()
	return calls
}
