package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	integrationapp "github.com/itsyosefali/zoho-integration/internal/application/integration"
	"github.com/itsyosefali/zoho-integration/internal/domain/integration"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/scheduler"
	"github.com/itsyosefali/zoho-integration/internal/infrastructure/zoho"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/dto"
	"github.com/itsyosefali/zoho-integration/internal/interfaces/http/middleware"
)

// MockSyncer implements Syncer for testing
type MockSyncer struct {
	mock.Mock
}

func (m *MockSyncer) Sync(ctx context.Context, req integration.SyncRequest) (*integration.SyncRunResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.SyncRunResult), args.Error(1)
}

// MockInvoicePusher implements InvoicePusher for testing
type MockInvoicePusher struct {
	mock.Mock
}

func (m *MockInvoicePusher) PushByID(ctx context.Context, id uuid.UUID) (*integration.PushResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.PushResult), args.Error(1)
}

// MockSyncJobRunner implements SyncJobRunner for testing
type MockSyncJobRunner struct {
	mock.Mock
}

func (m *MockSyncJobRunner) RunNow(ctx context.Context, entity integration.EntityKind, onlyNew bool) (*scheduler.SyncJob, error) {
	args := m.Called(ctx, entity, onlyNew)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*scheduler.SyncJob), args.Error(1)
}

func (m *MockSyncJobRunner) GetJobHistory(limit int) []*scheduler.SyncJob {
	args := m.Called(limit)
	return args.Get(0).([]*scheduler.SyncJob)
}

func (m *MockSyncJobRunner) GetJobHistoryByEntity(entity integration.EntityKind, limit int) []*scheduler.SyncJob {
	args := m.Called(entity, limit)
	return args.Get(0).([]*scheduler.SyncJob)
}

// MockConnectionService implements ConnectionService for testing
type MockConnectionService struct {
	mock.Mock
}

func (m *MockConnectionService) Configure(ctx context.Context, settings integrationapp.OAuthSettings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *MockConnectionService) Status(ctx context.Context) (*integrationapp.ConnectionStatus, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.ConnectionStatus), args.Error(1)
}

func (m *MockConnectionService) AuthorizationURL(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockConnectionService) HandleCallback(ctx context.Context, code, providerErr string) (*integrationapp.CallbackResult, error) {
	args := m.Called(ctx, code, providerErr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.CallbackResult), args.Error(1)
}

func (m *MockConnectionService) RefreshAccessToken(ctx context.Context) (*zoho.RefreshResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*zoho.RefreshResult), args.Error(1)
}

func (m *MockConnectionService) TestConnection(ctx context.Context) (*integrationapp.TestConnectionResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integrationapp.TestConnectionResult), args.Error(1)
}

func (m *MockConnectionService) Disconnect(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

// Test helpers

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func perform(engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func dataMap(t *testing.T, resp dto.Response) map[string]any {
	t.Helper()
	data, ok := resp.Data.(map[string]any)
	require.True(t, ok, "data is %T", resp.Data)
	return data
}
