package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/leads-api/internal/domain/contact"
	"github.com/janhq/leads-api/internal/domain/conversation"
	"github.com/janhq/leads-api/internal/domain/query"
	"github.com/janhq/leads-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/leads-api/internal/utils/platformerrors"
)

// MockConversationService is a func-field implementation of conversation.Service.
type MockConversationService struct {
	ListFunc    func(ctx context.Context, p query.Pagination) (*query.Page[conversation.Session], error)
	SearchFunc  func(ctx context.Context, term string, p query.Pagination) (*query.Page[conversation.Session], error)
	GetByIDFunc func(ctx context.Context, id string) (*conversation.Detail, error)
}

func (m *MockConversationService) List(ctx context.Context, p query.Pagination) (*query.Page[conversation.Session], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, p)
	}
	return query.NewPage[conversation.Session](nil, 0, p), nil
}

func (m *MockConversationService) Search(ctx context.Context, term string, p query.Pagination) (*query.Page[conversation.Session], error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term, p)
	}
	return query.NewPage[conversation.Session](nil, 0, p), nil
}

func (m *MockConversationService) GetByID(ctx context.Context, id string) (*conversation.Detail, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

// MockContactService is a func-field implementation of contact.Service.
type MockContactService struct {
	ListFunc    func(ctx context.Context, p query.Pagination) (*query.Page[contact.Contact], error)
	SearchFunc  func(ctx context.Context, term string, p query.Pagination) (*query.Page[contact.Contact], error)
	GetByIDFunc func(ctx context.Context, id string) (*contact.Detail, error)
}

func (m *MockContactService) List(ctx context.Context, p query.Pagination) (*query.Page[contact.Contact], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, p)
	}
	return query.NewPage[contact.Contact](nil, 0, p), nil
}

func (m *MockContactService) Search(ctx context.Context, term string, p query.Pagination) (*query.Page[contact.Contact], error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, term, p)
	}
	return query.NewPage[contact.Contact](nil, 0, p), nil
}

func (m *MockContactService) GetByID(ctx context.Context, id string) (*contact.Detail, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func setupConversationRouter(conversations *MockConversationService, contacts *MockContactService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	conversationHandler := handlers.NewConversationHandler(conversations, zerolog.Nop())
	contactHandler := handlers.NewContactHandler(contacts, zerolog.Nop())

	group := router.Group("/api/conversations")
	group.GET("/contacts", contactHandler.List)
	group.GET("/contacts/search", contactHandler.Search)
	group.GET("/contacts/:id", contactHandler.Get)
	group.GET("", conversationHandler.List)
	group.GET("/search", conversationHandler.Search)
	group.GET("/:id", conversationHandler.Get)
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func dbFailure(ctx context.Context) error {
	return platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeDatabaseError,
		"failed to list sessions", errors.New("dial tcp 10.0.0.5:5432: connection refused"))
}

func TestConversationHandler_List(t *testing.T) {
	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	var received query.Pagination
	mock := &MockConversationService{
		ListFunc: func(ctx context.Context, p query.Pagination) (*query.Page[conversation.Session], error) {
			received = p
			sessions := []conversation.Session{{ID: "s1", PhoneNumber: "Unknown", StartedAt: query.NewTimestamp(started), MessageCount: 3}}
			return query.NewPage(sessions, 45, p), nil
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	w := get(router, "/api/conversations?page=2&pageSize=10")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, query.Pagination{Page: 2, PageSize: 10}, received)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(45), body["total"])
	assert.Equal(t, float64(5), body["totalPages"])
	assert.Equal(t, float64(10), body["pageSize"])
	session := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "2024-03-01T12:00:00.000Z", session["startedAt"])
	assert.Equal(t, "Unknown", session["phoneNumber"])
}

func TestConversationHandler_ListDefaultsAndEmptyData(t *testing.T) {
	var received query.Pagination
	mock := &MockConversationService{
		ListFunc: func(ctx context.Context, p query.Pagination) (*query.Page[conversation.Session], error) {
			received = p
			return query.NewPage[conversation.Session](nil, 0, p), nil
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	w := get(router, "/api/conversations?page=abc")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, query.Pagination{Page: 1, PageSize: 20}, received)
	assert.JSONEq(t, `{"data":[],"total":0,"page":1,"pageSize":20,"totalPages":0}`, w.Body.String())
}

func TestConversationHandler_ListFailureHidesCause(t *testing.T) {
	mock := &MockConversationService{
		ListFunc: func(ctx context.Context, p query.Pagination) (*query.Page[conversation.Session], error) {
			return nil, dbFailure(ctx)
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	w := get(router, "/api/conversations")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch conversations","code":"500"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "10.0.0.5")
}

func TestConversationHandler_SearchRequiresQuery(t *testing.T) {
	called := false
	mock := &MockConversationService{
		SearchFunc: func(ctx context.Context, term string, p query.Pagination) (*query.Page[conversation.Session], error) {
			called = true
			return nil, nil
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	for _, target := range []string{"/api/conversations/search", "/api/conversations/search?q=%20%20"} {
		w := get(router, target)
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		assert.JSONEq(t, `{"error":"Search query is required","code":"400"}`, w.Body.String(), target)
	}
	assert.False(t, called)
}

func TestConversationHandler_SearchTrimsTerm(t *testing.T) {
	var term string
	mock := &MockConversationService{
		SearchFunc: func(ctx context.Context, q string, p query.Pagination) (*query.Page[conversation.Session], error) {
			term = q
			return query.NewPage[conversation.Session](nil, 0, p), nil
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	w := get(router, "/api/conversations/search?q=%20ana%40x%20")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ana@x", term)
}

func TestConversationHandler_Get(t *testing.T) {
	mock := &MockConversationService{
		GetByIDFunc: func(ctx context.Context, id string) (*conversation.Detail, error) {
			if id != "s1" {
				return nil, nil
			}
			return &conversation.Detail{
				Session:        conversation.Session{ID: "s1"},
				Messages:       []conversation.Message{{ID: "1", Role: conversation.RoleUser, Content: "oi"}},
				KnowledgeVault: []conversation.KnowledgeVaultItem{},
			}, nil
		},
	}
	router := setupConversationRouter(mock, &MockContactService{})

	w := get(router, "/api/conversations/s1")
	require.Equal(t, http.StatusOK, w.Code)
	var body conversation.Detail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "s1", body.Session.ID)
	assert.Equal(t, conversation.RoleUser, body.Messages[0].Role)

	w = get(router, "/api/conversations/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Conversation not found","code":"404"}`, w.Body.String())
}

func TestContactHandler_RoutesBeforeSessionID(t *testing.T) {
	sessionLookups := 0
	conversations := &MockConversationService{
		GetByIDFunc: func(ctx context.Context, id string) (*conversation.Detail, error) {
			sessionLookups++
			return nil, nil
		},
	}
	contacts := &MockContactService{
		ListFunc: func(ctx context.Context, p query.Pagination) (*query.Page[contact.Contact], error) {
			return query.NewPage([]contact.Contact{{ID: "c1", PhoneNumber: "5511"}}, 1, p), nil
		},
	}
	router := setupConversationRouter(conversations, contacts)

	w := get(router, "/api/conversations/contacts")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"c1"`)
	assert.Zero(t, sessionLookups)
}

func TestContactHandler_Get(t *testing.T) {
	contacts := &MockContactService{
		GetByIDFunc: func(ctx context.Context, id string) (*contact.Detail, error) {
			if id == "boom" {
				return nil, dbFailure(ctx)
			}
			return nil, nil
		},
	}
	router := setupConversationRouter(&MockConversationService{}, contacts)

	w := get(router, "/api/conversations/contacts/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Contact not found","code":"404"}`, w.Body.String())

	w = get(router, "/api/conversations/contacts/boom")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch contact","code":"500"}`, w.Body.String())
}

func TestContactHandler_Search(t *testing.T) {
	contacts := &MockContactService{
		SearchFunc: func(ctx context.Context, term string, p query.Pagination) (*query.Page[contact.Contact], error) {
			return nil, dbFailure(ctx)
		},
	}
	router := setupConversationRouter(&MockConversationService{}, contacts)

	w := get(router, "/api/conversations/contacts/search")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get(router, "/api/conversations/contacts/search?q=ana")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to search contacts","code":"500"}`, w.Body.String())
}
