package handlers

import (
	"context"
	"net/http"

	us "user_service"
	"user_service/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	loginToken string
	loginUser  *us.User
	loginErr   error
	parseID    int
	parseErr   error

	lastLoginEmail    string
	lastLoginPassword string
	lastParseToken    string
	loginCalls        int
}

func (m *mockAuth) Login(_ context.Context, email, password string) (string, *us.User, error) {
	m.loginCalls++
	m.lastLoginEmail = email
	m.lastLoginPassword = password
	return m.loginToken, m.loginUser, m.loginErr
}

func (m *mockAuth) ParseToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

type mockUsers struct {
	listResp   []us.User
	listErr    error
	getResp    *us.User
	getErr     error
	createResp *us.User
	createErr  error
	updateResp *us.User
	updateErr  error
	deleteResp *us.User
	deleteErr  error

	calls          int
	lastID         int
	lastCallerID   int
	lastUpdate     us.UserUpdate
	lastCreateName string
}

func (m *mockUsers) List(context.Context) ([]us.User, error) {
	m.calls++
	return m.listResp, m.listErr
}

func (m *mockUsers) Get(_ context.Context, id int) (*us.User, error) {
	m.calls++
	m.lastID = id
	return m.getResp, m.getErr
}

func (m *mockUsers) Create(_ context.Context, name, _, _ string) (*us.User, error) {
	m.calls++
	m.lastCreateName = name
	return m.createResp, m.createErr
}

func (m *mockUsers) Update(_ context.Context, id int, upd us.UserUpdate) (*us.User, error) {
	m.calls++
	m.lastID = id
	m.lastUpdate = upd
	return m.updateResp, m.updateErr
}

func (m *mockUsers) Delete(_ context.Context, callerID, id int) (*us.User, error) {
	m.calls++
	m.lastCallerID = callerID
	m.lastID = id
	return m.deleteResp, m.deleteErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}

// newAuthedService returns a service whose token check always yields callerID.
func newAuthedService(callerID int, users *mockUsers) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseID: callerID},
		Users:         users,
	}
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "bearer "+token)
	}
	return h
}
