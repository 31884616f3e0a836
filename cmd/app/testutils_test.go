package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sushihentaime/blogapi/internal/blogservice"
	"github.com/sushihentaime/blogapi/internal/userservice"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, req *userservice.SignupRequest) (*userservice.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*userservice.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req *userservice.LoginRequest) (*userservice.AuthResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*userservice.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) GetUserByID(ctx context.Context, id int) (*userservice.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*userservice.User)
	return u, args.Error(1)
}

func (m *mockAuthService) Authenticate(ctx context.Context, token string) (*userservice.User, error) {
	args := m.Called(ctx, token)
	u, _ := args.Get(0).(*userservice.User)
	return u, args.Error(1)
}

type mockBlogService struct {
	mock.Mock
}

func (m *mockBlogService) CreateBlog(ctx context.Context, authorID int, req *blogservice.CreateBlogRequest) (*blogservice.Blog, error) {
	args := m.Called(ctx, authorID, req)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

func (m *mockBlogService) GetPublishedBlog(ctx context.Context, id int) (*blogservice.Blog, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

func (m *mockBlogService) UpdateBlog(ctx context.Context, userID, id int, req *blogservice.UpdateBlogRequest) (*blogservice.Blog, error) {
	args := m.Called(ctx, userID, id, req)
	b, _ := args.Get(0).(*blogservice.Blog)
	return b, args.Error(1)
}

func (m *mockBlogService) DeleteBlog(ctx context.Context, userID, id int) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *mockBlogService) ListPublishedBlogs(ctx context.Context, p blogservice.ListParams) (*blogservice.BlogList, error) {
	args := m.Called(ctx, p)
	l, _ := args.Get(0).(*blogservice.BlogList)
	return l, args.Error(1)
}

func (m *mockBlogService) ListOwnBlogs(ctx context.Context, authorID int, p blogservice.OwnerListParams) (*blogservice.BlogList, error) {
	args := m.Called(ctx, authorID, p)
	l, _ := args.Get(0).(*blogservice.BlogList)
	return l, args.Error(1)
}

// newMockApplication returns an application backed by mocked services. Logs go to logs when it is not nil.
func newMockApplication(t *testing.T, logs io.Writer) (*application, *mockAuthService, *mockBlogService) {
	t.Helper()

	if logs == nil {
		logs = io.Discard
	}

	users := new(mockAuthService)
	blogs := new(mockBlogService)

	t.Cleanup(func() {
		users.AssertExpectations(t)
		blogs.AssertExpectations(t)
	})

	app := &application{
		config:      &Config{Environment: "testing", Version: "1.0.0"},
		logger:      slog.New(slog.NewJSONHandler(logs, nil)),
		userService: users,
		blogService: blogs,
	}

	return app, users, blogs
}

type testServer struct {
	*httptest.Server
}

func newTestServer(t *testing.T, h http.Handler) *testServer {
	ts := httptest.NewServer(h)

	t.Cleanup(ts.Close)

	return &testServer{ts}
}

func readResponse(t *testing.T, res *http.Response) (int, http.Header, envelope) {
	t.Helper()
	defer res.Body.Close()

	responseBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var env envelope
	require.NoError(t, json.Unmarshal(responseBody, &env), string(responseBody))

	return res.StatusCode, res.Header, env
}

func (ts *testServer) do(t *testing.T, method, path, token string, payload any) (int, http.Header, envelope) {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case string:
		body = bytes.NewBufferString(p)
	default:
		js, err := json.Marshal(p)
		require.NoError(t, err)
		body = bytes.NewReader(js)
	}

	req, err := http.NewRequest(method, ts.URL+path, body)
	require.NoError(t, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Client().Do(req)
	require.NoError(t, err)

	return readResponse(t, res)
}

func (ts *testServer) get(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodGet, path, token, nil)
}

func (ts *testServer) post(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPost, path, token, payload)
}

func (ts *testServer) patch(t *testing.T, path, token string, payload any) (int, http.Header, envelope) {
	return ts.do(t, http.MethodPatch, path, token, payload)
}

func (ts *testServer) delete(t *testing.T, path, token string) (int, http.Header, envelope) {
	return ts.do(t, http.MethodDelete, path, token, nil)
}

// authorize makes the mocked auth service accept token as the given user.
func authorize(users *mockAuthService, token string, user *userservice.User) {
	users.On("Authenticate", mock.Anything, token).Return(user, nil)
}
