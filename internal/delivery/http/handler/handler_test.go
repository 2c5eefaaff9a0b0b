package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
	"todo-backend/internal/config"
	domainTodo "todo-backend/internal/domain/todo"
	domainUser "todo-backend/internal/domain/user"
	"todo-backend/internal/logger"
	"todo-backend/internal/middleware"
	"todo-backend/internal/usecase/auth"
	"todo-backend/internal/usecase/todo"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := logger.Init("production"); err != nil {
		panic(err)
	}
	m.Run()
}

type memUserRepo struct {
	mu            sync.Mutex
	users         map[uuid.UUID]*domainUser.User
	verifications []*domainUser.EmailVerificationToken
	resetTokens   []*domainUser.PasswordResetToken
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domainUser.User)}
}

func (r *memUserRepo) CreateWithVerificationToken(_ context.Context, u *domainUser.User, t *domainUser.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domainUser.ErrUserAlreadyExists
		}
	}

	now := time.Now()
	u.ID = uuid.New()
	u.CreatedAt = now
	u.UpdatedAt = now
	t.ID = uuid.New()
	t.UserID = u.ID

	userCopy := *u
	tokenCopy := *t
	r.users[u.ID] = &userCopy
	r.verifications = append(r.verifications, &tokenCopy)
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			userCopy := *u
			return &userCopy, nil
		}
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, userID uuid.UUID) (*domainUser.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[userID]; ok {
		userCopy := *u
		return &userCopy, nil
	}
	return nil, domainUser.ErrUserNotFound
}

func (r *memUserRepo) UpdatePassword(_ context.Context, userID uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domainUser.ErrUserNotFound
	}
	u.PasswordHashed = passwordHash
	return nil
}

func (r *memUserRepo) GetVerificationTokenByEmail(_ context.Context, email string) (*domainUser.EmailVerificationToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.verifications {
		if t.Email == email {
			tokenCopy := *t
			return &tokenCopy, nil
		}
	}
	return nil, domainUser.ErrVerificationTokenNotFound
}

func (r *memUserRepo) SaveVerificationToken(_ context.Context, t *domainUser.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.verifications {
		if existing.ID == t.ID {
			tokenCopy := *t
			r.verifications[i] = &tokenCopy
			return nil
		}
	}
	return domainUser.ErrVerificationTokenNotFound
}

func (r *memUserRepo) CreatePasswordResetToken(_ context.Context, t *domainUser.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	tokenCopy := *t
	r.resetTokens = append(r.resetTokens, &tokenCopy)
	return nil
}

func (r *memUserRepo) GetPasswordResetToken(_ context.Context, token string) (*domainUser.PasswordResetToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.resetTokens {
		if t.Token == token {
			tokenCopy := *t
			return &tokenCopy, nil
		}
	}
	return nil, domainUser.ErrResetTokenNotFound
}

type memBearerTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*domainUser.BearerToken
}

func newMemBearerTokenRepo() *memBearerTokenRepo {
	return &memBearerTokenRepo{tokens: make(map[string]*domainUser.BearerToken)}
}

func (r *memBearerTokenRepo) Create(_ context.Context, t *domainUser.BearerToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = uuid.New()
	tokenCopy := *t
	r.tokens[t.Token] = &tokenCopy
	return nil
}

func (r *memBearerTokenRepo) GetByToken(_ context.Context, token string) (*domainUser.BearerToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tokens[token]; ok {
		tokenCopy := *t
		return &tokenCopy, nil
	}
	return nil, domainUser.ErrBearerTokenNotFound
}

func (r *memBearerTokenRepo) Revoke(_ context.Context, tokenID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tokens {
		if t.ID == tokenID {
			now := time.Now()
			t.Revoked = true
			t.RevokedAt = &now
			return nil
		}
	}
	return domainUser.ErrBearerTokenNotFound
}

type memTodoRepo struct {
	mu    sync.Mutex
	todos map[uuid.UUID]*domainTodo.Todo
}

func newMemTodoRepo() *memTodoRepo {
	return &memTodoRepo{todos: make(map[uuid.UUID]*domainTodo.Todo)}
}

func (r *memTodoRepo) Create(_ context.Context, t *domainTodo.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	t.ID = uuid.New()
	t.CreatedAt = now
	t.UpdatedAt = now
	todoCopy := *t
	r.todos[t.ID] = &todoCopy
	return nil
}

func (r *memTodoRepo) GetByID(_ context.Context, todoID uuid.UUID) (*domainTodo.Todo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.todos[todoID]; ok {
		todoCopy := *t
		return &todoCopy, nil
	}
	return nil, domainTodo.ErrTodoNotFound
}

func (r *memTodoRepo) ListByUser(_ context.Context, userID uuid.UUID, filter *domainTodo.Filter) ([]*domainTodo.Todo, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var owned []*domainTodo.Todo
	for _, t := range r.todos {
		if t.UserID == userID {
			todoCopy := *t
			owned = append(owned, &todoCopy)
		}
	}
	total := int64(len(owned))
	start := (filter.Page - 1) * filter.PerPage
	if start > len(owned) {
		start = len(owned)
	}
	end := start + filter.PerPage
	if end > len(owned) {
		end = len(owned)
	}
	return owned[start:end], total, nil
}

func (r *memTodoRepo) Update(_ context.Context, t *domainTodo.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.todos[t.ID]
	if !ok {
		return domainTodo.ErrTodoNotFound
	}
	existing.Title = t.Title
	existing.Content = t.Content
	existing.UpdatedAt = t.UpdatedAt
	return nil
}

func (r *memTodoRepo) Delete(_ context.Context, todoID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.todos[todoID]; !ok {
		return domainTodo.ErrTodoNotFound
	}
	delete(r.todos, todoID)
	return nil
}

type testEnv struct {
	router   *gin.Engine
	userRepo *memUserRepo
}

func newTestEnv() *testEnv {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "test-secret"}}

	userRepo := newMemUserRepo()
	bearerRepo := newMemBearerTokenRepo()
	todoRepo := newMemTodoRepo()

	authService := auth.NewService(userRepo, bearerRepo, nil, cfg)
	todoService := todo.NewService(todoRepo, nil)

	authHandler := NewAuthHandler(authService)
	todoHandler := NewTodoHandler(todoService)

	router := gin.New()
	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(cfg, bearerRepo))
	authHandler.RegisterProtectedRoutes(protected)
	todoHandler.RegisterRoutes(protected)

	return &testEnv{router: router, userRepo: userRepo}
}

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func (e *testEnv) register(t *testing.T, email string) {
	t.Helper()
	w, _ := e.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"email":                 email,
		"username":              "heythere",
		"password":              "secretsecret",
		"password_confirmation": "secretsecret",
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	w, env := e.do(t, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    email,
		"password": "secretsecret",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token
}

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv()

	w, body := env.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"email":                 "hil@mail.com",
		"username":              "heythere",
		"password":              "secretsecret",
		"password_confirmation": "secretsecret",
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "success", body.Status)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, "hil@mail.com", data["email"])
	assert.NotContains(t, data, "password")
	assert.NotContains(t, data, "password_hashed")
}

func TestRegisterDuplicateEmailEndpoint(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")

	w, body := env.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"email":                 "hil@mail.com",
		"username":              "heythere",
		"password":              "secretsecret",
		"password_confirmation": "secretsecret",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", body.Status)
}

func TestLoginInvalidCredentialsEndpoint(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")

	wUnknown, bodyUnknown := env.do(t, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    "nobody@mail.com",
		"password": "secretsecret",
	})
	wWrong, bodyWrong := env.do(t, http.MethodPost, "/api/v1/login", "", gin.H{
		"email":    "hil@mail.com",
		"password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	// Non-distinguishability: the same generic message either way.
	assert.Equal(t, bodyUnknown.Message, bodyWrong.Message)
}

func TestVerifyEmailEndpoint(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")

	record, err := env.userRepo.GetVerificationTokenByEmail(context.Background(), "hil@mail.com")
	require.NoError(t, err)

	wBad, _ := env.do(t, http.MethodPost, "/api/v1/verify_email", "", gin.H{
		"email":             "hil@mail.com",
		"verificationToken": "wrong-token",
	})
	assert.Equal(t, http.StatusBadRequest, wBad.Code)

	wMissing, _ := env.do(t, http.MethodPost, "/api/v1/verify_email", "", gin.H{
		"email":             "nobody@mail.com",
		"verificationToken": record.VerificationToken,
	})
	assert.Equal(t, http.StatusNotFound, wMissing.Code)

	wOK, body := env.do(t, http.MethodPost, "/api/v1/verify_email", "", gin.H{
		"email":             "hil@mail.com",
		"verificationToken": record.VerificationToken,
	})
	assert.Equal(t, http.StatusOK, wOK.Code)

	var data struct {
		IsVerified bool `json:"is_verified"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.True(t, data.IsVerified)
}

func TestForgotAndResetPasswordEndpoints(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")

	wMissing, _ := env.do(t, http.MethodGet, "/api/v1/forgot_password?email=nobody@mail.com", "", nil)
	assert.Equal(t, http.StatusNotFound, wMissing.Code)

	wOK, body := env.do(t, http.MethodGet, "/api/v1/forgot_password?email=hil@mail.com", "", nil)
	assert.Equal(t, http.StatusOK, wOK.Code)
	assert.Equal(t, "true", string(body.Data))

	token := env.userRepo.resetTokens[0].Token

	wUnknown, _ := env.do(t, http.MethodPost, "/api/v1/reset_password", "", gin.H{
		"token":       uuid.New().String(),
		"newPassword": "brandnewsecret",
	})
	assert.Equal(t, http.StatusNotFound, wUnknown.Code)

	wReset, resetBody := env.do(t, http.MethodPost, "/api/v1/reset_password", "", gin.H{
		"token":       token,
		"newPassword": "brandnewsecret",
	})
	assert.Equal(t, http.StatusOK, wReset.Code)

	var data struct {
		NewPasswordSet bool `json:"new_password_set"`
	}
	require.NoError(t, json.Unmarshal(resetBody.Data, &data))
	assert.True(t, data.NewPasswordSet)
}

func TestLogoutEndpointRevokesToken(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")
	token := env.login(t, "hil@mail.com")

	w, body := env.do(t, http.MethodPost, "/api/v1/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Revoked bool `json:"revoked"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.True(t, data.Revoked)

	// The revoked token no longer authenticates.
	wAfter, _ := env.do(t, http.MethodGet, "/api/v1/todos", token, nil)
	assert.Equal(t, http.StatusUnauthorized, wAfter.Code)
}

func TestTodosRequireAuthentication(t *testing.T) {
	env := newTestEnv()

	w, body := env.do(t, http.MethodGet, "/api/v1/todos", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "fail", body.Status)

	wCreate, _ := env.do(t, http.MethodPost, "/api/v1/todos", "", gin.H{"title": "nope"})
	assert.Equal(t, http.StatusUnauthorized, wCreate.Code)
}

func TestTodoCrudEndpoints(t *testing.T) {
	env := newTestEnv()
	env.register(t, "hil@mail.com")
	token := env.login(t, "hil@mail.com")

	wCreate, createBody := env.do(t, http.MethodPost, "/api/v1/todos", token, gin.H{
		"title":   "Buy milk",
		"content": "two liters",
	})
	require.Equal(t, http.StatusCreated, wCreate.Code)

	var created struct {
		ID    uuid.UUID `json:"id"`
		Title string    `json:"title"`
	}
	require.NoError(t, json.Unmarshal(createBody.Data, &created))
	assert.Equal(t, "Buy milk", created.Title)

	wList, listBody := env.do(t, http.MethodGet, "/api/v1/todos?page=1&per_page=10", token, nil)
	require.Equal(t, http.StatusOK, wList.Code)

	var list struct {
		Items []json.RawMessage `json:"items"`
		Meta  struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(listBody.Data, &list))
	assert.Len(t, list.Items, 1)
	assert.Equal(t, int64(1), list.Meta.Total)

	wUpdate, _ := env.do(t, http.MethodPut, "/api/v1/todos/"+created.ID.String(), token, gin.H{
		"title": "Buy oat milk",
	})
	assert.Equal(t, http.StatusOK, wUpdate.Code)

	wDelete, deleteBody := env.do(t, http.MethodDelete, "/api/v1/todos/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, wDelete.Code)

	var deleted struct {
		IsDeleted bool `json:"is_deleted"`
	}
	require.NoError(t, json.Unmarshal(deleteBody.Data, &deleted))
	assert.True(t, deleted.IsDeleted)
}

func TestTodoOwnershipEnforcedOverHTTP(t *testing.T) {
	env := newTestEnv()
	env.register(t, "owner@mail.com")
	env.register(t, "intruder@mail.com")
	ownerToken := env.login(t, "owner@mail.com")
	intruderToken := env.login(t, "intruder@mail.com")

	_, createBody := env.do(t, http.MethodPost, "/api/v1/todos", ownerToken, gin.H{"title": "Private"})
	var created struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(createBody.Data, &created))

	// The todo exists, but a non-owner gets unauthorized, not not-found.
	wUpdate, updateBody := env.do(t, http.MethodPut, "/api/v1/todos/"+created.ID.String(), intruderToken, gin.H{"title": "Hijack"})
	assert.Equal(t, http.StatusUnauthorized, wUpdate.Code)
	assert.Equal(t, "fail", updateBody.Status)

	wDelete, _ := env.do(t, http.MethodDelete, "/api/v1/todos/"+created.ID.String(), intruderToken, nil)
	assert.Equal(t, http.StatusUnauthorized, wDelete.Code)

	wOwner, _ := env.do(t, http.MethodPut, "/api/v1/todos/"+created.ID.String(), ownerToken, gin.H{"title": "Still mine"})
	assert.Equal(t, http.StatusOK, wOwner.Code)
}
