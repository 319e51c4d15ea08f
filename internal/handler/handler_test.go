package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/yamdb/internal/apperr"
	"github.com/user/yamdb/internal/config"
	"github.com/user/yamdb/internal/middleware"
	"github.com/user/yamdb/internal/model"
	"github.com/user/yamdb/internal/service"
	"github.com/user/yamdb/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := RegisterValidators(); err != nil {
		panic(err)
	}
}

// userStore 内存账号存储
type userStore struct {
	mu    sync.Mutex
	users []*model.User
}

func (s *userStore) find(match func(*model.User) bool) *model.User {
	for _, u := range s.users {
		if match(u) {
			cp := *u
			return &cp
		}
	}
	return nil
}

func (s *userStore) FindByID(_ context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(func(u *model.User) bool { return u.ID == id }), nil
}

func (s *userStore) FindByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(func(u *model.User) bool { return u.Username == username }), nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.find(func(u *model.User) bool { return u.Email == email }), nil
}

func (s *userStore) Upsert(_ context.Context, u *model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.users {
		if cur.Username == u.Username {
			if cur.Email != u.Email {
				return nil, apperr.Conflict(apperr.UsernameTaken, "taken")
			}
			cur.ConfirmationCode, cur.CodeIssuedAt, cur.ConfirmedAt = u.ConfirmationCode, u.CodeIssuedAt, u.ConfirmedAt
			cp := *cur
			return &cp, nil
		}
	}
	stored := *u
	stored.ID = uint(len(s.users) + 1)
	s.users = append(s.users, &stored)
	cp := stored
	return &cp, nil
}

func (s *userStore) Save(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.users {
		if cur.ID == u.ID {
			stored := *u
			s.users[i] = &stored
			return nil
		}
	}
	return apperr.NotFound("user", u.Username)
}

func (s *userStore) Delete(_ context.Context, id uint) error { return nil }

type codeSender struct {
	mu    sync.Mutex
	codes map[string]string
}

func (s *codeSender) Send(_ context.Context, n service.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[n.To] = n.Body
	return nil
}

type staticIssuer struct{}

func (staticIssuer) Issue(u *model.User) (string, error) { return "jwt-" + u.Username, nil }

type testEnv struct {
	router *gin.Engine
	store  *userStore
	sender *codeSender
	accts  *service.AccountService
}

// asUser 测试用身份注入，代替令牌解析
func asUser(store *userStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if name := c.GetHeader("X-Test-User"); name != "" {
			u, _ := store.FindByUsername(c.Request.Context(), name)
			if u != nil {
				middleware.SetIdentity(c, u)
			}
		}
		c.Next()
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:  &userStore{},
		sender: &codeSender{codes: make(map[string]string)},
	}
	env.accts = service.NewAccountService(env.store, env.sender, staticIssuer{}, service.NewLocalLocker(), service.AccountOptions{
		Codes:    service.CodeGenerator{Alphabet: "abcdef0123456789", Length: 10},
		Limits:   validation.DefaultLimits(),
		CodeTTL:  time.Hour,
		HashCost: bcrypt.MinCost,
	})
	h := &Handler{Config: &config.Config{PageSize: 2}, Accounts: env.accts}

	r := gin.New()
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/token", h.Token)
	env.router = r
	return env
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
}

func (e *testEnv) post(t *testing.T, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestSignupAndTokenEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.post(t, "/auth/signup", `{"username":"alice","email":"alice@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com"}`, string(body.Data))

	env.accts.Wait()
	code := env.sender.codes["alice@example.com"]
	require.NotEmpty(t, code)

	w, body = env.post(t, "/auth/token", `{"username":"alice","confirmation_code":"`+code+`"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"jwt-alice"}`, string(body.Data))
}

func TestSignupErrors(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/auth/signup", `{"username":"bob","email":"bob@example.com"}`)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"reserved", `{"username":"me","email":"me@example.com"}`, http.StatusBadRequest, "reserved_name"},
		{"bad chars", `{"username":"b b","email":"x@example.com"}`, http.StatusBadRequest, "invalid_characters"},
		{"missing email", `{"username":"carl"}`, http.StatusBadRequest, "required"},
		{"username taken", `{"username":"bob","email":"other@example.com"}`, http.StatusBadRequest, "username_taken"},
		{"email taken", `{"username":"bobby","email":"bob@example.com"}`, http.StatusBadRequest, "email_taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := env.post(t, "/auth/signup", tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.False(t, body.Success)
			assert.Contains(t, string(body.Data), `"code":"`+tt.code+`"`)
		})
	}

	w, _ := env.post(t, "/auth/signup", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenErrors(t *testing.T) {
	env := newTestEnv(t)
	env.post(t, "/auth/signup", `{"username":"dora","email":"dora@example.com"}`)
	env.accts.Wait()

	w, _ := env.post(t, "/auth/token", `{"username":"nobody","confirmation_code":"abc"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body := env.post(t, "/auth/token", `{"username":"dora","confirmation_code":"wrong"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(body.Data), `"bad_code"`)

	w, body = env.post(t, "/auth/token", `{"confirmation_code":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, string(body.Data), `"required"`)
}

func TestFailMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{apperr.Validation(apperr.YearOutOfRange, "year", "bad"), http.StatusBadRequest},
		{apperr.Conflict(apperr.SlugTaken, "dup"), http.StatusBadRequest},
		{apperr.NotFound("title", "1"), http.StatusNotFound},
		{&apperr.AuthorizationError{Action: "create", Kind: "title", Anonymous: true}, http.StatusUnauthorized},
		{&apperr.AuthorizationError{Action: "create", Kind: "title"}, http.StatusForbidden},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		fail(c, tt.err)
		assert.Equal(t, tt.status, w.Code, "%v", tt.err)
	}
}

func TestMe(t *testing.T) {
	store := &userStore{}
	_, err := store.Upsert(context.Background(), &model.User{Username: "erin", Email: "erin@example.com", Role: model.RoleUser})
	require.NoError(t, err)

	h := &Handler{}
	r := gin.New()
	r.Use(asUser(store))
	r.GET("/users/me", h.Me)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	req.Header.Set("X-Test-User", "erin")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"erin"`)
	assert.NotContains(t, w.Body.String(), "confirmation_code")
}

func TestPaginate(t *testing.T) {
	h := &Handler{Config: &config.Config{PageSize: 2}}
	newContext := func(target string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		return c
	}

	c := newContext("http://api.test/api/v1/titles?page=2&year=1999")
	p := h.pageParams(c)
	assert.Equal(t, 2, p.limit())
	assert.Equal(t, 2, p.offset())

	out := paginate(c, p, 5, []int{3, 4})
	require.NotNil(t, out.Next)
	require.NotNil(t, out.Previous)
	assert.Equal(t, "http://api.test/api/v1/titles?page=3&year=1999", *out.Next)
	assert.Equal(t, "http://api.test/api/v1/titles?year=1999", *out.Previous)

	for _, raw := range []string{"zzz", "0", "-3"} {
		c = newContext("http://api.test/api/v1/titles?page=" + raw)
		p = h.pageParams(c)
		out = paginate(c, p, 2, nil)
		assert.Equal(t, 0, p.offset(), raw)
		assert.Nil(t, out.Next, raw)
		assert.Nil(t, out.Previous, raw)
	}

	// 超出末页：无下一页，上一页仍指向前一页
	c = newContext("http://api.test/api/v1/titles?page=9")
	p = h.pageParams(c)
	assert.Equal(t, 16, p.offset())
	out = paginate(c, p, 5, []int{})
	assert.Nil(t, out.Next)
	require.NotNil(t, out.Previous)
	assert.Equal(t, "http://api.test/api/v1/titles?page=8", *out.Previous)
	assert.Equal(t, int64(5), out.Count)
}

func TestBindingTags(t *testing.T) {
	r := gin.New()
	r.GET("/titles", func(c *gin.Context) {
		var q titleListQuery
		if err := c.ShouldBindQuery(&q); err != nil {
			badJSON(c, err)
			return
		}
		c.JSON(http.StatusOK, q)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/titles?genre=drama&year=2001", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/titles?genre=bad%20slug", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"field":"genre"`)
}

// ratedTitles 仅支持按 ID 查询的作品存储
type ratedTitles struct {
	service.TitleStore
	mu     sync.Mutex
	rating map[uint]*float64
}

func (s *ratedTitles) FindByID(_ context.Context, id uint) (*model.Title, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.Title{ID: id, Name: "Nostalghia", Year: 1983, Rating: s.rating[id]}, nil
}

func (s *ratedTitles) setRating(id uint, v *float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rating[id] = v
}

func TestDeleteUserRefreshesTitleRating(t *testing.T) {
	env := newTestEnv(t)
	env.store.users = append(env.store.users,
		&model.User{ID: 1, Username: "root", Email: "root@example.com", Role: model.RoleAdmin},
		&model.User{ID: 2, Username: "critic", Email: "critic@example.com", Role: model.RoleUser},
	)
	titles := &ratedTitles{rating: make(map[uint]*float64)}
	score := 9.0
	titles.setRating(7, &score)

	h := &Handler{Config: &config.Config{PageSize: 2}, Accounts: env.accts,
		Catalog: service.NewCatalogService(titles, nil, nil)}
	r := gin.New()
	r.Use(asUser(env.store))
	r.GET("/titles/:title_id", h.GetTitle)
	r.DELETE("/users/:username", h.DeleteUser)

	get := func() string {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/titles/7", nil))
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}
	assert.Contains(t, get(), `"rating":9`)

	// critic 的唯一评论随账号级联删除
	titles.setRating(7, nil)
	req := httptest.NewRequest(http.MethodDelete, "/users/critic", nil)
	req.Header.Set("X-Test-User", "root")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Contains(t, get(), `"rating":null`)
}
