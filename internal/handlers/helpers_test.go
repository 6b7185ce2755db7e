package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/circleone/member-directory/internal/constants"
	"github.com/circleone/member-directory/internal/database"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/middleware"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/circleone/member-directory/internal/services"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerTestEnv struct {
	ctx      context.Context
	db       *gorm.DB
	router   *gin.Engine
	images   *fakeHost
	users    repository.UserRepository
	listings repository.BusinessRepository
	profiles repository.ProfileRepository

	authService     *services.AuthService
	identityService *services.IdentityService
	accountService  *services.AccountService
	businessService *services.BusinessService
	profileService  *services.ProfileService
}

// setupHandlerTestEnv builds a router with sessions and session loading.
// Tests register the routes they exercise. Two helper routes are always present:
// /test/session/:id signs a user in and /test/flashes drains the flash queue.
func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	log := logging.Nop()
	env := &handlerTestEnv{
		ctx:      context.Background(),
		db:       db,
		images:   &fakeHost{},
		users:    repository.NewUserRepository(db),
		listings: repository.NewBusinessRepository(db),
		profiles: repository.NewProfileRepository(db),
	}
	env.authService = services.NewAuthService(env.users, log)
	env.identityService = services.NewIdentityService(env.users, services.LinkMerge, log)
	env.accountService = services.NewAccountService(env.users, env.listings, env.profiles, env.images, log)
	env.businessService = services.NewBusinessService(env.listings, env.images, log)
	env.profileService = services.NewProfileService(env.profiles, log)

	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	r.Use(middleware.LoadSession(env.users, log))

	r.GET("/test/session/:id", func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.Param("id"), 10, 64)
		if err := middleware.Establish(c, id); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	r.GET("/test/flashes", func(c *gin.Context) {
		c.JSON(http.StatusOK, middleware.Flashes(c))
	})
	r.GET("/test/whoami", func(c *gin.Context) {
		id, _ := middleware.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})

	env.router = r
	return env
}

func (e *handlerTestEnv) createUser(t *testing.T, username, name string) *models.User {
	t.Helper()
	email := username + "@example.com"
	user := &models.User{Username: &username, Email: &email, Name: name, OAuthProvider: "local", ThemePreference: "light"}
	require.NoError(t, e.users.Create(e.ctx, user))
	return user
}

// client carries the session cookie between requests like a browser.
type client struct {
	t       *testing.T
	router  *gin.Engine
	cookies map[string]*http.Cookie
	accept  string
}

func (e *handlerTestEnv) client(t *testing.T) *client {
	return &client{t: t, router: e.router, cookies: map[string]*http.Cookie{}}
}

// signedIn returns a client whose session belongs to user.
func (e *handlerTestEnv) signedIn(t *testing.T, user *models.User) *client {
	t.Helper()
	cl := e.client(t)
	w := cl.get(fmt.Sprintf("/test/session/%d", user.ID))
	require.Equal(t, http.StatusNoContent, w.Code)
	return cl
}

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	cl.t.Helper()
	for _, ck := range cl.cookies {
		req.AddCookie(ck)
	}
	if cl.accept != "" {
		req.Header.Set("Accept", cl.accept)
	}
	w := httptest.NewRecorder()
	cl.router.ServeHTTP(w, req)
	// Each session save emits a Set-Cookie; the last one wins.
	for _, ck := range w.Result().Cookies() {
		cl.cookies[ck.Name] = ck
	}
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

func (cl *client) postJSON(path string, payload any) *httptest.ResponseRecorder {
	cl.t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(cl.t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return cl.do(req)
}

// postMultipart sends fields plus an optional file under fileField.
func (cl *client) postMultipart(path string, fields map[string]string, fileField, filename string, content []byte) *httptest.ResponseRecorder {
	cl.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(cl.t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(cl.t, err)
		_, err = fw.Write(content)
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func (cl *client) flashes() []middleware.Flash {
	cl.t.Helper()
	w := cl.get("/test/flashes")
	var out []middleware.Flash
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func (cl *client) whoami() uint64 {
	cl.t.Helper()
	w := cl.get("/test/whoami")
	var out struct {
		UserID uint64 `json:"user_id"`
	}
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &out))
	return out.UserID
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// fakeHost records uploads and deletions instead of talking to object storage.
type fakeHost struct {
	mu      sync.Mutex
	uploads []string
	deleted []string
}

func (f *fakeHost) Upload(_ context.Context, r io.Reader, filename, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	location := fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, len(f.uploads)+1, strings.ToLower(filename))
	f.uploads = append(f.uploads, location)
	return location, nil
}

func (f *fakeHost) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}
