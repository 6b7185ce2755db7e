package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/circleone/member-directory/internal/database"
	"github.com/circleone/member-directory/internal/logging"
	"github.com/circleone/member-directory/internal/models"
	"github.com/circleone/member-directory/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	ctx          context.Context
	db           *gorm.DB
	userRepo     repository.UserRepository
	businessRepo repository.BusinessRepository
	profileRepo  repository.ProfileRepository
	images       *fakeHost
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, database.Migrate(db))

	return testEnv{
		ctx:          context.Background(),
		db:           db,
		userRepo:     repository.NewUserRepository(db),
		businessRepo: repository.NewBusinessRepository(db),
		profileRepo:  repository.NewProfileRepository(db),
		images:       &fakeHost{},
	}
}

func (e testEnv) createUser(t *testing.T, username, name string) *models.User {
	t.Helper()
	email := username + "@example.com"
	user := &models.User{Username: &username, Email: &email, Name: name, OAuthProvider: "local", ThemePreference: "light"}
	require.NoError(t, e.userRepo.Create(e.ctx, user))
	return user
}

func (e testEnv) countUsers(t *testing.T) int64 {
	t.Helper()
	n, err := e.userRepo.Count(e.ctx)
	require.NoError(t, err)
	return n
}

func nopLog() logging.Logger { return logging.Nop() }

// fakeHost records uploads and deletions instead of talking to object storage.
type fakeHost struct {
	mu        sync.Mutex
	uploads   []string
	deleted   []string
	uploadErr error
}

func (f *fakeHost) Upload(_ context.Context, r io.Reader, filename, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("https://cdn.test/%s/%d-%s", folder, len(f.uploads)+1, strings.ToLower(filename))
	f.uploads = append(f.uploads, url)
	return url, nil
}

func (f *fakeHost) Delete(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, url)
	return nil
}

func idPtr(v uint64) *uint64 { return &v }
