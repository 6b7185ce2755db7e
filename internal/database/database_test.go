package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/circleone/member-directory/internal/config"
	"github.com/circleone/member-directory/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector_SelectsDriver(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{"postgres url", config.Config{DatabaseURL: "postgres://u:p@db:5432/app"}, "postgres"},
		{"postgresql url", config.Config{DatabaseURL: "postgresql://u:p@db:5432/app"}, "postgres"},
		{"mysql url", config.Config{DatabaseURL: "mysql://u:p@db:3306/app"}, "mysql"},
		{"sqlite url", config.Config{DatabaseURL: "sqlite://data.db"}, "sqlite"},
		{"mysql host", config.Config{DBHost: "db", DBPort: "3306", DBUser: "u", DBName: "app"}, "mysql"},
		{"default", config.Config{}, "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, driver := Dialector(&tt.cfg)
			assert.NotNil(t, d)
			assert.Equal(t, tt.want, driver)
		})
	}
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "app.db?_foreign_keys=on", sqliteDSN("app.db"))
	assert.Equal(t, "file:app.db?cache=shared&_foreign_keys=on", sqliteDSN("file:app.db?cache=shared"))
	assert.Equal(t, "app.db?_fk=1", sqliteDSN("app.db?_fk=1"))
}

func TestDialector_SQLiteEnforcesForeignKeysOnEveryConnection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fk.db")
	d, _ := Dialector(&config.Config{DatabaseURL: "sqlite://" + path})
	db, err := gorm.Open(d, &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		conn, err := sqlDB.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		var enabled int
		require.NoError(t, conn.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&enabled))
		assert.Equal(t, 1, enabled, "connection %d", i)
	}

	require.NoError(t, Migrate(db))
	err = db.Omit("Owner").Create(&models.BusinessListing{UserID: 999, BusinessName: "Orphan", Category: "Food"}).Error
	assert.Error(t, err)
}

func TestMySQLDSNFromURL(t *testing.T) {
	assert.Equal(t,
		"user:pass@tcp(db:3306)/circleone?charset=utf8mb4&parseTime=True&loc=Local",
		mysqlDSNFromURL("mysql://user:pass@db:3306/circleone?tls=false"),
	)
	assert.Equal(t,
		"@tcp(localhost:3306)/app?charset=utf8mb4&parseTime=True&loc=Local",
		mysqlDSNFromURL("mysql://localhost:3306/app"),
	)
}

func TestMigrateDatabase_AutoMigrateOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, MigrateDatabase(context.Background(), db, "sqlite", true))

	for _, table := range []string{"users", "business_listings", "professional_profiles"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestScopes_ContainsFoldAndMostViewed(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	owner := models.User{Name: "Owner"}
	require.NoError(t, db.Create(&owner).Error)
	listings := []models.BusinessListing{
		{UserID: owner.ID, BusinessName: "Joe's Cafe", Category: "Food", ViewCount: 1},
		{UserID: owner.ID, BusinessName: "Hardware", Category: "Retail", Description: "tools and COFFEE", ViewCount: 5},
		{UserID: owner.ID, BusinessName: "Books", Category: "Retail"},
	}
	require.NoError(t, db.Create(&listings).Error)

	var found []models.BusinessListing
	err = db.Scopes(ContainsFold("cafe", "business_name", "description"), MostViewed("business_listings")).
		Find(&found).Error
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Joe's Cafe", found[0].BusinessName)

	found = nil
	err = db.Scopes(ContainsFold("coffee", "business_name", "description"), MostViewed("business_listings")).
		Find(&found).Error
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Hardware", found[0].BusinessName)
}
