package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"warbler/internal/model"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		dialect string
		wantErr bool
	}{
		{name: "postgres", url: "postgres://u:p@localhost:5432/warbler", dialect: "postgres"},
		{name: "postgresql without host", url: "postgresql:///warbler", dialect: "postgres"},
		{name: "mysql", url: "mysql://root:@tcp(127.0.0.1:3306)/warbler?parseTime=true", dialect: "mysql"},
		{name: "sqlite", url: "sqlite://warbler.db", dialect: "sqlite"},
		{name: "unknown scheme", url: "oracle://db", wantErr: true},
		{name: "empty", url: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Dialector(tt.url)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d.Name())
		})
	}
}

func TestMigrate_CreatesWarblerTables(t *testing.T) {
	d, err := Dialector("sqlite://:memory:")
	require.NoError(t, err)
	db, err := gorm.Open(d, GormConfig())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, Migrate(db))

	for _, table := range []interface{}{&model.User{}, &model.Message{}, &model.Follow{}, &model.Like{}} {
		assert.True(t, db.Migrator().HasTable(table))
	}
	assert.True(t, db.Migrator().HasConstraint(&model.Follow{}, "Follower"))
	assert.True(t, db.Migrator().HasConstraint(&model.Follow{}, "Followed"))
	assert.True(t, db.Migrator().HasConstraint(&model.Like{}, "User"))
	assert.True(t, db.Migrator().HasConstraint(&model.Like{}, "Message"))
}
