package seed

import (
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}))
	return db
}

func TestSeederRun(t *testing.T) {
	db := setupSeedDB(t)

	opts := Options{Users: 3, PostsPerUser: 2, CommentsPerPost: 4, Password: "password123"}
	seeder := NewSeeder(db, opts)
	require.NoError(t, seeder.Run())

	var users, posts, comments int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.Comment{}).Count(&comments).Error)

	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(6), posts)
	assert.Equal(t, int64(24), comments)

	// Every comment must reference an existing post and user.
	var orphans int64
	require.NoError(t, db.Model(&models.Comment{}).
		Where("post_id NOT IN (SELECT id FROM posts) OR user_id NOT IN (SELECT id FROM users)").
		Count(&orphans).Error)
	assert.Zero(t, orphans)

	// Comments are dated after their post.
	var misdated int64
	require.NoError(t, db.Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("comments.created_at <= posts.created_at").
		Count(&misdated).Error)
	assert.Zero(t, misdated)
}

func TestSeederClearAll(t *testing.T) {
	db := setupSeedDB(t)

	seeder := NewSeeder(db, Options{Users: 2, PostsPerUser: 1, CommentsPerPost: 1, Password: "password123"})
	require.NoError(t, seeder.Run())
	require.NoError(t, seeder.ClearAll())

	for _, model := range []any{&models.Comment{}, &models.Post{}, &models.User{}} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestFactoryOverrides(t *testing.T) {
	db := setupSeedDB(t)
	factory := NewFactory(db, Options{Password: "password123"})

	user, err := factory.CreateUser(func(u *models.User) {
		u.Username = "fixed-name"
	})
	require.NoError(t, err)
	assert.Equal(t, "fixed-name", user.Username)

	post, err := factory.CreatePost(user, func(p *models.Post) {
		p.Title = "Fixed Title"
	})
	require.NoError(t, err)
	assert.Equal(t, "Fixed Title", post.Title)
	assert.Equal(t, user.ID, post.UserID)
}
