// Package seed provides helpers to create demo data for the application
// database. Intended for development and testing only.
package seed

import (
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Options controls how much data the seeder generates.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
	// Password is the plaintext password assigned to every seeded user.
	Password string
}

// DefaultOptions returns a sensible demo dataset size.
func DefaultOptions() Options {
	return Options{
		Users:           10,
		PostsPerUser:    3,
		CommentsPerPost: 5,
		Password:        "password123",
	}
}

// Seeder populates the database with generated users, posts and comments.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
	opts    Options
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db, opts), opts: opts}
}

// ClearAll removes all seeded rows. Comment rows go first since they
// reference both other tables.
func (s *Seeder) ClearAll() error {
	for _, stmt := range []string{
		"DELETE FROM comments",
		"DELETE FROM posts",
		"DELETE FROM users",
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup failed on %q: %w", stmt, err)
		}
	}
	return nil
}

// Run generates the dataset described by the seeder's options.
func (s *Seeder) Run() error {
	users := make([]*models.User, 0, s.opts.Users)
	for i := 0; i < s.opts.Users; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return fmt.Errorf("seeding user %d: %w", i, err)
		}
		users = append(users, user)
	}
	log.Printf("Seeded %d users", len(users))

	posts := make([]*models.Post, 0, s.opts.Users*s.opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			post, err := s.factory.CreatePost(user)
			if err != nil {
				return fmt.Errorf("seeding post for user %d: %w", user.ID, err)
			}
			posts = append(posts, post)
		}
	}
	log.Printf("Seeded %d posts", len(posts))

	total := 0
	for _, post := range posts {
		for i := 0; i < s.opts.CommentsPerPost; i++ {
			commenter := users[(int(post.ID)+i)%len(users)]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return fmt.Errorf("seeding comment on post %d: %w", post.ID, err)
			}
			total++
		}
	}
	log.Printf("Seeded %d comments", total)

	return nil
}
