package server

import (
	"errors"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListComments returns every comment, grouped by author id ascending and
// newest-first within each group, with the author and the parent post (plus
// the post's author) eagerly joined.
func (s *Server) ListComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	comments, err := s.commentRepo.ListAll(ctx)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(comments)
}

// ListCommentsByPost returns the comments of one post, newest-first, each with
// its author joined. A post with no comments yields 200 and an empty array;
// only a missing post yields 404, so the post's existence is checked up front.
func (s *Server) ListCommentsByPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	postID, err := s.parseID(c, "post_id", "post ID")
	if err != nil {
		return nil
	}

	exists, err := s.postRepo.Exists(ctx, postID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if !exists {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("post", postID))
	}

	comments := make([]*models.Comment, 0)
	err = cache.CacheAside(ctx, cache.PostCommentsKey(postID), &comments, cache.PostCommentsTTL, func() error {
		list, listErr := s.commentRepo.ListByPost(ctx, postID)
		if listErr != nil {
			return listErr
		}
		comments = list
		return nil
	})
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(comments)
}

// GetComment returns a single comment with its author and parent post (the
// post carrying its own author) eagerly joined.
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("comment", id))
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(comment)
}

// CreateComment creates a comment on a post (protected). The author is always
// the authenticated user from the request context; a user_id in the body is
// ignored. Write failures on this operation are client errors.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()
	userID := c.Locals("userID").(uint)

	var req struct {
		Text   string `json:"text"`
		PostID uint   `json:"post_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Text is required"))
	}
	if req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Post ID is required"))
	}

	comment := &models.Comment{
		Text:   req.Text,
		PostID: req.PostID,
		UserID: userID,
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		// Constraint violations (e.g. unknown post) are client errors here,
		// unlike the other comment operations.
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Failed to create comment: "+err.Error()))
	}

	cache.InvalidatePostComments(ctx, req.PostID)

	return c.JSON(comment)
}

// UpdateComment performs a bulk update of the comment text scoped to a single
// id and reports the affected row count. Any authenticated user may update
// any comment.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Text == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Text is required"))
	}

	// Best-effort lookup of the parent post for cache invalidation; the
	// bulk update below is the authoritative existence check.
	postID, _ := s.commentRepo.GetPostID(ctx, id)

	rows, err := s.commentRepo.UpdateText(ctx, id, req.Text)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if rows == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("comment", id))
	}

	if postID != 0 {
		cache.InvalidatePostComments(ctx, postID)
	}

	return c.JSON(fiber.Map{"updated": rows})
}

// DeleteComment physically removes the comment row and reports the removed
// row count. Any authenticated user may delete any comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := s.parseID(c, "id", "comment ID")
	if err != nil {
		return nil
	}

	// Parent post id must be read before the row disappears.
	postID, _ := s.commentRepo.GetPostID(ctx, id)

	rows, err := s.commentRepo.Delete(ctx, id)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	if rows == 0 {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("comment", id))
	}

	if postID != 0 {
		cache.InvalidatePostComments(ctx, postID)
	}

	return c.JSON(fiber.Map{"deleted": rows})
}
