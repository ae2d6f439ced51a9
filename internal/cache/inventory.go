package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	PostKeyPrefix         = "post:%d"
	PostCommentsKeyPrefix = "post:%d:comments"
)

const (
	PostTTL         = 30 * time.Minute
	PostCommentsTTL = 2 * time.Minute
)

func PostKey(postID uint) string {
	return fmt.Sprintf(PostKeyPrefix, postID)
}

func PostCommentsKey(postID uint) string {
	return fmt.Sprintf(PostCommentsKeyPrefix, postID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidatePost(ctx context.Context, postID uint) {
	Invalidate(ctx, PostKey(postID))
}

func InvalidatePostComments(ctx context.Context, postID uint) {
	Invalidate(ctx, PostCommentsKey(postID))
}
