// Package events broadcasts feed changes to interested consumers. The server
// publishes one message per post mutation on a Redis pub/sub channel; clients
// such as websocket gateways subscribe out of process.
package events

import (
	"context"
	"encoding/json"

	"feedhub/internal/cache"
	"feedhub/internal/model"
)

// Actions carried by a PostEvent.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

const postsChannel = "feed:posts"

// PostEvent is the wire payload for one feed change.
type PostEvent struct {
	Action string      `json:"action"`
	Post   *model.Post `json:"post,omitempty"`
	PostID string      `json:"postId"`
}

// Publisher broadcasts feed changes. Implementations must be safe for
// concurrent use.
type Publisher interface {
	PostChanged(ctx context.Context, action string, post *model.Post)
}

// RedisPublisher publishes events on a Redis channel. Publishing is
// best-effort: a broadcast failure never fails the workflow that caused it.
type RedisPublisher struct {
	cache *cache.Client
}

// NewRedisPublisher creates a publisher on top of the shared Redis client.
func NewRedisPublisher(cache *cache.Client) *RedisPublisher {
	return &RedisPublisher{cache: cache}
}

// PostChanged broadcasts a single post mutation.
func (p *RedisPublisher) PostChanged(ctx context.Context, action string, post *model.Post) {
	event := PostEvent{Action: action, Post: post}
	if post != nil {
		event.PostID = post.ID.String()
	}
	if action == ActionDelete {
		// deletes carry the id only
		event.Post = nil
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = p.cache.Publish(ctx, postsChannel, payload)
}

// NopPublisher discards all events.
type NopPublisher struct{}

// PostChanged implements Publisher.
func (NopPublisher) PostChanged(context.Context, string, *model.Post) {}
