package gormrepo

import (
	"context"
	"log"
	"sync"

	"kampusconnect.id/forum/internal/repository"
)

// Change events carry no payload: a subscriber re-queries its filtered set on
// every event, which keeps delivery ordering trivial and matches the
// snapshot-per-change contract the frontend expects.
const changeChannelPrefix = "kampusconnect:changes:"

const (
	collectionUsers         = "users"
	collectionPosts         = "posts"
	collectionComments      = "comments"
	collectionNotifications = "notifications"
)

// publishChange signals that a collection changed. Failure to publish only
// costs subscribers a refresh, so it is logged and swallowed.
func (b *Backend) publishChange(ctx context.Context, collection string) {
	if b.redis == nil {
		return
	}
	if err := b.redis.Publish(ctx, changeChannelPrefix+collection, "1").Err(); err != nil {
		log.Printf("failed to publish %s change event: %v", collection, err)
	}
}

// subscribeChanges invokes refresh immediately with the current state, then
// again after every change event for the collection. The returned
// unsubscribe is safe to call multiple times.
func (b *Backend) subscribeChanges(collection string, refresh func()) repository.Unsubscribe {
	refresh()

	if b.redis == nil {
		var once sync.Once
		return func() { once.Do(func() {}) }
	}

	ctx, cancel := context.WithCancel(context.Background())
	pubsub := b.redis.Subscribe(ctx, changeChannelPrefix+collection)

	go func() {
		for range pubsub.Channel() {
			refresh()
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			if err := pubsub.Close(); err != nil {
				log.Printf("failed to close %s change subscription: %v", collection, err)
			}
		})
	}
}
