package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCenter_NotifyFansOutToSubscribers(t *testing.T) {
	c := NewCenter(time.Minute)
	sub := c.Subscribe()

	c.Notify("Favorites", "Dune added to favorites", SeveritySuccess)

	select {
	case n := <-sub:
		assert.Equal(t, "Favorites", n.Title)
		assert.Equal(t, "Dune added to favorites", n.Message)
		assert.Equal(t, SeveritySuccess, n.Severity)
		assert.NotEmpty(t, n.ID)
	case <-time.After(time.Second):
		t.Fatal("subscriber never received the notification")
	}
}

func TestCenter_NotifyNeverBlocksOnFullSubscriber(t *testing.T) {
	c := NewCenter(time.Minute)
	_ = c.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			c.Notify("Books", "refresh", SeverityInfo)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a full subscriber")
	}
}

func TestCenter_ActiveExpiresByTTL(t *testing.T) {
	c := NewCenter(time.Second)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	c.Notify("Books", "loaded", SeverityInfo)
	require.Len(t, c.Active(), 1)

	now = now.Add(2 * time.Second)
	assert.Empty(t, c.Active())
}

func TestNewCenter_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewCenter(0).TTL())
}
