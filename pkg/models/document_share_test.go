package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSharePermission_AtLeast(t *testing.T) {
	assert.True(t, SharePermissionAdmin.AtLeast(SharePermissionView))
	assert.True(t, SharePermissionAdmin.AtLeast(SharePermissionAdmin))
	assert.True(t, SharePermissionEdit.AtLeast(SharePermissionView))
	assert.False(t, SharePermissionView.AtLeast(SharePermissionEdit))
	assert.False(t, SharePermissionView.AtLeast(SharePermissionAdmin))

	t.Run("empty permission satisfies nothing", func(t *testing.T) {
		var none SharePermission
		assert.False(t, none.AtLeast(SharePermissionView))
		assert.False(t, none.AtLeast(none))
	})
}

func TestSharePermission_IsValid(t *testing.T) {
	assert.True(t, SharePermissionView.IsValid())
	assert.True(t, SharePermissionEdit.IsValid())
	assert.True(t, SharePermissionAdmin.IsValid())
	assert.False(t, SharePermission("owner").IsValid())
	assert.False(t, SharePermission("").IsValid())
}

func TestDocumentShare_IsLive(t *testing.T) {
	now := time.Now()

	t.Run("no expiry never expires", func(t *testing.T) {
		share := &DocumentShare{}
		assert.True(t, share.IsLive(now))
	})

	t.Run("future expiry is live", func(t *testing.T) {
		expiry := now.Add(time.Minute)
		share := &DocumentShare{ExpiresAt: &expiry}
		assert.True(t, share.IsLive(now))
	})

	t.Run("past expiry is dead", func(t *testing.T) {
		expiry := now.Add(-time.Minute)
		share := &DocumentShare{ExpiresAt: &expiry}
		assert.False(t, share.IsLive(now))
	})
}
