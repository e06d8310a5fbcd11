package rod_test

import (
	"testing"

	"github.com/fwojciec/newscrawl/rod"
	"github.com/stretchr/testify/assert"
)

func TestNewLauncher(t *testing.T) {
	t.Parallel()

	t.Run("headless sets the headless flag", func(t *testing.T) {
		t.Parallel()

		l := rod.NewLauncher(rod.BrowserConfig{Headless: true})

		assert.True(t, l.Has("headless"))
	})

	t.Run("headed launch drops the headless flag", func(t *testing.T) {
		t.Parallel()

		l := rod.NewLauncher(rod.BrowserConfig{Headless: false})

		assert.False(t, l.Has("headless"))
	})

	t.Run("user agent is set for the whole browser", func(t *testing.T) {
		t.Parallel()

		l := rod.NewLauncher(rod.BrowserConfig{Headless: true, UserAgent: "archive-bot/1.0"})

		assert.Equal(t, "archive-bot/1.0", l.Get("user-agent"))
	})

	t.Run("empty user agent leaves Chrome's default", func(t *testing.T) {
		t.Parallel()

		l := rod.NewLauncher(rod.BrowserConfig{Headless: true})

		assert.False(t, l.Has("user-agent"))
	})
}
