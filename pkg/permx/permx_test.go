package permx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	t.Run("ranks built-in permissions", func(t *testing.T) {
		cases := map[string]int{
			"admin": 100, "editor": 50, "viewer": 10, "user": 1,
		}
		for name, want := range cases {
			got, ok := Level(name)
			require.True(t, ok, name)
			require.Equal(t, want, got, name)
		}
	})

	t.Run("is case-insensitive", func(t *testing.T) {
		got, ok := Level("ADMIN")
		require.True(t, ok)
		require.Equal(t, 100, got)
	})

	t.Run("custom names have no rank", func(t *testing.T) {
		_, ok := Level("content-managers")
		require.False(t, ok)
	})
}

func TestMaxLevel(t *testing.T) {
	t.Parallel()

	require.Equal(t, 100, MaxLevel([]string{"viewer", "Admin", "custom"}))
	require.Equal(t, 0, MaxLevel([]string{"custom", "other"}))
	require.Equal(t, 0, MaxLevel(nil))
}

func TestHasLevel(t *testing.T) {
	t.Parallel()

	t.Run("higher rank satisfies lower requirement", func(t *testing.T) {
		require.True(t, HasLevel([]string{"admin"}, Editor))
		require.True(t, HasLevel([]string{"editor"}, Viewer))
		require.True(t, HasLevel([]string{"viewer"}, User))
	})

	t.Run("lower rank never satisfies higher requirement", func(t *testing.T) {
		require.False(t, HasLevel([]string{"editor"}, Admin))
		require.False(t, HasLevel([]string{"user"}, Viewer))
	})

	t.Run("direct membership satisfies", func(t *testing.T) {
		require.True(t, HasLevel([]string{"EDITOR"}, Editor))
	})

	t.Run("no groups satisfies nothing", func(t *testing.T) {
		require.False(t, HasLevel(nil, User))
	})
}

func TestHasGroupOrHigher(t *testing.T) {
	t.Parallel()

	t.Run("ranked names accept higher ranks", func(t *testing.T) {
		require.True(t, HasGroupOrHigher([]string{"admin"}, "viewer"))
	})

	t.Run("custom names require exact membership", func(t *testing.T) {
		// Admin rank does not substitute for a custom group.
		require.False(t, HasGroupOrHigher([]string{"admin"}, "content-managers"))
		require.True(t, HasGroupOrHigher([]string{"Content-Managers"}, "content-managers"))
	})
}

func TestHasAnyOf(t *testing.T) {
	t.Parallel()

	t.Run("one match suffices", func(t *testing.T) {
		require.True(t, HasAnyOf([]string{"editor"}, []string{"content-managers", "viewer"}))
	})

	t.Run("no match fails", func(t *testing.T) {
		require.False(t, HasAnyOf([]string{"user"}, []string{"content-managers", "editor"}))
	})

	t.Run("empty list matches nothing", func(t *testing.T) {
		require.False(t, HasAnyOf([]string{"admin"}, nil))
	})
}

func TestHasAllOf(t *testing.T) {
	t.Parallel()

	t.Run("requires every name", func(t *testing.T) {
		groups := []string{"content-managers", "viewer"}
		require.True(t, HasAllOf(groups, []string{"content-managers", "viewer"}, ""))
		require.False(t, HasAllOf(groups, []string{"content-managers", "editor"}, ""))
	})

	t.Run("higher permission escapes the whole list", func(t *testing.T) {
		require.True(t, HasAllOf([]string{"admin"}, []string{"content-managers", "editor"}, Admin))
		require.False(t, HasAllOf([]string{"editor"}, []string{"content-managers"}, Admin))
	})

	t.Run("empty list is vacuously true", func(t *testing.T) {
		require.True(t, HasAllOf(nil, nil, ""))
	})

	t.Run("ranked names inside the list still use hierarchy", func(t *testing.T) {
		require.True(t, HasAllOf([]string{"admin", "content-managers"},
			[]string{"viewer", "content-managers"}, ""))
	})
}

func TestRequirementAllows(t *testing.T) {
	t.Parallel()

	t.Run("level requirement", func(t *testing.T) {
		req := RequireLevel(Editor)
		require.True(t, req.Allows([]string{"admin"}))
		require.False(t, req.Allows([]string{"viewer"}))
	})

	t.Run("group requirement", func(t *testing.T) {
		req := RequireGroup("content-managers")
		require.True(t, req.Allows([]string{"content-managers"}))
		require.False(t, req.Allows([]string{"admin"}))
	})

	t.Run("any-of requirement", func(t *testing.T) {
		req := RequireAnyOf("content-managers", "editor")
		require.True(t, req.Allows([]string{"admin"}))
		require.False(t, req.Allows([]string{"user"}))
	})

	t.Run("all-of requirement with escape", func(t *testing.T) {
		req := RequireAllOf(Admin, "content-managers", "viewer")
		require.True(t, req.Allows([]string{"admin"}))
		require.True(t, req.Allows([]string{"content-managers", "viewer"}))
		require.False(t, req.Allows([]string{"content-managers"}))
	})
}
