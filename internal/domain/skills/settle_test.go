package skills

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCovers(t *testing.T) {
	cfg := Config{Paths: []string{"/a", "/b"}, URLs: []string{"https://x.dev/pack"}}

	full := []Source{
		{Location: "/a/one/SKILL.md"},
		{Location: "/b/two/SKILL.md"},
		{Location: "https://x.dev/pack/three"},
	}
	assert.True(t, Covers(cfg, full))
	assert.False(t, Covers(cfg, full[:2]))
	assert.True(t, Covers(Config{}, nil))
}

func TestCoversStopsAtSeparator(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		location string
		want     bool
	}{
		{"exact", "/a", "/a", true},
		{"child", "/a", "/a/one/SKILL.md", true},
		{"trailing slash entry", "/a/", "/a/one/SKILL.md", true},
		{"sibling with shared prefix", "/a", "/ab/one/SKILL.md", false},
		{"windows child", `C:\skills`, `C:\skills\one\SKILL.md`, true},
		{"windows sibling", `C:\skills`, `C:\skills2\one\SKILL.md`, false},
		{"url child", "https://x.dev/pack", "https://x.dev/pack/three", true},
		{"url sibling", "https://x.dev/pack", "https://x.dev/package/three", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Paths: []string{tt.entry}}
			assert.Equal(t, tt.want, Covers(cfg, []Source{{Location: tt.location}}))
		})
	}
}

func TestFixedDelay(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context) ([]Source, error) {
		calls++
		return []Source{{Name: "s"}}, nil
	}

	start := time.Now()
	got, err := FixedDelay{Delay: 20 * time.Millisecond}.Settle(context.Background(), Config{}, fetch)
	require.NoError(t, err)

	assert.Len(t, got, 1)
	assert.Equal(t, 1, calls)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelayCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FixedDelay{Delay: time.Hour}.Settle(ctx, Config{}, func(context.Context) ([]Source, error) {
		t.Fatal("fetch must not run after cancellation")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPollBackoff(t *testing.T) {
	cfg := Config{Paths: []string{"/p"}}

	t.Run("stops once the config is covered", func(t *testing.T) {
		calls := 0
		fetch := func(ctx context.Context) ([]Source, error) {
			calls++
			if calls < 3 {
				return nil, nil
			}
			return []Source{{Location: "/p/SKILL.md"}}, nil
		}

		got, err := PollBackoff{Initial: time.Millisecond, Attempts: 5}.Settle(context.Background(), cfg, fetch)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Len(t, got, 1)
	})

	t.Run("returns last result when attempts run out", func(t *testing.T) {
		calls := 0
		fetch := func(ctx context.Context) ([]Source, error) {
			calls++
			return []Source{{Location: "/elsewhere"}}, nil
		}

		got, err := PollBackoff{Initial: time.Millisecond, Attempts: 3}.Settle(context.Background(), cfg, fetch)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
		assert.Equal(t, "/elsewhere", got[0].Location)
	})

	t.Run("sibling directory does not stop polling", func(t *testing.T) {
		calls := 0
		fetch := func(ctx context.Context) ([]Source, error) {
			calls++
			return []Source{{Location: "/pp/SKILL.md"}}, nil
		}

		_, err := PollBackoff{Initial: time.Millisecond, Attempts: 3}.Settle(context.Background(), cfg, fetch)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("returns last error when attempts run out", func(t *testing.T) {
		boom := errors.New("boom")
		_, err := PollBackoff{Initial: time.Millisecond, Attempts: 2}.Settle(context.Background(), cfg,
			func(context.Context) ([]Source, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	})

	t.Run("zero attempts still fetches once", func(t *testing.T) {
		calls := 0
		_, err := PollBackoff{}.Settle(context.Background(), Config{}, func(context.Context) ([]Source, error) {
			calls++
			return nil, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}
