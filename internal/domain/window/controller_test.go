package window_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GriffinCanCode/agentshell/internal/domain/events"
	"github.com/GriffinCanCode/agentshell/internal/domain/window"
	"github.com/GriffinCanCode/agentshell/internal/domain/window/windowtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name    events.Name
	payload interface{}
}

type recorder struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (r *recorder) Publish(name events.Name, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, recordedEvent{name, payload})
}

func (r *recorder) all() []recordedEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recordedEvent(nil), r.events...)
}

func newController(t *testing.T) (*window.Controller, *windowtest.Factory, *recorder) {
	t.Helper()
	factory := &windowtest.Factory{}
	rec := &recorder{}
	return window.NewController(factory, window.DefaultOptions("linux"), rec, nil), factory, rec
}

func TestDefaultOptions(t *testing.T) {
	linux := window.DefaultOptions("linux")
	assert.Equal(t, 1200, linux.Width)
	assert.Equal(t, 800, linux.Height)
	assert.Equal(t, 450, linux.MinWidth)
	assert.Equal(t, 500, linux.MinHeight)
	assert.True(t, linux.Frameless)
	assert.False(t, linux.Background.Translucent)
	assert.Equal(t, uint8(0xff), linux.Background.Colour.A)

	mac := window.DefaultOptions("darwin")
	assert.True(t, mac.Background.Translucent)
	assert.Equal(t, uint8(0), mac.Background.Colour.A)

	assert.Equal(t, linux.Background, window.DefaultOptions("windows").Background)
}

func TestCommandsWithoutWindowAreNoOps(t *testing.T) {
	c, factory, rec := newController(t)

	assert.NotPanics(t, func() {
		c.Minimize()
		c.ToggleMaximize()
		c.Close()
		c.Closed()
		c.Ready()
		c.MaximizeChanged(true)
	})
	assert.False(t, c.IsMaximized())
	assert.False(t, c.HasWindow())

	path, ok, err := c.OpenDirectoryDialog(context.Background(), "Pick")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, path)

	assert.Zero(t, factory.Created())
	assert.Empty(t, rec.all())
}

func TestCreateIsHiddenUntilReady(t *testing.T) {
	c, factory, _ := newController(t)

	_, err := c.Create(context.Background())
	require.NoError(t, err)

	h := factory.Last()
	require.NotNil(t, h)
	assert.Equal(t, 0, h.ShowCount())
	assert.False(t, c.State().Visible)

	c.Ready()
	c.Ready()

	assert.Equal(t, 1, h.ShowCount(), "ready is one-shot")
	assert.True(t, c.State().Visible)
}

func TestCreateKeepsSingleWindow(t *testing.T) {
	c, factory, _ := newController(t)
	ctx := context.Background()

	first, err := c.Create(ctx)
	require.NoError(t, err)
	second, err := c.Create(ctx)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, factory.Created())
}

func TestCreatePassesOptions(t *testing.T) {
	c, factory, _ := newController(t)

	_, err := c.Create(context.Background())
	require.NoError(t, err)

	assert.Equal(t, window.DefaultOptions("linux"), factory.Last().Opts)
}

func TestCreateFailure(t *testing.T) {
	c, factory, _ := newController(t)
	factory.Fail = true

	_, err := c.Create(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, windowtest.ErrCreate))
	assert.False(t, c.HasWindow())

	// The next attempt succeeds.
	require.NoError(t, c.Activate(context.Background()))
	assert.True(t, c.HasWindow())
}

func TestCreateThenMaximize(t *testing.T) {
	c, _, rec := newController(t)

	_, err := c.Create(context.Background())
	require.NoError(t, err)

	c.ToggleMaximize()

	assert.True(t, c.IsMaximized())
	assert.Equal(t, []recordedEvent{{events.WindowMaximizeChanged, true}}, rec.all())

	c.ToggleMaximize()

	assert.False(t, c.IsMaximized())
	assert.Equal(t, []recordedEvent{
		{events.WindowMaximizeChanged, true},
		{events.WindowMaximizeChanged, false},
	}, rec.all())
}

func TestMaximizeChangedDeduplicates(t *testing.T) {
	c, factory, rec := newController(t)
	_, err := c.Create(context.Background())
	require.NoError(t, err)

	factory.Last().SetMaximized(true)
	c.MaximizeChanged(true)
	c.MaximizeChanged(true)
	c.MaximizeChanged(false)

	assert.Len(t, rec.all(), 2)
}

func TestIsMaximizedFalseAfterClose(t *testing.T) {
	c, factory, _ := newController(t)
	_, err := c.Create(context.Background())
	require.NoError(t, err)

	c.ToggleMaximize()
	require.True(t, c.IsMaximized())

	c.Close()

	assert.True(t, factory.Last().Closed())
	assert.False(t, c.IsMaximized())
	assert.Equal(t, window.State{}, c.State())
}

func TestMinimize(t *testing.T) {
	c, factory, _ := newController(t)
	_, err := c.Create(context.Background())
	require.NoError(t, err)

	c.Minimize()

	assert.Equal(t, 1, factory.Last().MinimizeCount())
}

func TestActivate(t *testing.T) {
	c, factory, _ := newController(t)
	ctx := context.Background()

	require.NoError(t, c.Activate(ctx))
	require.NoError(t, c.Activate(ctx))
	assert.Equal(t, 1, factory.Created(), "activate with an open window is a no-op")

	c.Closed()
	require.NoError(t, c.Activate(ctx))
	assert.Equal(t, 2, factory.Created(), "activate with zero windows recreates")
	assert.False(t, c.State().Visible, "a recreated window waits for ready again")
}

func TestStaleHandleReportsAreIgnored(t *testing.T) {
	c, factory, rec := newController(t)
	ctx := context.Background()

	_, err := c.Create(ctx)
	require.NoError(t, err)
	c.Close()
	_, err = c.Create(ctx)
	require.NoError(t, err)

	// The old window flips to maximized after it was replaced.
	factory.Handles[0].SetMaximized(true)

	assert.False(t, c.IsMaximized())
	assert.Empty(t, rec.all())
}

func TestOpenDirectoryDialog(t *testing.T) {
	tests := []struct {
		name     string
		result   string
		err      error
		wantPath string
		wantOK   bool
		wantErr  bool
	}{
		{name: "selection", result: "/home/dev/skills", wantPath: "/home/dev/skills", wantOK: true},
		{name: "cancelled", result: "", wantOK: false},
		{name: "dialog failure", err: errors.New("portal unavailable"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, factory, _ := newController(t)
			factory.Configure = func(h *windowtest.Handle) {
				h.DirectoryResult = tt.result
				h.DirectoryErr = tt.err
			}
			_, err := c.Create(context.Background())
			require.NoError(t, err)

			path, ok, err := c.OpenDirectoryDialog(context.Background(), "Add skill folder")
			if tt.wantErr {
				assert.Error(t, err)
				assert.False(t, ok)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantPath, path)
		})
	}
}

func TestConcurrentCommands(t *testing.T) {
	c, factory, _ := newController(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			switch i % 5 {
			case 0:
				_ = c.Activate(ctx)
			case 1:
				c.ToggleMaximize()
			case 2:
				c.IsMaximized()
			case 3:
				c.Minimize()
			case 4:
				c.Ready()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, factory.Created())
}
