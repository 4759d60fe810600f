package executor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdeck/backend/internal/catalog"
	"github.com/launchdeck/backend/internal/infrastructure/logging"
	"github.com/launchdeck/backend/internal/shared/types"
)

// fakeOpener records every open attempt and fails until failUntil
// attempts have been made.
type fakeOpener struct {
	calls     []string
	failUntil int
}

func (o *fakeOpener) attempt(call string) error {
	o.calls = append(o.calls, call)
	if len(o.calls) <= o.failUntil {
		return errors.New("open failed")
	}
	return nil
}

func (o *fakeOpener) Open(ctx context.Context, target string) error {
	return o.attempt("open " + target)
}

func (o *fakeOpener) OpenApp(ctx context.Context, name string) error {
	return o.attempt("open -a " + name)
}

// staticResolver serves a fixed set of entries by id.
type staticResolver map[string]types.CommandEntry

func (r staticResolver) Find(ctx context.Context, id string) (types.CommandEntry, bool) {
	entry, ok := r[id]
	return entry, ok
}

func settingsCommand(target string) (string, staticResolver) {
	entry := types.CommandEntry{
		ID:       types.EntryID(types.CategorySettings, "Displays"),
		Title:    "Displays",
		Category: types.CategorySettings,
		Target:   target,
	}
	return entry.ID, staticResolver{entry.ID: entry}
}

func TestExecuteUnknownID(t *testing.T) {
	opener := &fakeOpener{}
	e := New(staticResolver{}, opener, logging.NewNop())

	assert.False(t, e.Execute(context.Background(), "application:ghost"))
	assert.Empty(t, opener.calls)
}

func TestExecuteApplication(t *testing.T) {
	entry := types.CommandEntry{
		ID:       types.EntryID(types.CategoryApplication, "Safari"),
		Title:    "Safari",
		Category: types.CategoryApplication,
		Target:   "/Applications/Safari.app",
	}
	opener := &fakeOpener{}
	e := New(staticResolver{entry.ID: entry}, opener, logging.NewNop())

	assert.True(t, e.Execute(context.Background(), entry.ID))
	assert.Equal(t, []string{"open /Applications/Safari.app"}, opener.calls)
}

func TestExecuteApplicationWithoutTarget(t *testing.T) {
	entry := types.CommandEntry{
		ID:       types.EntryID(types.CategoryApplication, "Broken"),
		Category: types.CategoryApplication,
	}
	opener := &fakeOpener{}
	e := New(staticResolver{entry.ID: entry}, opener, logging.NewNop())

	assert.False(t, e.Execute(context.Background(), entry.ID))
	assert.Empty(t, opener.calls)
}

func TestExecuteSettingsReverseDNSFirst(t *testing.T) {
	id, resolver := settingsCommand("com.apple.Displays-Settings.extension")
	opener := &fakeOpener{}
	e := New(resolver, opener, logging.NewNop())

	assert.True(t, e.Execute(context.Background(), id))
	require.Len(t, opener.calls, 1)
	assert.Equal(t, "open x-apple.systempreferences:com.apple.Displays-Settings.extension", opener.calls[0])
}

func TestExecuteSettingsBareNameSkipsIdentifierScheme(t *testing.T) {
	id, resolver := settingsCommand("Displays")
	opener := &fakeOpener{}
	e := New(resolver, opener, logging.NewNop())

	assert.True(t, e.Execute(context.Background(), id))
	// A bare pane name cannot be opened as an identifier; the extension
	// scheme is the first real attempt.
	require.Len(t, opener.calls, 1)
	assert.Equal(t, "open x-apple.systempreferences:com.apple.Displays-Settings.extension", opener.calls[0])
}

func TestExecuteSettingsFallbackOrder(t *testing.T) {
	id, resolver := settingsCommand("Displays")
	opener := &fakeOpener{failUntil: 3}
	e := New(resolver, opener, logging.NewNop())

	assert.True(t, e.Execute(context.Background(), id))
	assert.Equal(t, []string{
		"open x-apple.systempreferences:com.apple.Displays-Settings.extension",
		"open x-apple.systempreferences:com.apple.preference.displays",
		"open -a System Settings",
		"open -a System Preferences",
	}, opener.calls)
}

func TestExecuteSettingsExhausted(t *testing.T) {
	id, resolver := settingsCommand("com.apple.Displays-Settings.extension")
	opener := &fakeOpener{failUntil: 99}
	e := New(resolver, opener, logging.NewNop())

	assert.False(t, e.Execute(context.Background(), id))
	assert.Len(t, opener.calls, 5, "every strategy attempted before giving up")
}

func TestExecuteQuit(t *testing.T) {
	entry := types.CommandEntry{
		ID:       catalog.QuitID,
		Title:    "Quit LaunchDeck",
		Category: types.CategorySystem,
	}
	quit := false
	e := New(staticResolver{entry.ID: entry}, &fakeOpener{}, logging.NewNop()).
		WithShutdown(func() { quit = true })

	assert.True(t, e.Execute(context.Background(), entry.ID))
	assert.True(t, quit)
}

func TestExecuteQuitWithoutHook(t *testing.T) {
	entry := types.CommandEntry{
		ID:       catalog.QuitID,
		Category: types.CategorySystem,
	}
	e := New(staticResolver{entry.ID: entry}, &fakeOpener{}, logging.NewNop())

	assert.False(t, e.Execute(context.Background(), entry.ID))
}

func TestIsReverseDNS(t *testing.T) {
	assert.True(t, isReverseDNS("com.apple.Displays-Settings.extension"))
	assert.True(t, isReverseDNS("com.apple.preference.network"))
	assert.False(t, isReverseDNS("Displays"))
	assert.False(t, isReverseDNS("com.apple"))
	assert.False(t, isReverseDNS("/Applications/Safari.app"))
}
