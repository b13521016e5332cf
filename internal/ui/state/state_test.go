package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Its-donkey/admin-picker/internal/ui/model"
)

func TestSwitchTabIsIdempotent(t *testing.T) {
	app := New()
	require.Equal(t, TabAvailable, app.CurrentTab())

	changed, err := app.SwitchTab(TabUnavailable)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = app.SwitchTab(TabUnavailable)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, TabUnavailable, app.CurrentTab())

	_, err = app.SwitchTab("settings")
	assert.ErrorIs(t, err, ErrUnknownTab)
	assert.Equal(t, TabUnavailable, app.CurrentTab())
}

func TestReplaceAndFailLoad(t *testing.T) {
	app := New()
	app.BeginLoad()
	assert.True(t, app.Snapshot().Loading)

	app.ReplaceAdmins([]model.Admin{{Tag: "alice", Status: model.StatusAvailable}})
	snap := app.Snapshot()
	assert.False(t, snap.Loading)
	assert.True(t, snap.Loaded)
	assert.Len(t, snap.Admins, 1)

	app.FailLoad("HTTP 500: Internal Server Error")
	snap = app.Snapshot()
	assert.Empty(t, snap.Admins)
	assert.Equal(t, "HTTP 500: Internal Server Error", snap.LoadError)

	app.ReplaceAdmins(nil)
	assert.Empty(t, app.Snapshot().LoadError)
}

func TestSnapshotIsACopy(t *testing.T) {
	app := New()
	app.ReplaceAdmins([]model.Admin{{Tag: "alice"}})

	snap := app.Snapshot()
	snap.Admins[0].Tag = "mallory"

	admin, ok := app.Find("alice")
	assert.True(t, ok)
	assert.Equal(t, "alice", admin.Tag)
}

func TestSelectionPhases(t *testing.T) {
	app := New()
	_, ok := app.BeginSubmit()
	assert.False(t, ok, "cannot submit without a selection")

	require.True(t, app.OpenSelection(model.Admin{Tag: "alice"}))
	assert.Equal(t, PhaseSelecting, app.Phase())

	admin, ok := app.BeginSubmit()
	require.True(t, ok)
	assert.Equal(t, "alice", admin.Tag)
	assert.Equal(t, PhaseSubmitting, app.Phase())

	assert.False(t, app.OpenSelection(model.Admin{Tag: "bob"}), "no new selection while submitting")

	assert.True(t, app.CloseSelection())
	assert.False(t, app.CloseSelection())
	_, ok = app.Selected()
	assert.False(t, ok)
}

func TestNoticeIsConsumedOnce(t *testing.T) {
	app := New()
	app.SetNotice(model.Notice{Kind: model.NoticeSuccess, Text: "ok"})

	n, ok := app.TakeNotice()
	require.True(t, ok)
	assert.Equal(t, "ok", n.Text)

	_, ok = app.TakeNotice()
	assert.False(t, ok)
}
