package view

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/state"
)

var ru = i18n.Printer(language.Russian)

func panelByID(t *testing.T, page Page, id state.Tab) Panel {
	t.Helper()
	for _, p := range page.Panels {
		if p.ID == id {
			return p
		}
	}
	t.Fatalf("panel %s missing", id)
	return Panel{}
}

func TestPartitionPreservesOrderAndCoversEverything(t *testing.T) {
	admins := []model.Admin{
		{Tag: "a", Status: "available"},
		{Tag: "b", Status: "unavailable"},
		{Tag: "c", Status: "on-leave"},
		{Tag: "d", Status: "available"},
		{Tag: "e", Status: ""},
	}
	available, unavailable := Partition(admins)

	assert.Equal(t, []string{"a", "d"}, tags(available))
	assert.Equal(t, []string{"b", "c", "e"}, tags(unavailable))
	assert.Len(t, append(available, unavailable...), len(admins))
}

func tags(admins []model.Admin) []string {
	out := make([]string, 0, len(admins))
	for _, a := range admins {
		out = append(out, a.Tag)
	}
	return out
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "", FormatRating(0))
	assert.Equal(t, "", FormatRating(-1))
	assert.Equal(t, "⭐4.5", FormatRating(4.5))
	assert.Equal(t, "⭐4.0", FormatRating(4))
}

func TestCardDefaults(t *testing.T) {
	card := NewCard(model.Admin{Tag: "alice", Status: "available"}, ru)
	assert.Equal(t, "Администратор", card.Role)
	assert.Equal(t, "Администратор", card.Description)
	assert.Empty(t, card.Rating)
	assert.Equal(t, "Связаться", card.ActionLabel)
	assert.True(t, card.ActionEnabled)
	assert.True(t, card.Interactive)

	card = NewCard(model.Admin{Tag: "bob", Status: "unavailable", Role: "Support", Rating: 3}, ru)
	assert.Equal(t, "Support", card.Description)
	assert.Equal(t, "⭐3.0", card.Rating)
	assert.Equal(t, "🔴", card.StatusIcon)
	assert.Equal(t, "Недоступен", card.StatusText)
	assert.False(t, card.ActionEnabled)
	assert.False(t, card.Interactive)
}

func TestBuildAliceBobScenario(t *testing.T) {
	snap := state.Snapshot{
		Admins: []model.Admin{
			{Tag: "alice", Status: "available"},
			{Tag: "bob", Status: "unavailable"},
		},
		Loaded:     true,
		CurrentTab: state.TabAvailable,
	}
	page := Build(snap, ru, "ru")

	available := panelByID(t, page, state.TabAvailable)
	require.Len(t, available.Cards, 1)
	assert.Equal(t, "alice", available.Cards[0].Tag)
	assert.True(t, available.Cards[0].ActionEnabled)
	assert.Nil(t, available.Empty)

	unavailable := panelByID(t, page, state.TabUnavailable)
	require.Len(t, unavailable.Cards, 1)
	assert.Equal(t, "bob", unavailable.Cards[0].Tag)
	assert.False(t, unavailable.Cards[0].ActionEnabled)
	assert.Nil(t, unavailable.Empty)

	assert.True(t, available.Active)
	assert.False(t, unavailable.Active)
	assert.False(t, page.Dialog.Open)
}

func TestBuildEmptyPlaceholdersDiffer(t *testing.T) {
	empty := Build(state.Snapshot{Loaded: true, CurrentTab: state.TabAvailable}, ru, "ru")
	allBusy := Build(state.Snapshot{
		Loaded:     true,
		CurrentTab: state.TabAvailable,
		Admins:     []model.Admin{{Tag: "bob", Status: "unavailable"}},
	}, ru, "ru")

	emptyPanel := panelByID(t, empty, state.TabAvailable)
	busyPanel := panelByID(t, allBusy, state.TabAvailable)
	require.NotNil(t, emptyPanel.Empty)
	require.NotNil(t, busyPanel.Empty)

	assert.Equal(t, "Нет админов в базе", emptyPanel.Empty.Title)
	assert.Equal(t, "Администраторы еще не добавлены. Используйте команду /add_admin в боте.", emptyPanel.Empty.Description)
	assert.Equal(t, "Все админы заняты", busyPanel.Empty.Title)
	assert.Equal(t, "В данный момент все администраторы недоступны. Попробуйте позже.", busyPanel.Empty.Description)
	assert.NotEqual(t, emptyPanel.Empty.Title, busyPanel.Empty.Title)
}

func TestBuildConnectionErrorInBothPanels(t *testing.T) {
	page := Build(state.Snapshot{Loaded: true, LoadError: "dial tcp: connection refused", CurrentTab: state.TabAvailable}, ru, "ru")

	for _, panel := range page.Panels {
		require.NotNil(t, panel.Error, panel.ID)
		assert.Equal(t, "dial tcp: connection refused", panel.Error.Detail)
		assert.Equal(t, "Ошибка подключения к боту", panel.Error.Title)
		assert.Nil(t, panel.Empty)
		assert.Empty(t, panel.Cards)
	}
}

func TestBuildLoading(t *testing.T) {
	page := Build(state.Snapshot{Loading: true, CurrentTab: state.TabUnavailable}, ru, "ru")
	for _, panel := range page.Panels {
		assert.Equal(t, "Загрузка админов из бота...", panel.Loading)
	}
	assert.True(t, page.Tabs[1].Active)
	assert.False(t, page.Tabs[0].Active)
}

func TestBuildDialog(t *testing.T) {
	admin := model.Admin{Tag: "alice", Status: "available", Role: "Lead", Description: "Handles billing"}
	page := Build(state.Snapshot{
		Admins:     []model.Admin{admin},
		Selected:   &admin,
		Phase:      state.PhaseSubmitting,
		CurrentTab: state.TabAvailable,
		Notice:     &model.Notice{Kind: model.NoticeError, Text: "❌"},
	}, ru, "ru")

	assert.True(t, page.Dialog.Open)
	assert.True(t, page.Dialog.Busy)
	assert.Equal(t, "#alice", page.Dialog.Tag)
	assert.Equal(t, "Handles billing", page.Dialog.Description)
	require.NotNil(t, page.Notice)
	assert.Equal(t, "error", page.Notice.Kind)
}
