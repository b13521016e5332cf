// Package view turns an application state snapshot into a display-agnostic page description.
// Nothing here touches a DOM, a template or a terminal; surfaces adapt the result.
package view

import (
	"fmt"
	"strings"

	"golang.org/x/text/message"

	"github.com/Its-donkey/admin-picker/internal/ui/i18n"
	"github.com/Its-donkey/admin-picker/internal/ui/model"
	"github.com/Its-donkey/admin-picker/internal/ui/state"
)

// Card is one admin as displayed.
type Card struct {
	Tag           string
	Role          string
	Description   string
	Rating        string
	StatusClass   string
	StatusIcon    string
	StatusText    string
	ActionLabel   string
	ActionEnabled bool
	// Interactive is true only for available admins; surfaces attach the click handler on it.
	Interactive bool
}

// Placeholder is the empty-state message of a panel.
type Placeholder struct {
	Title       string
	Description string
}

// ErrorPanel replaces a panel's content after a failed fetch.
type ErrorPanel struct {
	Title      string
	Summary    string
	Detail     string
	RetryLabel string
}

// Panel is the content area of one tab.
type Panel struct {
	ID      state.Tab
	Active  bool
	Loading string
	Error   *ErrorPanel
	Empty   *Placeholder
	Cards   []Card
}

// TabButton is one tab header.
type TabButton struct {
	ID     state.Tab
	Label  string
	Count  int
	Active bool
}

// Dialog is the confirmation dialog.
type Dialog struct {
	Open         bool
	Busy         bool
	Title        string
	Tag          string
	Role         string
	Description  string
	ConfirmLabel string
	BusyLabel    string
	CancelLabel  string
}

// Notice is a transient alert.
type Notice struct {
	Kind string
	Text string
}

// Page describes everything a surface needs to draw.
type Page struct {
	Title        string
	Lang         string
	RefreshLabel string
	Tabs         []TabButton
	Panels       []Panel
	Dialog       Dialog
	Notice       *Notice
}

// Partition splits admins by status, preserving order. Anything that is not
// "available" lands in the unavailable group.
func Partition(admins []model.Admin) (available, unavailable []model.Admin) {
	for _, admin := range admins {
		if admin.Available() {
			available = append(available, admin)
		} else {
			unavailable = append(unavailable, admin)
		}
	}
	return available, unavailable
}

// FormatRating renders the rating indicator, or "" when the rating is not shown.
func FormatRating(rating float64) string {
	if rating <= 0 {
		return ""
	}
	return fmt.Sprintf("⭐%.1f", rating)
}

// RoleOf returns the admin's role or the localised generic label.
func RoleOf(admin model.Admin, p *message.Printer) string {
	if role := strings.TrimSpace(admin.Role); role != "" {
		return role
	}
	return p.Sprintf(i18n.KeyDefaultRole)
}

// DescriptionOf returns the admin's description, falling back to the role.
func DescriptionOf(admin model.Admin, p *message.Printer) string {
	if desc := strings.TrimSpace(admin.Description); desc != "" {
		return desc
	}
	return RoleOf(admin, p)
}

// NewCard builds the card of a single admin.
func NewCard(admin model.Admin, p *message.Printer) Card {
	card := Card{
		Tag:         admin.Tag,
		Role:        RoleOf(admin, p),
		Description: DescriptionOf(admin, p),
		Rating:      FormatRating(admin.Rating),
	}
	if admin.Available() {
		card.StatusClass = model.StatusAvailable
		card.StatusIcon = "✅"
		card.StatusText = p.Sprintf(i18n.KeyStatusAvailable)
		card.ActionLabel = p.Sprintf(i18n.KeyActionContact)
		card.ActionEnabled = true
		card.Interactive = true
	} else {
		card.StatusClass = model.StatusUnavailable
		card.StatusIcon = "🔴"
		card.StatusText = p.Sprintf(i18n.KeyStatusUnavailable)
		card.ActionLabel = p.Sprintf(i18n.KeyActionUnavailable)
	}
	return card
}

// Build produces the page for snap. lang is the BCP 47 tag the printer was built for.
func Build(snap state.Snapshot, p *message.Printer, lang string) Page {
	available, unavailable := Partition(snap.Admins)

	page := Page{
		Title:        p.Sprintf(i18n.KeyPageTitle),
		Lang:         lang,
		RefreshLabel: p.Sprintf(i18n.KeyRefresh),
		Tabs: []TabButton{
			{ID: state.TabAvailable, Label: p.Sprintf(i18n.KeyTabAvailable), Count: len(available)},
			{ID: state.TabUnavailable, Label: p.Sprintf(i18n.KeyTabUnavailable), Count: len(unavailable)},
		},
		Panels: []Panel{
			buildPanel(state.TabAvailable, available, snap, p),
			buildPanel(state.TabUnavailable, unavailable, snap, p),
		},
		Dialog: buildDialog(snap, p),
	}
	for i := range page.Tabs {
		page.Tabs[i].Active = page.Tabs[i].ID == snap.CurrentTab
	}
	for i := range page.Panels {
		page.Panels[i].Active = page.Panels[i].ID == snap.CurrentTab
	}
	if snap.Notice != nil {
		page.Notice = &Notice{Kind: string(snap.Notice.Kind), Text: snap.Notice.Text}
	}
	return page
}

func buildPanel(id state.Tab, admins []model.Admin, snap state.Snapshot, p *message.Printer) Panel {
	panel := Panel{ID: id}
	switch {
	case snap.Loading:
		panel.Loading = p.Sprintf(i18n.KeyLoading)
	case snap.LoadError != "":
		panel.Error = &ErrorPanel{
			Title:      p.Sprintf(i18n.KeyConnectionErrorTitle),
			Summary:    p.Sprintf(i18n.KeyConnectionErrorSummary),
			Detail:     snap.LoadError,
			RetryLabel: p.Sprintf(i18n.KeyRetry),
		}
	case len(admins) == 0:
		panel.Empty = placeholder(id, len(snap.Admins) == 0, p)
	default:
		panel.Cards = make([]Card, 0, len(admins))
		for _, admin := range admins {
			panel.Cards = append(panel.Cards, NewCard(admin, p))
		}
	}
	return panel
}

func placeholder(id state.Tab, directoryEmpty bool, p *message.Printer) *Placeholder {
	if id == state.TabUnavailable {
		return &Placeholder{
			Title:       p.Sprintf(i18n.KeyNoneUnavailableTitle),
			Description: p.Sprintf(i18n.KeyNoneUnavailableDesc),
		}
	}
	if directoryEmpty {
		return &Placeholder{
			Title:       p.Sprintf(i18n.KeyEmptyDirectoryTitle),
			Description: p.Sprintf(i18n.KeyEmptyDirectoryDesc),
		}
	}
	return &Placeholder{
		Title:       p.Sprintf(i18n.KeyAllBusyTitle),
		Description: p.Sprintf(i18n.KeyAllBusyDesc),
	}
}

func buildDialog(snap state.Snapshot, p *message.Printer) Dialog {
	d := Dialog{
		Title:        p.Sprintf(i18n.KeyDialogTitle),
		ConfirmLabel: p.Sprintf(i18n.KeyDialogConfirm),
		BusyLabel:    p.Sprintf(i18n.KeyDialogBusy),
		CancelLabel:  p.Sprintf(i18n.KeyDialogCancel),
	}
	if snap.Selected == nil || snap.Phase == state.PhaseIdle {
		return d
	}
	d.Open = true
	d.Busy = snap.Phase == state.PhaseSubmitting
	d.Tag = "#" + snap.Selected.Tag
	d.Role = RoleOf(*snap.Selected, p)
	d.Description = DescriptionOf(*snap.Selected, p)
	return d
}
