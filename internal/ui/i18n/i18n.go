// Package i18n holds the picker's message catalogue and language negotiation helpers.
package i18n

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "admin_picker_lang"
)

// Message keys. The Russian strings are the canonical UI copy.
const (
	KeyPageTitle              = "page.title"
	KeyTabAvailable           = "tab.available"
	KeyTabUnavailable         = "tab.unavailable"
	KeyRefresh                = "action.refresh"
	KeyLoading                = "panel.loading"
	KeyDefaultRole            = "admin.default_role"
	KeyStatusAvailable        = "status.available"
	KeyStatusUnavailable      = "status.unavailable"
	KeyActionContact          = "action.contact"
	KeyActionUnavailable      = "action.unavailable"
	KeyEmptyDirectoryTitle    = "empty.directory.title"
	KeyEmptyDirectoryDesc     = "empty.directory.description"
	KeyAllBusyTitle           = "empty.busy.title"
	KeyAllBusyDesc            = "empty.busy.description"
	KeyNoneUnavailableTitle   = "empty.unavailable.title"
	KeyNoneUnavailableDesc    = "empty.unavailable.description"
	KeyConnectionErrorTitle   = "error.connection.title"
	KeyConnectionErrorSummary = "error.connection.summary"
	KeyRetry                  = "action.retry"
	KeyDialogTitle            = "dialog.title"
	KeyDialogConfirm          = "dialog.confirm"
	KeyDialogBusy             = "dialog.busy"
	KeyDialogCancel           = "dialog.cancel"
	KeySelectSuccess          = "notice.select.success"
	KeySelectFailed           = "notice.select.failed"
	KeySelectTransportFailed  = "notice.select.transport_failed"
	KeyPlaceholderUser        = "user.placeholder_name"
)

var supported = []language.Tag{language.Russian, language.English}

var matcher = language.NewMatcher(supported)

func init() {
	registerRussian()
	registerEnglish()
}

func registerRussian() {
	lang := language.Russian
	message.SetString(lang, KeyPageTitle, "Выбор администратора")
	message.SetString(lang, KeyTabAvailable, "Доступные")
	message.SetString(lang, KeyTabUnavailable, "Недоступные")
	message.SetString(lang, KeyRefresh, "🔄 Обновить")
	message.SetString(lang, KeyLoading, "Загрузка админов из бота...")
	message.SetString(lang, KeyDefaultRole, "Администратор")
	message.SetString(lang, KeyStatusAvailable, "Доступен")
	message.SetString(lang, KeyStatusUnavailable, "Недоступен")
	message.SetString(lang, KeyActionContact, "Связаться")
	message.SetString(lang, KeyActionUnavailable, "Недоступен")
	message.SetString(lang, KeyEmptyDirectoryTitle, "Нет админов в базе")
	message.SetString(lang, KeyEmptyDirectoryDesc, "Администраторы еще не добавлены. Используйте команду /add_admin в боте.")
	message.SetString(lang, KeyAllBusyTitle, "Все админы заняты")
	message.SetString(lang, KeyAllBusyDesc, "В данный момент все администраторы недоступны. Попробуйте позже.")
	message.SetString(lang, KeyNoneUnavailableTitle, "Все на связи")
	message.SetString(lang, KeyNoneUnavailableDesc, "Сейчас нет недоступных администраторов.")
	message.SetString(lang, KeyConnectionErrorTitle, "Ошибка подключения к боту")
	message.SetString(lang, KeyConnectionErrorSummary, "Не удалось загрузить список администраторов")
	message.SetString(lang, KeyRetry, "🔄 Повторить попытку")
	message.SetString(lang, KeyDialogTitle, "Связаться с администратором?")
	message.SetString(lang, KeyDialogConfirm, "Подтвердить")
	message.SetString(lang, KeyDialogBusy, "Отправка...")
	message.SetString(lang, KeyDialogCancel, "Отмена")
	message.SetString(lang, KeySelectSuccess, "✅ %s\nАдминистратор уведомлен!")
	message.SetString(lang, KeySelectFailed, "❌ Ошибка: %s")
	message.SetString(lang, KeySelectTransportFailed, "❌ Ошибка при отправке запроса. Проверьте подключение к боту.")
	message.SetString(lang, KeyPlaceholderUser, "Пользователь сайта")
}

func registerEnglish() {
	lang := language.English
	message.SetString(lang, KeyPageTitle, "Choose an administrator")
	message.SetString(lang, KeyTabAvailable, "Available")
	message.SetString(lang, KeyTabUnavailable, "Unavailable")
	message.SetString(lang, KeyRefresh, "🔄 Refresh")
	message.SetString(lang, KeyLoading, "Loading admins from the bot...")
	message.SetString(lang, KeyDefaultRole, "Administrator")
	message.SetString(lang, KeyStatusAvailable, "Available")
	message.SetString(lang, KeyStatusUnavailable, "Unavailable")
	message.SetString(lang, KeyActionContact, "Contact")
	message.SetString(lang, KeyActionUnavailable, "Unavailable")
	message.SetString(lang, KeyEmptyDirectoryTitle, "No admins yet")
	message.SetString(lang, KeyEmptyDirectoryDesc, "No administrators have been added. Use the /add_admin command in the bot.")
	message.SetString(lang, KeyAllBusyTitle, "All admins are busy")
	message.SetString(lang, KeyAllBusyDesc, "All administrators are unavailable right now. Please try again later.")
	message.SetString(lang, KeyNoneUnavailableTitle, "Everyone is reachable")
	message.SetString(lang, KeyNoneUnavailableDesc, "There are no unavailable administrators right now.")
	message.SetString(lang, KeyConnectionErrorTitle, "Could not reach the bot")
	message.SetString(lang, KeyConnectionErrorSummary, "Failed to load the administrator list")
	message.SetString(lang, KeyRetry, "🔄 Try again")
	message.SetString(lang, KeyDialogTitle, "Contact this administrator?")
	message.SetString(lang, KeyDialogConfirm, "Confirm")
	message.SetString(lang, KeyDialogBusy, "Sending...")
	message.SetString(lang, KeyDialogCancel, "Cancel")
	message.SetString(lang, KeySelectSuccess, "✅ %s\nThe administrator has been notified!")
	message.SetString(lang, KeySelectFailed, "❌ Error: %s")
	message.SetString(lang, KeySelectTransportFailed, "❌ Could not send the request. Check the connection to the bot.")
	message.SetString(lang, KeyPlaceholderUser, "Website user")
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}

// ParseTag matches value against the supported languages.
func ParseTag(value string) (language.Tag, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return language.Und, false
	}
	tag, err := language.Parse(value)
	if err != nil {
		return language.Und, false
	}
	_, idx, confidence := matcher.Match(tag)
	if confidence == language.No {
		return language.Und, false
	}
	return supported[idx], true
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language for the request. The query parameter wins,
// then the cookie, then Accept-Language; fallback is used when nothing matches.
// The bool reports whether the query parameter should be persisted as a cookie.
func ResolveTag(r *http.Request, fallback language.Tag) (language.Tag, bool) {
	if r == nil {
		return fallback, false
	}
	if tag, ok := ParseTag(r.URL.Query().Get(LangParam)); ok {
		return tag, true
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(cookie.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			if _, idx, confidence := matcher.Match(tags...); confidence != language.No {
				return supported[idx], false
			}
		}
	}
	return fallback, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying the language of the current request.
func NewContext(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, ctxKey{}, tag)
}

// FromContext returns the language stored by NewContext.
func FromContext(ctx context.Context) (language.Tag, bool) {
	if ctx == nil {
		return language.Und, false
	}
	tag, ok := ctx.Value(ctxKey{}).(language.Tag)
	return tag, ok
}
