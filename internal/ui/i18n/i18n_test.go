package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestParseTag(t *testing.T) {
	tag, ok := ParseTag("en-GB")
	require.True(t, ok)
	assert.Equal(t, language.English, tag)

	tag, ok = ParseTag("ru")
	require.True(t, ok)
	assert.Equal(t, language.Russian, tag)

	_, ok = ParseTag("")
	assert.False(t, ok)
	_, ok = ParseTag("not a tag!")
	assert.False(t, ok)
}

func TestResolveTagPrecedence(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "ru"})
	tag, persist := ResolveTag(req, language.Russian)
	assert.Equal(t, language.English, tag)
	assert.True(t, persist)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: LangCookieName, Value: "en"})
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	tag, persist = ResolveTag(req, language.Russian)
	assert.Equal(t, language.English, tag)
	assert.False(t, persist)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	tag, _ = ResolveTag(req, language.Russian)
	assert.Equal(t, language.English, tag)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	tag, _ = ResolveTag(req, language.Russian)
	assert.Equal(t, language.Russian, tag)
}

func TestCatalogues(t *testing.T) {
	ru := Printer(language.Russian)
	en := Printer(language.English)

	assert.Equal(t, "Нет админов в базе", ru.Sprintf(KeyEmptyDirectoryTitle))
	assert.Equal(t, "Все админы заняты", ru.Sprintf(KeyAllBusyTitle))
	assert.Equal(t, "❌ Ошибка: boom", ru.Sprintf(KeySelectFailed, "boom"))
	assert.Equal(t, "Contact", en.Sprintf(KeyActionContact))
}

func TestContextCarriesLanguage(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := NewContext(context.Background(), language.English)
	tag, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, language.English, tag)
}
