// Package i18n resolves the request language and localizes auth page copy
// and notices.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/chat.space/internal/platform/i18n/catalog"
	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

// AuthCopy holds translatable copy for the login and registration pages.
type AuthCopy struct {
	Lang            string
	AppName         string
	MetaDescription string

	LoginTitle         string
	LoginSubmit        string
	LoginSwitchPrompt  string
	LoginSwitchLink    string
	RegisterTitle      string
	RegisterSubmit     string
	RegisterSwitchText string
	RegisterSwitchLink string

	FirstName string
	LastName  string
	Email     string
	Password  string

	ShowPassword   string
	HidePassword   string
	Loading        string
	Divider        string
	GoogleContinue string
	DismissNotice  string
}

// Auth returns localized auth copy for the provided language tag.
func Auth(tag language.Tag) AuthCopy {
	localizedTag := normalizeTag(tag)
	loc := message.NewPrinter(localizedTag)

	return AuthCopy{
		Lang:            localizedTag.String(),
		AppName:         localizeWithFallback(loc, "auth.app_name", "chat.space"),
		MetaDescription: localizeWithFallback(loc, "auth.meta.description", "Sign in to chat.space."),

		LoginTitle:         localizeWithFallback(loc, "auth.login.title", "Login"),
		LoginSubmit:        localizeWithFallback(loc, "auth.login.submit", "Login"),
		LoginSwitchPrompt:  localizeWithFallback(loc, "auth.login.switch_prompt", "No Account?"),
		LoginSwitchLink:    localizeWithFallback(loc, "auth.login.switch_link", "Sign up"),
		RegisterTitle:      localizeWithFallback(loc, "auth.register.title", "Register"),
		RegisterSubmit:     localizeWithFallback(loc, "auth.register.submit", "Register"),
		RegisterSwitchText: localizeWithFallback(loc, "auth.register.switch_prompt", "Have an Account?"),
		RegisterSwitchLink: localizeWithFallback(loc, "auth.register.switch_link", "Sign in"),

		FirstName: localizeWithFallback(loc, "auth.field.firstname", "First Name"),
		LastName:  localizeWithFallback(loc, "auth.field.lastname", "Last Name"),
		Email:     localizeWithFallback(loc, "auth.field.email", "Email"),
		Password:  localizeWithFallback(loc, "auth.field.password", "Password"),

		ShowPassword:   localizeWithFallback(loc, "auth.password.show", "Show password"),
		HidePassword:   localizeWithFallback(loc, "auth.password.hide", "Hide password"),
		Loading:        localizeWithFallback(loc, "auth.loading", "Loading…"),
		Divider:        localizeWithFallback(loc, "auth.divider", "or"),
		GoogleContinue: localizeWithFallback(loc, "auth.google.continue", "Continue with Google"),
		DismissNotice:  localizeWithFallback(loc, "auth.notice.dismiss", "Dismiss"),
	}
}

// NoticeText localizes a notice. A literal message, typically supplied by
// the Auth API, wins over the key.
func NoticeText(tag language.Tag, key string, literal string) string {
	if literal = strings.TrimSpace(literal); literal != "" {
		return literal
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	loc := message.NewPrinter(normalizeTag(tag))
	return localizeWithFallback(loc, key, authflow.DefaultNoticeText(key))
}

// Title joins a page title with the product name.
func (c AuthCopy) Title(page string) string {
	page = strings.TrimSpace(page)
	if page == "" {
		return c.AppName
	}
	return fmt.Sprintf("%s | %s", page, c.AppName)
}

// FieldLabel returns the placeholder for one form field.
func (c AuthCopy) FieldLabel(field authflow.Field) string {
	switch field {
	case authflow.FieldFirstName:
		return c.FirstName
	case authflow.FieldLastName:
		return c.LastName
	case authflow.FieldEmail:
		return c.Email
	case authflow.FieldPassword:
		return c.Password
	default:
		return string(field)
	}
}

func localizeWithFallback(loc *message.Printer, key string, fallback string) string {
	if loc != nil {
		value := strings.TrimSpace(loc.Sprintf(key))
		if value != "" && value != key {
			return value
		}
	}
	if value, ok := catalog.Default().Message(catalog.BaseLocale, key); ok && strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}
