package i18n

import (
	"testing"

	"golang.org/x/text/language"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
)

func TestAuthReturnsEnglishCopy(t *testing.T) {
	t.Parallel()

	copy := Auth(language.MustParse("en-US"))
	if copy.LoginTitle != "Login" || copy.LoginSwitchPrompt != "No Account?" || copy.LoginSwitchLink != "Sign up" {
		t.Fatalf("login copy = %+v", copy)
	}
	if copy.RegisterSwitchText != "Have an Account?" || copy.RegisterSwitchLink != "Sign in" {
		t.Fatalf("register copy = %+v", copy)
	}
	if copy.FieldLabel(authflow.FieldFirstName) != "First Name" || copy.FieldLabel(authflow.FieldPassword) != "Password" {
		t.Fatalf("field labels = %q %q", copy.FirstName, copy.Password)
	}
	if copy.Title(copy.LoginTitle) != "Login | chat.space" {
		t.Fatalf("Title() = %q", copy.Title(copy.LoginTitle))
	}
	if copy.Lang != "en-US" {
		t.Fatalf("Lang = %q", copy.Lang)
	}
}

func TestAuthReturnsPortugueseCopyForPortugueseBaseLanguage(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"pt-BR", "pt-PT", "pt"} {
		copy := Auth(language.MustParse(raw))
		if copy.LoginTitle != "Entrar" || copy.Password != "Senha" {
			t.Fatalf("%s copy = %+v", raw, copy)
		}
		if copy.Lang != "pt-BR" {
			t.Fatalf("%s Lang = %q", raw, copy.Lang)
		}
	}
}

func TestAuthFallsBackToEnglishForUnsupportedLanguage(t *testing.T) {
	t.Parallel()

	copy := Auth(language.MustParse("ja"))
	if copy.RegisterTitle != "Register" {
		t.Fatalf("RegisterTitle = %q", copy.RegisterTitle)
	}
}

func TestNoticeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		tag     language.Tag
		key     string
		literal string
		want    string
	}{
		{name: "english key", tag: language.MustParse("en-US"), key: authflow.NoticeProvideValidCredentials, want: "Provide valid Credentials!"},
		{name: "portuguese key", tag: language.MustParse("pt-BR"), key: authflow.NoticeInvalidCredentials, want: "Credenciais inválidas!"},
		{name: "literal wins", tag: language.MustParse("pt-BR"), key: authflow.NoticeInvalidCredentials, literal: "User not found", want: "User not found"},
		{name: "unknown key", tag: language.MustParse("en-US"), key: "auth.notice.unknown", want: "auth.notice.unknown"},
		{name: "empty", tag: language.MustParse("en-US"), want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NoticeText(tc.tag, tc.key, tc.literal); got != tc.want {
				t.Fatalf("NoticeText() = %q, want %q", got, tc.want)
			}
		})
	}
}
