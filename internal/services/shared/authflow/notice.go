package authflow

import "strings"

// Level classifies notice presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notice localization keys.
const (
	NoticeProvideValidCredentials = "auth.notice.provide_valid_credentials"
	NoticeInvalidCredentials      = "auth.notice.invalid_credentials"
	NoticeRegistered              = "auth.notice.registered"
	NoticeUnexpectedError         = "auth.notice.unexpected_error"
	NoticeGoogleLoginFailed       = "auth.notice.google_login_failed"
	NoticeGoogleSignInFailed      = "auth.notice.google_sign_in_failed"
	NoticeProviderFailure         = "auth.notice.provider_failure"
)

var noticeDefaults = map[string]string{
	NoticeProvideValidCredentials: "Provide valid Credentials!",
	NoticeInvalidCredentials:      "Invalid Credentials!",
	NoticeRegistered:              "Successfully Registered 😍",
	NoticeUnexpectedError:         "An unexpected error occurred!",
	NoticeGoogleLoginFailed:       "Google login failed!",
	NoticeGoogleSignInFailed:      "Google Sign-In Failed!",
	NoticeProviderFailure:         "Something went wrong. Try again!",
}

// Notice is one user-visible, non-blocking notification.
//
// Message carries server-supplied text and wins over Key when set.
type Notice struct {
	Level   Level
	Key     string
	Message string
}

// Text returns the English text of the notice.
func (n Notice) Text() string {
	if message := strings.TrimSpace(n.Message); message != "" {
		return message
	}
	return DefaultNoticeText(n.Key)
}

// DefaultNoticeText returns the English text for a notice key.
func DefaultNoticeText(key string) string {
	if text, ok := noticeDefaults[key]; ok {
		return text
	}
	return key
}

func warningNotice(key string) Notice {
	return Notice{Level: LevelWarning, Key: key}
}

func errorNotice(key string) Notice {
	return Notice{Level: LevelError, Key: key}
}

func rejectedNotice(serverMessage string) Notice {
	return Notice{Level: LevelError, Key: NoticeInvalidCredentials, Message: strings.TrimSpace(serverMessage)}
}
