package templates

import (
	"strings"

	"github.com/a-h/templ"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	webi18n "github.com/louisbranch/chat.space/internal/services/web/platform/i18n"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
)

// Form intents posted by the auth pages.
const (
	IntentParam          = "intent"
	IntentSubmit         = "submit"
	IntentTogglePassword = "toggle_password"

	// ShowPasswordParam round-trips password visibility between renders.
	ShowPasswordParam = "show_password"
)

// AuthPageView is the render state of the login or registration page.
type AuthPageView struct {
	Copy         webi18n.AuthCopy
	Flow         authflow.Flow
	Form         authflow.Form
	ShowPassword bool
	Loading      bool
	Notices      []NoticeView
	Google       GoogleView
}

// PageTitle returns the document title for the view's flow.
func (v AuthPageView) PageTitle() string {
	return v.Copy.Title(v.heading())
}

// Scripts returns the external scripts the page needs.
func (v AuthPageView) Scripts() []string {
	if v.Google.identityServices() {
		return []string{GoogleIdentityScript}
	}
	return nil
}

func (v AuthPageView) heading() string {
	if v.Flow == authflow.FlowRegister {
		return v.Copy.RegisterTitle
	}
	return v.Copy.LoginTitle
}

func (v AuthPageView) submitLabel() string {
	if v.Flow == authflow.FlowRegister {
		return v.Copy.RegisterSubmit
	}
	return v.Copy.LoginSubmit
}

func (v AuthPageView) action() string {
	if v.Flow == authflow.FlowRegister {
		return routepath.Register
	}
	return routepath.Login
}

// LoginPage renders the email/password login page.
func LoginPage(view AuthPageView) templ.Component {
	view.Flow = authflow.FlowLogin
	return authPage(view)
}

// RegisterPage renders the registration page.
func RegisterPage(view AuthPageView) templ.Component {
	view.Flow = authflow.FlowRegister
	return authPage(view)
}

// AuthPage renders the page for view.Flow.
func AuthPage(view AuthPageView) templ.Component {
	if view.Flow == authflow.FlowRegister {
		return RegisterPage(view)
	}
	return LoginPage(view)
}

// textInput is one plain text, email or name field.
type textInput struct {
	ID           string
	Name         string
	Type         string
	Label        string
	Value        string
	Autocomplete string
}

func (v AuthPageView) textInput(field authflow.Field) textInput {
	input := textInput{
		ID:    fieldID(field),
		Name:  string(field),
		Type:  "text",
		Label: v.Copy.FieldLabel(field),
		Value: v.Form.Value(field),
	}
	switch field {
	case authflow.FieldEmail:
		input.Type = "email"
		input.Autocomplete = "email"
	case authflow.FieldFirstName:
		input.Autocomplete = "given-name"
	case authflow.FieldLastName:
		input.Autocomplete = "family-name"
	}
	return input
}

func fieldID(field authflow.Field) string {
	return "field-" + string(field)
}

func (v AuthPageView) passwordInputType() string {
	if v.ShowPassword {
		return "text"
	}
	return "password"
}

func (v AuthPageView) passwordAutocomplete() string {
	if v.Flow == authflow.FlowRegister {
		return "new-password"
	}
	return "current-password"
}

func (v AuthPageView) passwordToggleLabel() string {
	if v.ShowPassword {
		return v.Copy.HidePassword
	}
	return v.Copy.ShowPassword
}

func (v AuthPageView) passwordPressed() string {
	if v.ShowPassword {
		return "true"
	}
	return "false"
}

// showPasswordValue is the hidden field value carried to the next render.
func (v AuthPageView) showPasswordValue() string {
	if v.ShowPassword {
		return "1"
	}
	return ""
}

func (v AuthPageView) submitText() string {
	if v.Loading {
		return v.Copy.Loading
	}
	return v.submitLabel()
}

// switchLink points at the other flow.
type switchLink struct {
	Prompt string
	Label  string
	Href   string
}

func (v AuthPageView) switchLink() switchLink {
	if v.Flow == authflow.FlowRegister {
		return switchLink{Prompt: strings.TrimSpace(v.Copy.RegisterSwitchText), Label: v.Copy.RegisterSwitchLink, Href: routepath.Login}
	}
	return switchLink{Prompt: strings.TrimSpace(v.Copy.LoginSwitchPrompt), Label: v.Copy.LoginSwitchLink, Href: routepath.Register}
}
