package publicauth

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/louisbranch/chat.space/internal/services/shared/authflow"
	"github.com/louisbranch/chat.space/internal/services/web/integration/google"
	apperrors "github.com/louisbranch/chat.space/internal/services/web/platform/errors"
	flashnotice "github.com/louisbranch/chat.space/internal/services/web/platform/flash"
	"github.com/louisbranch/chat.space/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/chat.space/internal/services/web/platform/i18n"
	"github.com/louisbranch/chat.space/internal/services/web/platform/pagerender"
	"github.com/louisbranch/chat.space/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/chat.space/internal/services/web/platform/tokencookie"
	"github.com/louisbranch/chat.space/internal/services/web/routepath"
	webtemplates "github.com/louisbranch/chat.space/internal/services/web/templates"
)

// maxFormBytes bounds auth form bodies.
const maxFormBytes = 64 << 10

type handlers struct {
	cfg Config
}

func newHandlers(cfg Config) handlers {
	return handlers{cfg: cfg}
}

func (h handlers) scheme() requestmeta.SchemePolicy {
	return h.cfg.Token.Scheme
}

// flowSession is one request's controller and the adapters it reports to.
type flowSession struct {
	controller *authflow.Controller
	notices    *noticeCollector
	nav        *navigationRecorder
}

func (h handlers) newFlowSession(w http.ResponseWriter, r *http.Request, flow authflow.Flow) (flowSession, error) {
	session := flowSession{notices: &noticeCollector{}, nav: &navigationRecorder{}}
	controller, err := authflow.NewController(flow, authflow.Dependencies{
		Auth:         h.cfg.Auth,
		Tokens:       tokencookie.NewStore(w, r, h.cfg.Token),
		Notifier:     session.notices,
		Navigator:    session.nav,
		LandingRoute: h.cfg.LandingRoute,
	})
	if err != nil {
		return flowSession{}, err
	}
	session.controller = controller
	return session, nil
}

func (h handlers) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, routepath.Login, http.StatusFound)
}

func (h handlers) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h handlers) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderFlowPage(w, r, authflow.FlowLogin)
}

func (h handlers) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderFlowPage(w, r, authflow.FlowRegister)
}

func (h handlers) renderFlowPage(w http.ResponseWriter, r *http.Request, flow authflow.Flow) {
	tag := h.resolveAuthTag(w, r)
	view := h.pageView(r, tag, flow, authflow.State{})
	view.Notices = pagerender.FlashNotices(w, r, h.scheme(), tag)
	h.writeAuthPage(w, r, http.StatusOK, view)
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	h.submitFlow(w, r, authflow.FlowLogin)
}

func (h handlers) handleRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	h.submitFlow(w, r, authflow.FlowRegister)
}

func (h handlers) submitFlow(w http.ResponseWriter, r *http.Request, flow authflow.Flow) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.KindInvalidInput, "", err))
		return
	}
	session, err := h.newFlowSession(w, r, flow)
	if err != nil {
		h.logError(r, "auth flow init failed", err)
		httpx.WriteError(w, err)
		return
	}
	for _, field := range flow.Fields() {
		if err := session.controller.OnFieldChange(field, r.PostForm.Get(string(field))); err != nil {
			h.logError(r, "auth form field rejected", err)
		}
	}
	_ = session.controller.SetPasswordVisible(r.PostForm.Get(webtemplates.ShowPasswordParam) == "1")

	tag := h.resolveAuthTag(w, r)
	if r.PostForm.Get(webtemplates.IntentParam) == webtemplates.IntentTogglePassword {
		_ = session.controller.TogglePasswordVisibility()
		h.writeAuthPage(w, r, http.StatusOK, h.pageView(r, tag, flow, session.controller.State()))
		return
	}

	err = session.controller.OnSubmit(r.Context())
	if target, ok := session.nav.destination(); ok {
		flashnotice.Write(w, r, h.scheme(), session.notices.flash()...)
		httpx.WriteRedirect(w, r, target)
		return
	}
	status := http.StatusOK
	if err != nil {
		failure := classifyFailure(err)
		status = apperrors.HTTPStatus(failure)
		if authflow.FailureOf(err) == authflow.FailureTransport {
			h.logError(r, "auth exchange failed", err)
		}
	}
	view := h.pageView(r, tag, flow, session.controller.State())
	view.Notices = noticeViews(tag, session.notices.all())
	h.writeAuthPage(w, r, status, view)
}

func (h handlers) handleGoogleStart(w http.ResponseWriter, r *http.Request) {
	flow := flowParam(r)
	if !h.cfg.Google.RedirectEnabled() {
		h.federatedFailure(w, r, flow, google.ErrNotConfigured)
		return
	}
	authorization, err := h.cfg.Google.Begin(string(flow))
	if err != nil {
		h.federatedFailure(w, r, flow, err)
		return
	}
	if err := google.WriteState(w, r, h.scheme(), authorization.Pending); err != nil {
		h.federatedFailure(w, r, flow, err)
		return
	}
	http.Redirect(w, r, authorization.URL, http.StatusFound)
}

func (h handlers) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	pending, err := google.ConsumeState(w, r, h.scheme())
	if err != nil {
		h.federatedFailure(w, r, authflow.FlowLogin, err)
		return
	}
	flow, ok := authflow.ParseFlow(pending.Flow)
	if !ok {
		flow = authflow.FlowLogin
	}
	if !h.cfg.Google.RedirectEnabled() {
		h.federatedFailure(w, r, flow, google.ErrNotConfigured)
		return
	}
	idToken, err := h.cfg.Google.Complete(r.Context(), pending, r.URL.Query())
	if err != nil {
		h.federatedFailure(w, r, flow, err)
		return
	}
	h.exchangeFederated(w, r, flow, idToken)
}

// handleGoogleCredential receives the Google Identity Services redirect-mode
// post. It arrives cross-site from Google, so the double-submit cookie
// replaces the same-origin check.
func (h handlers) handleGoogleCredential(w http.ResponseWriter, r *http.Request) {
	flow := flowParam(r)
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.federatedFailure(w, r, flow, err)
		return
	}
	if h.cfg.Google == nil {
		h.federatedFailure(w, r, flow, google.ErrNotConfigured)
		return
	}
	if err := google.CheckCSRF(r); err != nil {
		h.federatedFailure(w, r, flow, err)
		return
	}
	credential := strings.TrimSpace(r.PostForm.Get(google.CredentialParam))
	if credential != "" {
		if _, err := h.cfg.Google.ParseCredential(credential); err != nil {
			h.federatedFailure(w, r, flow, err)
			return
		}
	}
	h.exchangeFederated(w, r, flow, credential)
}

func (h handlers) exchangeFederated(w http.ResponseWriter, r *http.Request, flow authflow.Flow, credential string) {
	session, err := h.newFlowSession(w, r, flow)
	if err != nil {
		h.logError(r, "auth flow init failed", err)
		httpx.WriteError(w, err)
		return
	}
	var federated *authflow.FederatedCredential
	if credential != "" {
		federated = &authflow.FederatedCredential{Credential: credential}
	}
	if err := session.controller.OnFederatedCredential(r.Context(), federated); err != nil {
		h.logError(r, "federated exchange failed", err)
	}
	target, ok := session.nav.destination()
	if !ok {
		target = routepath.FlowPage(string(flow))
	}
	flashnotice.Write(w, r, h.scheme(), session.notices.flash()...)
	httpx.WriteRedirect(w, r, target)
}

// federatedFailure reports an identity provider failure on the flow page.
func (h handlers) federatedFailure(w http.ResponseWriter, r *http.Request, flow authflow.Flow, cause error) {
	h.logError(r, "google sign-in failed", cause)
	session, err := h.newFlowSession(w, r, flow)
	if err == nil {
		_ = session.controller.OnFederatedFailure(cause)
		flashnotice.Write(w, r, h.scheme(), session.notices.flash()...)
	}
	httpx.WriteRedirect(w, r, routepath.FlowPage(string(flow)))
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, hasToken := tokencookie.Read(r)
	if hasToken && !h.scheme().HasSameOriginProof(r) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}
	store := tokencookie.NewStore(w, r, h.cfg.Token)
	_ = store.ClearToken(r.Context())
	httpx.WriteRedirect(w, r, routepath.Login)
}

func (h handlers) pageView(r *http.Request, tag language.Tag, flow authflow.Flow, state authflow.State) webtemplates.AuthPageView {
	return webtemplates.AuthPageView{
		Copy:         webi18n.Auth(tag),
		Flow:         flow,
		Form:         state.Form,
		ShowPassword: state.ShowPassword,
		Loading:      state.IsLoading(),
		Google:       h.googleView(r, flow),
	}
}

func (h handlers) googleView(r *http.Request, flow authflow.Flow) webtemplates.GoogleView {
	if h.cfg.Google == nil {
		return webtemplates.GoogleView{}
	}
	return webtemplates.GoogleView{
		ClientID: h.cfg.Google.ClientID(),
		LoginURI: h.scheme().Origin(r) + routepath.GoogleCredentialFor(string(flow)),
		Redirect: h.cfg.Google.RedirectEnabled(),
	}
}

func (h handlers) writeAuthPage(w http.ResponseWriter, r *http.Request, status int, view webtemplates.AuthPageView) {
	if err := pagerender.WriteAuthPage(w, r, status, view); err != nil {
		h.logError(r, "render auth page failed", err)
	}
}

func (h handlers) resolveAuthTag(w http.ResponseWriter, r *http.Request) language.Tag {
	tag, persist := webi18n.ResolveTag(r)
	if persist {
		webi18n.SetLanguageCookie(w, tag)
	}
	return tag
}

func (h handlers) logError(r *http.Request, msg string, err error) {
	if err == nil || errors.Is(err, authflow.ErrInvalidForm) {
		return
	}
	h.cfg.Logger.Printf("%s path=%s request_id=%s err=%v", msg, r.URL.Path, httpx.RequestIDOf(r), err)
}

func flowParam(r *http.Request) authflow.Flow {
	flow, ok := authflow.ParseFlow(r.URL.Query().Get(routepath.FlowParam))
	if !ok {
		return authflow.FlowLogin
	}
	return flow
}

// classifyFailure maps a flow failure to a typed web error.
func classifyFailure(err error) error {
	switch authflow.FailureOf(err) {
	case authflow.FailureValidation:
		return apperrors.Wrap(apperrors.KindInvalidInput, authflow.NoticeProvideValidCredentials, err)
	case authflow.FailureRejected:
		return apperrors.Wrap(apperrors.KindUnauthorized, authflow.NoticeInvalidCredentials, err)
	case authflow.FailureTransport:
		return apperrors.Wrap(apperrors.KindUnavailable, authflow.NoticeUnexpectedError, err)
	case authflow.FailureProvider:
		return apperrors.Wrap(apperrors.KindBadGateway, authflow.NoticeProviderFailure, err)
	default:
		return apperrors.Wrap(apperrors.KindUnknown, "", err)
	}
}

func noticeViews(tag language.Tag, notices []authflow.Notice) []webtemplates.NoticeView {
	views := make([]webtemplates.NoticeView, 0, len(notices))
	for _, notice := range notices {
		text := webi18n.NoticeText(tag, notice.Key, notice.Message)
		if strings.TrimSpace(text) == "" {
			continue
		}
		views = append(views, webtemplates.NoticeView{Level: string(notice.Level), Text: text})
	}
	return views
}
