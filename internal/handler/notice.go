package handler

import (
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"net/url"
	"slices"

	"github.com/pavelanni/quizforge/internal/handler/views"
	appI18n "github.com/pavelanni/quizforge/internal/i18n"
	"github.com/pavelanni/quizforge/internal/llm"
	"github.com/pavelanni/quizforge/internal/model"
	"github.com/pavelanni/quizforge/internal/session"
)

const (
	noticeParam = "notice"
	reasonParam = "reason"
)

var reasonMessages = map[llm.Reason]string{
	llm.ReasonTimeout:     "ReasonTimeout",
	llm.ReasonRateLimited: "ReasonRateLimited",
	llm.ReasonUnavailable: "ReasonUnavailable",
	llm.ReasonBlocked:     "ReasonBlocked",
}

// reasonFor returns the message id explaining why generation failed, or
// "" when there is nothing useful to add.
func reasonFor(err error) string {
	var exhausted *llm.ExhaustedError
	if !errors.As(err, &exhausted) || exhausted.AccessDenied() {
		return ""
	}
	return reasonMessages[exhausted.Reason()]
}

// noticeFor maps an error to the message id shown to the user.
func noticeFor(err error) string {
	var (
		exhausted *llm.ExhaustedError
		parseErr  *llm.ParseError
		exportErr *session.ExportError
		invalid   *model.ValidationError
		tooLarge  *http.MaxBytesError
	)
	switch {
	case errors.Is(err, session.ErrBusy):
		return "NoticeBusy"
	case errors.Is(err, session.ErrInvalidTransition):
		return "NoticeInvalidAction"
	case errors.Is(err, session.ErrNoFile):
		return "NoticeNoFile"
	case errors.Is(err, session.ErrUnknownQuestion), errors.Is(err, session.ErrInvalidOption):
		return "NoticeInvalidAnswer"
	case errors.Is(err, model.ErrEmptyUpload):
		return "NoticeEmptyFile"
	case errors.Is(err, model.ErrUnsupportedMedia):
		return "NoticeUnsupportedFile"
	case errors.As(err, &tooLarge):
		return "NoticeFileTooLarge"
	case llm.IsConfigError(err):
		return "NoticeNoCredential"
	case errors.As(err, &exhausted) && exhausted.AccessDenied():
		return "NoticeAccessDenied"
	case errors.As(err, &parseErr):
		return "NoticeParseFailed"
	case errors.As(err, &exportErr):
		return "NoticeExportFailed"
	case errors.As(err, &invalid):
		return "NoticeInvalidConfig"
	default:
		return "NoticeGenerationFailed"
	}
}

// fail redirects back to the page with an error notice.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	n := &views.Notice{ID: noticeFor(err), Reason: reasonFor(err), Kind: views.NoticeError}
	slog.Debug("request failed", "path", r.URL.Path, "notice", n.ID, "reason", n.Reason, "error", err)
	h.redirect(w, r, "/", n)
}

// redirect sends a 303 to target (a path relative to the base path,
// optionally with a #fragment) carrying the notice in the query.
func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string, n *views.Notice) {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	u.Path = h.path(u.Path)
	if n != nil {
		q := u.Query()
		q.Set(noticeParam, n.ID)
		if n.Reason != "" {
			q.Set(reasonParam, n.Reason)
		}
		if n.Kind == views.NoticeSuccess {
			q.Set("ok", "1")
		}
		u.RawQuery = q.Encode()
	}
	http.Redirect(w, r, u.String(), http.StatusSeeOther)
}

// noticeFromQuery accepts only message ids that exist, so the query
// cannot inject arbitrary text.
func noticeFromQuery(r *http.Request) *views.Notice {
	q := r.URL.Query()
	id := q.Get(noticeParam)
	if id == "" || !appI18n.Has(id) {
		return nil
	}
	n := &views.Notice{ID: id, Kind: views.NoticeError}
	if q.Get("ok") == "1" {
		n.Kind = views.NoticeSuccess
	}
	if reason := q.Get(reasonParam); slices.Contains(slices.Collect(maps.Values(reasonMessages)), reason) {
		n.Reason = reason
	}
	return n
}
