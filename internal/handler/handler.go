// Package handler serves the exam flow over HTTP.
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/quizforge/internal/export"
	"github.com/pavelanni/quizforge/internal/handler/views"
	"github.com/pavelanni/quizforge/internal/model"
	"github.com/pavelanni/quizforge/internal/session"
)

// Generator is the quiz source used by the handler.
type Generator interface {
	session.Generator
	HasCredential() bool
	DemoMode() bool
}

// Config holds server settings.
type Config struct {
	BasePath        string
	SecureCookies   bool
	MaxUploadBytes  int64
	GenerateTimeout time.Duration
	Export          export.Options
}

// DefaultMaxUpload is the upload limit when Config leaves it unset.
const DefaultMaxUpload = 50 << 20

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	sessions *session.Registry
	gen      Generator
	config   Config
}

// New creates a new Handler.
func New(reg *session.Registry, gen Generator, cfg Config) (*Handler, error) {
	if reg == nil || gen == nil {
		return nil, errors.New("handler needs a session registry and a generator")
	}
	cfg.BasePath = strings.TrimRight(cfg.BasePath, "/")
	if cfg.BasePath != "" && !strings.HasPrefix(cfg.BasePath, "/") {
		cfg.BasePath = "/" + cfg.BasePath
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultMaxUpload
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = 3 * time.Minute
	}
	return &Handler{sessions: reg, gen: gen, config: cfg}, nil
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/healthz", h.handleHealth)
	r.Group(func(r chi.Router) {
		r.Use(h.limitBody)
		r.Use(h.csrfMiddleware)
		r.Use(h.sessionMiddleware)

		r.Get("/", h.handleIndex)
		r.Post("/config", h.handleConfig)
		r.Post("/generate", h.handleGenerate)
		r.Post("/answer/{questionID}", h.handleAnswer)
		r.Post("/submit", h.handleSubmit)
		r.Post("/retake", h.handleRetake)
		r.Post("/new", h.handleNewExam)
		r.Get("/download", h.handleDownload)
	})
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	data := views.PageData{
		Session: sess.Snapshot(),
		Notice:  noticeFromQuery(r),
		Demo:    h.gen.DemoMode(),
		Live:    h.gen.HasCredential(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.IndexPage(data).Render(r.Context(), w); err != nil {
		slog.Error("render error", "error", err)
	}
}

// parseConfig reads exam settings from the form, keeping current values
// for fields the form leaves out.
func parseConfig(r *http.Request, current model.ExamConfig) model.ExamConfig {
	cfg := current
	if v := r.FormValue("level"); v != "" {
		cfg.AcademicLevel = v
	}
	if v := r.FormValue("language"); v != "" {
		cfg.Language = model.Language(v)
	}
	if _, ok := r.Form["topics"]; ok {
		cfg.FocusTopics = strings.TrimSpace(r.FormValue("topics"))
	}
	if v := r.FormValue("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			n = -1
		}
		cfg.QuestionCount = n
	}
	return cfg
}

func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())
	cfg := parseConfig(r, sess.Snapshot().Config)
	if err := sess.SetConfig(cfg); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/", &views.Notice{ID: "NoticeSettingsSaved", Kind: views.NoticeSuccess})
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	cfg := parseConfig(r, sess.Snapshot().Config)
	var file *model.Upload
	up, err := readUpload(r)
	switch {
	case errors.Is(err, errNoUpload):
	case err != nil:
		h.fail(w, r, err)
		return
	default:
		file = &up
	}
	if err := sess.Prepare(file, cfg); err != nil {
		h.fail(w, r, err)
		return
	}

	// A started generation runs to completion even if the browser goes away.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.config.GenerateTimeout)
	defer cancel()

	start := time.Now()
	if err := sess.Generate(ctx, h.gen); err != nil {
		slog.Warn("exam generation failed", "error", err, "elapsed", time.Since(start))
		h.fail(w, r, err)
		return
	}
	slog.Info("exam generated", "elapsed", time.Since(start))
	h.redirect(w, r, "/", &views.Notice{ID: "NoticeExamGenerated", Kind: views.NoticeSuccess})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	questionID, err := strconv.Atoi(chi.URLParam(r, "questionID"))
	if err != nil {
		h.fail(w, r, session.ErrUnknownQuestion)
		return
	}
	option, err := strconv.Atoi(r.FormValue("option"))
	if err != nil {
		h.fail(w, r, session.ErrInvalidOption)
		return
	}
	if err := sess.SelectAnswer(questionID, option); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/#q"+strconv.Itoa(questionID), nil)
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if _, err := sessionFromContext(r.Context()).Submit(); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/", nil)
}

func (h *Handler) handleRetake(w http.ResponseWriter, r *http.Request) {
	if err := sessionFromContext(r.Context()).Retake(); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/", nil)
}

func (h *Handler) handleNewExam(w http.ResponseWriter, r *http.Request) {
	if err := sessionFromContext(r.Context()).NewExam(); err != nil {
		h.fail(w, r, err)
		return
	}
	h.redirect(w, r, "/", nil)
}

func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFromContext(r.Context())

	exp, err := export.ByFormat(r.URL.Query().Get("format"), h.config.Export)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	kind := model.ParsePaperKind(r.URL.Query().Get("type"))

	var buf bytes.Buffer
	if err := sess.Download(r.Context(), &buf, exp, kind.IncludesAnswers()); err != nil {
		slog.Error("download failed", "format", exp.Extension(), "type", kind, "error", err)
		h.fail(w, r, err)
		return
	}

	name := model.ExportFileName(sess.Snapshot().Quiz, kind, exp.Extension())
	w.Header().Set("Content-Type", exp.ContentType())
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("write download", "error", err)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"sessions":   h.sessions.Len(),
		"credential": h.gen.HasCredential(),
		"demo":       h.gen.DemoMode(),
	})
}

// Mount registers the routes on r under the configured base path.
func (h *Handler) Mount(r chi.Router) {
	basePath := h.config.BasePath
	if basePath == "" {
		r.Group(func(r chi.Router) {
			r.Use(h.BasePathMiddleware)
			h.Routes(r)
		})
		return
	}
	r.Route(basePath, func(sub chi.Router) {
		sub.Use(h.BasePathMiddleware)
		h.Routes(sub)
	})
	r.Get(basePath, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, basePath+"/", http.StatusMovedPermanently)
	})
}
