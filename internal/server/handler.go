package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"quizdeck/internal/catalog"
	"quizdeck/internal/deck"
	"quizdeck/internal/logging"
	"quizdeck/internal/photo"
	"quizdeck/internal/quiz"
)

// maxBody bounds request bodies, uploads included.
const maxBody = 4 << 20

// Catalog is the deck catalog the API serves.
type Catalog interface {
	Manifest(ctx context.Context) (catalog.Manifest, error)
	List(ctx context.Context) ([]catalog.Entry, error)
	Deck(ctx context.Context, file string) (deck.Deck, error)
	ProbeImage(ctx context.Context, ref string) bool
}

// Config captures the settings for the quiz HTTP API.
type Config struct {
	Addr           string
	Catalog        Catalog
	Logger         *logging.Logger
	Pacing         *quiz.Pacing
	Shuffle        deck.Shuffler
	AllowedOrigins []string
	// SessionTTL drops sessions idle for longer. Zero keeps them forever.
	SessionTTL time.Duration
	Now        func() time.Time
}

type api struct {
	catalog Catalog
	store   *sessionStore
	logger  *logging.Logger
	pacing  *quiz.Pacing
	shuffle deck.Shuffler
}

// NewHandler builds the HTTP handler for the deck catalog and quiz sessions.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Catalog == nil {
		return nil, errors.New("server: catalog is required")
	}
	a := &api{
		catalog: cfg.Catalog,
		store:   newSessionStore(cfg.SessionTTL, cfg.Now),
		logger:  logging.OrNop(cfg.Logger),
		pacing:  cfg.Pacing,
		shuffle: cfg.Shuffle,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(a.logger), middleware.Recoverer)
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{"Content-Length"},
			MaxAge:         300,
		}))
	}

	r.Get("/", a.index)
	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", a.listDecks)
		r.Post("/decks/overview", a.overview)
		r.Get("/decks/{file}", a.getDeck)
		r.Post("/sessions", a.createSession)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", a.getSession)
			r.Delete("/", a.deleteSession)
			r.Post("/submit", a.submit)
			r.Post("/clue", a.acknowledgeClue)
			r.Post("/image", a.image)
			r.Post("/timer", a.timer)
			r.Post("/photo", a.judgePhoto)
			r.Post("/continue", a.continueSession)
		})
	})
	return r, nil
}

// requestLogger logs one line per request through zap.
func requestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

func (a *api) index(w http.ResponseWriter, r *http.Request) {
	entries, err := a.catalog.List(r.Context())
	if err != nil {
		templ.Handler(IndexPage(nil, "Failed to load decks."), templ.WithStatus(http.StatusBadGateway)).ServeHTTP(w, r)
		return
	}
	templ.Handler(IndexPage(entries, "")).ServeHTTP(w, r)
}

type deckListing struct {
	File     string        `json:"file"`
	Name     string        `json:"name"`
	Icon     string        `json:"icon"`
	Title    string        `json:"title"`
	Overview deck.Overview `json:"overview"`
}

func (a *api) listDecks(w http.ResponseWriter, r *http.Request) {
	entries, err := a.catalog.List(r.Context())
	if err != nil {
		respondError(w, http.StatusBadGateway, "failed to load decks")
		return
	}
	listings := make([]deckListing, 0, len(entries))
	for _, entry := range entries {
		listings = append(listings, deckListing{
			File:     entry.File,
			Name:     entry.Name,
			Icon:     entry.Icon,
			Title:    entry.Deck.Title(),
			Overview: deck.Summarize(entry.Deck),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"decks": listings})
}

func (a *api) getDeck(w http.ResponseWriter, r *http.Request) {
	d, err := a.catalogDeck(r.Context(), chi.URLParam(r, "file"))
	if err != nil {
		a.respondDeckError(w, err, false)
		return
	}
	respondJSON(w, http.StatusOK, d)
}

// catalogDeck loads a deck only when the manifest lists it.
func (a *api) catalogDeck(ctx context.Context, file string) (deck.Deck, error) {
	manifest, err := a.catalog.Manifest(ctx)
	if err != nil {
		return deck.Deck{}, err
	}
	if !slices.Contains(manifest.Decks, file) {
		return deck.Deck{}, fmt.Errorf("%w: %s: %w", deck.ErrDeckLoad, file, fs.ErrNotExist)
	}
	return a.catalog.Deck(ctx, file)
}

type uploadRequest struct {
	Upload json.RawMessage `json:"upload"`
	Format string          `json:"format"`
}

// parse decodes an uploaded deck. A JSON object is the deck itself; a JSON
// string is a document in Format (JSON unless "yaml").
func (u uploadRequest) parse() (deck.Deck, error) {
	raw := []byte(strings.TrimSpace(string(u.Upload)))
	format := deck.FormatJSON
	if strings.EqualFold(u.Format, "yaml") || strings.EqualFold(u.Format, "yml") {
		format = deck.FormatYAML
	}
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return deck.Deck{}, fmt.Errorf("%w: %w", deck.ErrDeckLoad, err)
		}
		return deck.Parse([]byte(text), format)
	}
	return deck.Parse(raw, deck.FormatJSON)
}

func (a *api) overview(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if !decodeBody(w, r, &req) {
		return
	}
	d, err := req.parse()
	if err != nil {
		a.respondDeckError(w, err, true)
		return
	}
	respondJSON(w, http.StatusOK, deck.Summarize(d))
}

type createRequest struct {
	Deck string `json:"deck"`
	uploadRequest
}

func (a *api) createSession(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var (
		d      deck.Deck
		err    error
		upload bool
	)
	switch {
	case req.Deck != "" && len(req.Upload) > 0:
		respondError(w, http.StatusBadRequest, "choose either deck or upload")
		return
	case req.Deck != "":
		d, err = a.catalogDeck(r.Context(), req.Deck)
	case len(req.Upload) > 0:
		upload = true
		d, err = req.parse()
	default:
		respondError(w, http.StatusBadRequest, "deck or upload is required")
		return
	}
	if err != nil {
		a.respondDeckError(w, err, upload)
		return
	}

	session := quiz.Start(d, quiz.Options{Shuffle: a.shuffle, Pacing: a.pacing})
	a.store.add(session)
	a.logger.Info("session started", "session", session.ID, "deck", d.Name, "steps", session.Total())
	respondJSON(w, http.StatusCreated, projectSession(session, nil))
}

func (a *api) getSession(w http.ResponseWriter, r *http.Request) {
	session, err := a.store.get(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, projectSession(session, nil))
}

func (a *api) deleteSession(w http.ResponseWriter, r *http.Request) {
	if !a.store.remove(chi.URLParam(r, "id")) {
		respondError(w, http.StatusNotFound, errSessionNotFound.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type submitRequest struct {
	Input  string `json:"input"`
	Choice *int   `json:"choice"`
}

func (a *api) submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a.apply(w, r, func(s quiz.Session) (quiz.Session, []quiz.Effect) {
		if req.Choice != nil {
			return s.SubmitChoice(*req.Choice)
		}
		return s.Submit(req.Input)
	})
}

func (a *api) acknowledgeClue(w http.ResponseWriter, r *http.Request) {
	a.apply(w, r, quiz.Session.AcknowledgeClue)
}

type imageRequest struct {
	// Loaded reports the client's own probe. When absent the server probes
	// the image through the catalog.
	Loaded *bool `json:"loaded"`
}

// image resolves a pending image probe, or acknowledges a shown image. The
// server-side probe runs under the session lock so its result always belongs
// to the step that asked for it.
func (a *api) image(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if !decodeOptionalBody(w, r, &req) {
		return
	}
	a.apply(w, r, func(s quiz.Session) (quiz.Session, []quiz.Effect) {
		switch {
		case s.State.Kind == quiz.KindShowingImage:
			return s.AcknowledgeImage()
		case s.State.Kind != quiz.KindShowingFeedback || s.State.FollowUp != quiz.FollowUpImage:
			return s, nil
		case req.Loaded != nil:
			return s.ImageResolved(*req.Loaded)
		}
		step, ok := s.Current()
		return s.ImageResolved(ok && a.catalog.ProbeImage(r.Context(), step.Image))
	})
}

type timerRequest struct {
	Seq int `json:"seq"`
}

func (a *api) timer(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	a.apply(w, r, func(s quiz.Session) (quiz.Session, []quiz.Effect) {
		return s.TimerElapsed(quiz.Timer{Seq: req.Seq})
	})
}

type photoRequest struct {
	Verdict string   `json:"verdict"`
	Offset  *float64 `json:"offset"`
	Width   float64  `json:"width"`
}

// gesture picks the explicit verdict or the split-screen tap position.
func (p photoRequest) gesture() (photo.Verdict, error) {
	if p.Verdict != "" {
		return photo.ParseVerdict(p.Verdict)
	}
	if p.Offset == nil {
		return "", errors.New("verdict or offset is required")
	}
	verdict, ok := photo.SplitGesture{Offset: *p.Offset, Width: p.Width}.Resolve()
	if !ok {
		return "", errors.New("width must be positive")
	}
	return verdict, nil
}

func (a *api) judgePhoto(w http.ResponseWriter, r *http.Request) {
	var req photoRequest
	if !decodeBody(w, r, &req) {
		return
	}
	verdict, err := req.gesture()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	a.apply(w, r, func(s quiz.Session) (quiz.Session, []quiz.Effect) {
		return s.JudgePhoto(verdict)
	})
}

func (a *api) continueSession(w http.ResponseWriter, r *http.Request) {
	a.apply(w, r, quiz.Session.ContinueFromPhotoJudgement)
}

// apply runs a transition on the session named in the path and responds with
// the projected result.
func (a *api) apply(w http.ResponseWriter, r *http.Request, transition func(quiz.Session) (quiz.Session, []quiz.Effect)) {
	id := chi.URLParam(r, "id")
	session, effects, err := a.store.update(id, transition)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if session.Finished() {
		a.logger.Info("session completed", "session", id, "deck", session.DeckName, "score", session.Score)
	}
	respondJSON(w, http.StatusOK, projectSession(session, effects))
}

// respondDeckError maps deck failures to statuses. Undecodable uploads are
// client errors; catalog read failures are upstream errors.
func (a *api) respondDeckError(w http.ResponseWriter, err error, upload bool) {
	switch {
	case errors.Is(err, deck.ErrInvalidDeckFormat):
		var formatErr *deck.FormatError
		if errors.As(err, &formatErr) {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":  deck.ErrInvalidDeckFormat.Error(),
				"issues": formatErr.Issues,
			})
			return
		}
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, fs.ErrNotExist):
		respondError(w, http.StatusNotFound, "deck not found")
	case upload:
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		a.logger.Error("deck load failed", "error", err)
		respondError(w, http.StatusBadGateway, "failed to load deck")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := decoder.Decode(target); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// decodeOptionalBody accepts an empty body.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, target any) bool {
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	if err := decoder.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
