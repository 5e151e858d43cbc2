package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"quizdeck/internal/catalog"
	"quizdeck/internal/deck"
	"quizdeck/internal/quiz"
	"quizdeck/internal/testutil"
)

const strictDeck = `{
  "name": "Mixed",
  "icon": "🧪",
  "steps": [
    { "question": "2+2?", "answer": "4", "clue": "Count your fingers." },
    { "question": "Color of the sky?", "answer": "Blue", "choices": ["Green", "Blue"], "image": "sky.png" },
    { "question": "Photograph a cat", "type": "camera" }
  ]
}`

// writeCatalog creates a catalog directory with the given files.
func writeCatalog(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

// startAPI serves the API over a catalog directory.
func startAPI(t *testing.T, dir string) *testutil.ServerInstance {
	t.Helper()
	handler, err := NewHandler(Config{Catalog: catalog.New(catalog.NewDirSource(dir), nil)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return testutil.StartServer(t, handler)
}

func mixedCatalog(t *testing.T) string {
	return writeCatalog(t, map[string]string{
		"index.json": `{"decks":["mixed.json"]}`,
		"mixed.json": strictDeck,
		"sky.png":    "png",
	})
}

// post drives one session endpoint and checks the status.
func post(t *testing.T, base, id, action string, payload any) sessionView {
	t.Helper()
	var view sessionView
	status := testutil.HTTPJSON(t, http.MethodPost, base+"/api/sessions/"+id+"/"+action, payload, &view)
	if status != http.StatusOK {
		t.Fatalf("%s: expected 200, got %d", action, status)
	}
	return view
}

func scheduledSeq(t *testing.T, view sessionView) int {
	t.Helper()
	for _, effect := range view.Effects {
		if effect.Kind == quiz.EffectSchedule {
			return effect.Seq
		}
	}
	t.Fatalf("expected a schedule effect, got %+v", view.Effects)
	return 0
}

func hasEffect(view sessionView, kind quiz.EffectKind) bool {
	for _, effect := range view.Effects {
		if effect.Kind == kind {
			return true
		}
	}
	return false
}

func expectKind(t *testing.T, view sessionView, kind quiz.Kind, step int) {
	t.Helper()
	if view.State.Kind != kind || view.State.Step != step {
		t.Fatalf("expected %s at step %d, got %s at step %d", kind, step, view.State.Kind, view.State.Step)
	}
}

// TestStrictSessionRunsToCompletion drives every step modality over HTTP.
func TestStrictSessionRunsToCompletion(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))

	var view sessionView
	status := testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/sessions", map[string]string{"deck": "mixed.json"}, &view)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	id := view.ID
	if id == "" || view.Mode != "Strict" || view.Total != 3 {
		t.Fatalf("unexpected session %+v", view)
	}
	expectKind(t, view, quiz.KindAwaitingSubmission, 0)

	view = post(t, srv.BaseURL, id, "submit", map[string]string{"input": "5"})
	expectKind(t, view, quiz.KindAwaitingSubmission, 0)
	if view.State.Error != quiz.WrongAnswerMessage || !hasEffect(view, quiz.EffectClearInput) {
		t.Fatalf("expected wrong answer feedback, got %+v", view)
	}

	view = post(t, srv.BaseURL, id, "submit", map[string]string{"input": " 4 "})
	expectKind(t, view, quiz.KindShowingClue, 0)
	if view.Step == nil || view.Step.Clue != "Count your fingers." {
		t.Fatalf("expected clue in view, got %+v", view.Step)
	}

	view = post(t, srv.BaseURL, id, "clue", nil)
	expectKind(t, view, quiz.KindShowingFeedback, 0)
	view = post(t, srv.BaseURL, id, "timer", map[string]int{"seq": scheduledSeq(t, view)})
	expectKind(t, view, quiz.KindAwaitingSubmission, 1)
	if view.StepNumber != 2 {
		t.Fatalf("expected step number 2, got %d", view.StepNumber)
	}

	view = post(t, srv.BaseURL, id, "submit", map[string]int{"choice": 0})
	expectKind(t, view, quiz.KindShowingFeedback, 1)
	if view.State.FollowUp != quiz.FollowUpRetry || len(view.State.Highlight) != 1 || view.State.Highlight[0] != 1 {
		t.Fatalf("expected retry with highlight on Blue, got %+v", view.State)
	}
	for _, effect := range view.Effects {
		if effect.Kind == quiz.EffectSchedule && effect.DelayMs != 2500 {
			t.Fatalf("expected 2500ms choice feedback, got %d", effect.DelayMs)
		}
	}
	view = post(t, srv.BaseURL, id, "timer", map[string]int{"seq": scheduledSeq(t, view)})
	expectKind(t, view, quiz.KindAwaitingSubmission, 1)

	view = post(t, srv.BaseURL, id, "submit", map[string]int{"choice": 1})
	if view.State.FollowUp != quiz.FollowUpImage || !hasEffect(view, quiz.EffectLoadImage) {
		t.Fatalf("expected image probe, got %+v", view)
	}
	view = post(t, srv.BaseURL, id, "image", nil)
	expectKind(t, view, quiz.KindShowingImage, 1)
	if view.Step.Image != "sky.png" {
		t.Fatalf("expected image in view, got %q", view.Step.Image)
	}
	view = post(t, srv.BaseURL, id, "image", nil)
	expectKind(t, view, quiz.KindAwaitingSubmission, 2)

	view = post(t, srv.BaseURL, id, "submit", map[string]string{"input": "cat.jpg"})
	expectKind(t, view, quiz.KindAwaitingPhotoJudgement, 2)
	view = post(t, srv.BaseURL, id, "photo", map[string]float64{"offset": 10, "width": 100})
	if view.State.Kind != quiz.KindPhotoJudged || view.State.Verdict != "incorrect" {
		t.Fatalf("expected incorrect verdict, got %+v", view.State)
	}
	view = post(t, srv.BaseURL, id, "continue", nil)
	expectKind(t, view, quiz.KindAwaitingSubmission, 2)

	post(t, srv.BaseURL, id, "submit", map[string]string{"input": "cat2.jpg"})
	view = post(t, srv.BaseURL, id, "photo", map[string]string{"verdict": "correct"})
	if view.State.Verdict != "correct" {
		t.Fatalf("expected correct verdict, got %+v", view.State)
	}
	view = post(t, srv.BaseURL, id, "continue", nil)
	view = post(t, srv.BaseURL, id, "timer", map[string]int{"seq": scheduledSeq(t, view)})

	if view.State.Kind != quiz.KindCompleted || view.Progress != 1 {
		t.Fatalf("expected completed session, got %+v", view)
	}
	if view.Score != 3 || view.Summary == nil || view.Summary.Practice {
		t.Fatalf("unexpected summary %+v", view.Summary)
	}
	if !strings.Contains(strings.Join(view.Lines, "\n"), "You completed Mixed!") {
		t.Fatalf("expected completion banner, got %v", view.Lines)
	}
}

// TestCreateSessionFromUpload verifies uploads bypass the catalog.
func TestCreateSessionFromUpload(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))

	var view sessionView
	payload := map[string]any{
		"upload": "name: Upload\nrequireCorrectAnswers: false\nsteps:\n  - question: Q\n    answer: A\n",
		"format": "yaml",
	}
	status := testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/sessions", payload, &view)
	if status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if view.Deck != "Upload" || view.Mode != "Practice" || view.Icon != "📋" {
		t.Fatalf("unexpected session %+v", view)
	}

	view = post(t, srv.BaseURL, view.ID, "submit", map[string]string{"input": "B"})
	view = post(t, srv.BaseURL, view.ID, "timer", map[string]int{"seq": scheduledSeq(t, view)})
	if view.Summary == nil || view.Summary.Percentage != 0 || view.Summary.Total != 1 {
		t.Fatalf("unexpected practice summary %+v", view.Summary)
	}
}

// TestDeckErrorsMapToStatuses verifies deck failures surface as HTTP statuses.
func TestDeckErrorsMapToStatuses(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))
	sessions := srv.BaseURL + "/api/sessions"

	tests := []struct {
		name    string
		payload any
		want    int
	}{
		{name: "missing name", payload: map[string]any{"upload": map[string]any{"steps": []any{}}}, want: http.StatusUnprocessableEntity},
		{name: "steps not a list", payload: map[string]any{"upload": map[string]any{"name": "x", "steps": "nope"}}, want: http.StatusUnprocessableEntity},
		{name: "malformed document", payload: map[string]any{"upload": "{not json"}, want: http.StatusBadRequest},
		{name: "unknown deck", payload: map[string]string{"deck": "missing.json"}, want: http.StatusNotFound},
		{name: "nothing", payload: map[string]string{}, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.HTTPJSON(t, http.MethodPost, sessions, tt.payload, nil); got != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

// TestUnknownSessionIsNotFound verifies missing sessions return 404.
func TestUnknownSessionIsNotFound(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))
	if status, _ := testutil.HTTPGet(t, srv.BaseURL+"/api/sessions/nope"); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if status := testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/sessions/nope/clue", nil, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

// TestDeleteSession verifies a deleted session is gone.
func TestDeleteSession(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))
	var view sessionView
	testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/sessions", map[string]string{"deck": "mixed.json"}, &view)

	if status := testutil.HTTPJSON(t, http.MethodDelete, srv.BaseURL+"/api/sessions/"+view.ID, nil, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", status)
	}
	if status, _ := testutil.HTTPGet(t, srv.BaseURL+"/api/sessions/"+view.ID); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

// TestListDecksAndOverview verifies catalog listing and upload previews.
func TestListDecksAndOverview(t *testing.T) {
	srv := startAPI(t, mixedCatalog(t))

	var listing struct {
		Decks []deckListing `json:"decks"`
	}
	if status := testutil.HTTPJSON(t, http.MethodGet, srv.BaseURL+"/api/decks", nil, &listing); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if len(listing.Decks) != 1 || listing.Decks[0].Title != "🧪 Mixed" {
		t.Fatalf("unexpected listing %+v", listing)
	}
	overview := listing.Decks[0].Overview
	if overview.TextSteps != 1 || overview.ChoiceSteps != 1 || overview.CameraSteps != 1 || overview.WithImages != 1 {
		t.Fatalf("unexpected overview %+v", overview)
	}

	var preview struct {
		Name       string `json:"name"`
		ToAsk      int    `json:"questionsToAsk"`
		TotalSteps int    `json:"totalSteps"`
	}
	payload := map[string]any{"upload": map[string]any{
		"name":         "Preview",
		"maxQuestions": 1,
		"steps":        []map[string]string{{"question": "a", "answer": "b"}, {"question": "c", "answer": "d"}},
	}}
	if status := testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/decks/overview", payload, &preview); status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if preview.Name != "Preview" || preview.ToAsk != 1 || preview.TotalSteps != 2 {
		t.Fatalf("unexpected preview %+v", preview)
	}
}

// TestIndexListsDecks verifies the HTML index escapes and links decks.
func TestIndexListsDecks(t *testing.T) {
	dir := writeCatalog(t, map[string]string{
		"index.json": `{"decks":["tags.json"]}`,
		"tags.json":  `{"name":"<b>Tags</b>","steps":[]}`,
	})
	handler, err := NewHandler(Config{Catalog: catalog.New(catalog.NewDirSource(dir), nil)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "&lt;b&gt;Tags&lt;/b&gt;") || !strings.Contains(body, `href="/api/decks/tags.json"`) {
		t.Fatalf("unexpected index body: %s", body)
	}
	if !strings.Contains(body, `<span class="count">0 questions</span>`) {
		t.Fatalf("expected question count in index: %s", body)
	}
}

// TestIndexPageRendersEntries renders the component directly.
func TestIndexPageRendersEntries(t *testing.T) {
	entries := []catalog.Entry{
		{File: "my deck.json", Name: "Rivers", Icon: "🌊", Deck: deck.Deck{
			Steps:        []deck.Step{{Question: "A"}, {Question: "B"}, {Question: "C"}},
			MaxQuestions: 1,
		}},
		{File: "lakes.json", Name: "Lakes", Icon: "🏞", Deck: deck.Deck{Steps: []deck.Step{{Question: "A"}, {Question: "B"}}}},
	}
	var b strings.Builder
	if err := IndexPage(entries, "").Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := b.String()
	for _, want := range []string{
		"<!doctype html>",
		`<a href="/api/decks/my%20deck.json">🌊 Rivers</a>`,
		`<span class="count">1 question</span>`,
		`<span class="count">2 questions</span>`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in %s", want, html)
		}
	}

	b.Reset()
	if err := IndexPage(nil, "").Render(context.Background(), &b); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(b.String(), "No decks available.") {
		t.Fatalf("expected empty catalog message, got %s", b.String())
	}
}

// TestIndexReportsCatalogFailure verifies a broken catalog renders an error page.
func TestIndexReportsCatalogFailure(t *testing.T) {
	handler, err := NewHandler(Config{Catalog: catalog.New(catalog.NewDirSource(t.TempDir()), nil)})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "http://example.com/", nil))
	if resp.Code != http.StatusBadGateway || !strings.Contains(resp.Body.String(), "Failed to load decks.") {
		t.Fatalf("expected error page, got %d %s", resp.Code, resp.Body.String())
	}
}

// TestCORSAllowsConfiguredOrigin verifies preflight handling.
func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	handler, err := NewHandler(Config{
		Catalog:        catalog.New(catalog.NewDirSource(mixedCatalog(t)), nil),
		AllowedOrigins: []string{"http://front.test"},
	})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	req := httptest.NewRequest(http.MethodOptions, "http://example.com/api/sessions", nil)
	req.Header.Set("Origin", "http://front.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://front.test" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

// TestSessionStoreExpiresIdleSessions verifies the ttl prune.
func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	clock := testutil.NewFakeClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := newSessionStore(time.Minute, clock.Now)
	store.add(quiz.Session{ID: "a"})

	clock.Advance(30 * time.Second)
	if _, err := store.get("a"); err != nil {
		t.Fatalf("expected session to survive: %v", err)
	}
	clock.Advance(2 * time.Minute)
	if _, err := store.get("a"); err != errSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
	if store.len() != 0 {
		t.Fatalf("expected empty store")
	}
}

// TestNewHandlerRequiresCatalog verifies configuration errors.
func TestNewHandlerRequiresCatalog(t *testing.T) {
	if _, err := NewHandler(Config{}); err == nil {
		t.Fatalf("expected error without catalog")
	}
}

// countingCatalog records the images probed through it.
type countingCatalog struct {
	*catalog.Catalog

	mu     sync.Mutex
	probed []string
}

func (c *countingCatalog) ProbeImage(ctx context.Context, ref string) bool {
	c.mu.Lock()
	c.probed = append(c.probed, ref)
	c.mu.Unlock()
	return c.Catalog.ProbeImage(ctx, ref)
}

func (c *countingCatalog) probes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.probed...)
}

// TestImageProbeOnlyForPendingStep verifies the server probes the image of the
// step that is waiting for it and nothing else.
func TestImageProbeOnlyForPendingStep(t *testing.T) {
	dir := mixedCatalog(t)
	cat := &countingCatalog{Catalog: catalog.New(catalog.NewDirSource(dir), nil)}
	handler, err := NewHandler(Config{Catalog: cat})
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	srv := testutil.StartServer(t, handler)

	upload := map[string]any{"upload": map[string]any{
		"name": "Pictures",
		"steps": []any{
			map[string]any{"question": "Sky?", "answer": "blue", "image": "sky.png"},
			map[string]any{"question": "Grass?", "answer": "green", "image": "grass.png"},
		},
	}}
	var view sessionView
	if status := testutil.HTTPJSON(t, http.MethodPost, srv.BaseURL+"/api/sessions", upload, &view); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	id := view.ID

	view = post(t, srv.BaseURL, id, "image", nil)
	expectKind(t, view, quiz.KindAwaitingSubmission, 0)
	if got := cat.probes(); len(got) != 0 {
		t.Fatalf("expected no probe before an answer, got %v", got)
	}

	post(t, srv.BaseURL, id, "submit", map[string]string{"input": "Blue"})
	view = post(t, srv.BaseURL, id, "image", nil)
	expectKind(t, view, quiz.KindShowingImage, 0)
	view = post(t, srv.BaseURL, id, "image", nil)
	expectKind(t, view, quiz.KindAwaitingSubmission, 1)

	post(t, srv.BaseURL, id, "submit", map[string]string{"input": "green"})
	view = post(t, srv.BaseURL, id, "image", nil)
	if view.State.Kind != quiz.KindCompleted {
		t.Fatalf("expected missing image to complete the deck, got %+v", view.State)
	}
	got := cat.probes()
	if len(got) != 2 || got[0] != "sky.png" || got[1] != "grass.png" {
		t.Fatalf("expected one probe per answered step, got %v", got)
	}
}
