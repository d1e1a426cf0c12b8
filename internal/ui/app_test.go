package ui

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"

	"github.com/five82/marquee/internal/catalog"
	"github.com/five82/marquee/internal/config"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/session"
	"github.com/five82/marquee/internal/stubapi"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// cmdTimeout bounds how long the harness waits on a command. Ticks for
// toasts, cursor blink and the activity refresh are longer and get dropped.
const cmdTimeout = 150 * time.Millisecond

type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

// harness drives a Model against the stub API the way the Bubble Tea runtime
// would: every command runs and its message is fed back into Update.
type harness struct {
	t         *testing.T
	model     Model
	client    *catalog.Client
	gate      *session.Gate
	access    *syncBuffer
	prefsPath string
}

type harnessOptions struct {
	signedIn bool
	paging   config.SeriesPaging
	logLines []string
}

func newHarness(t *testing.T, opts harnessOptions) *harness {
	t.Helper()
	access := &syncBuffer{}
	srv := stubapi.New("test-secret", stubapi.WithFixtures(), stubapi.WithAccessLog(access))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)

	client, err := catalog.NewClient(ts.URL, catalog.WithTimeout(2*time.Second))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	dir := t.TempDir()
	gate := session.NewGate(session.NewFileStore(filepath.Join(dir, "session.toml")), client)
	if opts.signedIn {
		if _, err := gate.Login(context.Background(), catalog.Credentials{Email: "admin@marquee.local", Password: "marquee"}); err != nil {
			t.Fatalf("Login returned error: %v", err)
		}
	}

	cfg := config.Default()
	cfg.APIURL = ts.URL
	cfg.LogPath = filepath.Join(dir, "marquee.log")
	cfg.SessionPath = filepath.Join(dir, "session.toml")
	if opts.paging != "" {
		cfg.SeriesPaging = opts.paging
	}
	if len(opts.logLines) > 0 {
		if err := os.WriteFile(cfg.LogPath, []byte(strings.Join(opts.logLines, "\n")+"\n"), 0o644); err != nil {
			t.Fatalf("write log: %v", err)
		}
	}

	h := &harness{
		t:         t,
		client:    client,
		gate:      gate,
		access:    access,
		prefsPath: filepath.Join(dir, "prefs.toml"),
	}
	h.model = New(Options{
		Context:   context.Background(),
		Client:    client,
		Gate:      gate,
		Config:    cfg,
		Prefs:     prefs.Defaults(),
		PrefsPath: h.prefsPath,
	})
	h.send(tea.WindowSizeMsg{Width: 120, Height: 40})
	h.run(h.model.Init())
	return h
}

// send delivers msg and runs whatever it returns.
func (h *harness) send(msg tea.Msg) {
	h.t.Helper()
	next, cmd := h.model.Update(msg)
	h.model = next.(Model)
	h.run(cmd)
}

func (h *harness) press(keys ...string) {
	h.t.Helper()
	for _, k := range keys {
		h.send(keyMsg(k))
	}
}

func (h *harness) typeText(text string) {
	h.t.Helper()
	h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func (h *harness) run(cmd tea.Cmd) {
	h.t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 200 {
			h.t.Fatalf("command loop did not settle")
		}
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg, ok := execute(c)
		if !ok {
			continue
		}
		switch msg := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case tea.QuitMsg:
			return
		default:
			next, out := h.model.Update(msg)
			h.model = next.(Model)
			queue = append(queue, out)
		}
	}
}

func execute(c tea.Cmd) (tea.Msg, bool) {
	done := make(chan tea.Msg, 1)
	go func() { done <- c() }()
	select {
	case msg := <-done:
		return msg, true
	case <-time.After(cmdTimeout):
		return nil, false
	}
}

// requested reports whether the stub logged a request for method and path.
func (h *harness) requested(method, path string) bool {
	for _, line := range strings.Split(h.access.String(), "\n") {
		if strings.Contains(line, method) && strings.Contains(line, `"`+path+`"`) {
			return true
		}
	}
	return false
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func seriesNames(rows []catalog.Series) []string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names
}

func TestRestoreWithoutSessionShowsLogin(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	if h.model.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", h.model.route)
	}
	if h.model.intended != session.RouteSeries {
		t.Fatalf("intended = %q, want series", h.model.intended)
	}
	if view := h.model.View(); !strings.Contains(view, "Email") {
		t.Fatalf("login view missing email field:\n%s", view)
	}
}

func TestRestoredSessionOpensSeries(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	if h.model.route != session.RouteSeries {
		t.Fatalf("route = %q, want series", h.model.route)
	}
	if got := len(h.model.series.rows); got != 4 {
		t.Fatalf("rows = %d, want 4 (first page)", got)
	}
	if got := len(h.model.series.categories); got != 2 {
		t.Fatalf("categories = %d, want 2", got)
	}
	if view := h.model.View(); !strings.Contains(view, "Jaspion") {
		t.Fatalf("series view missing fixture row:\n%s", view)
	}
}

func TestLoginValidationBlocksRequest(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	// Enter on the email field moves to the empty password first.
	h.press("enter", "enter")

	if h.model.login.errs == nil || h.model.login.errs.Field("email") == "" {
		t.Fatalf("expected an email error, got %+v", h.model.login.errs)
	}
	if h.model.login.errs.Field("senha") == "" {
		t.Fatalf("expected a password error")
	}
	if h.requested("POST", "/api/v1/login") {
		t.Fatalf("login request sent for invalid credentials:\n%s", h.access.String())
	}
	if h.gate.Status() != session.Unauthenticated {
		t.Fatalf("gate status = %v, want Unauthenticated", h.gate.Status())
	}
}

func TestLoginWrongPasswordStaysOnLogin(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	h.typeText("admin@marquee.local")
	h.press("tab")
	h.typeText("wrong")
	h.press("enter")

	if h.model.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", h.model.route)
	}
	if h.model.login.err != "Invalid email or password" {
		t.Fatalf("login error = %q", h.model.login.err)
	}
	if h.model.login.inputs[loginPassword].Value() != "" {
		t.Fatalf("password not cleared after failure")
	}
}

func TestLoginNavigatesToIntendedView(t *testing.T) {
	h := newHarness(t, harnessOptions{})

	// Asking for categories while signed out remembers the view.
	h.model.navigate(session.RouteCategories)
	if h.model.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", h.model.route)
	}

	h.typeText("admin@marquee.local")
	h.press("tab")
	h.typeText("marquee")
	h.press("enter")

	if h.model.route != session.RouteCategories {
		t.Fatalf("route = %q, want categories", h.model.route)
	}
	if !strings.HasPrefix(h.model.toast.text, "Signed in as") {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
	if user, ok := h.gate.CurrentUser(); !ok || user.Email != "admin@marquee.local" {
		t.Fatalf("CurrentUser = %+v, %v", user, ok)
	}
}

func TestSeriesPaging(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("]")
	if got := h.model.series.pager.Page(); got != 2 {
		t.Fatalf("page = %d, want 2", got)
	}
	if got := len(h.model.series.rows); got != 1 {
		t.Fatalf("rows on last page = %d, want 1", got)
	}

	h.press("]")
	if got := h.model.series.pager.Page(); got != 2 {
		t.Fatalf("page moved past the end: %d", got)
	}

	h.press("[")
	if got := len(h.model.series.rows); got != 4 {
		t.Fatalf("rows on first page = %d, want 4", got)
	}
}

func TestSeriesServerPaging(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true, paging: config.PagingServer})

	if got := len(h.model.series.rows); got != 4 {
		t.Fatalf("rows = %d, want 4", got)
	}
	if got := h.model.series.pager.LastPage(); got != 2 {
		t.Fatalf("last page = %d, want 2", got)
	}

	h.press("]")
	if names := seriesNames(h.model.series.rows); len(names) != 1 || names[0] != "Yu Yu Hakusho" {
		t.Fatalf("second page = %v, want [Yu Yu Hakusho]", names)
	}
}

func TestSeriesSearchReclampsPage(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("]", "/")
	if !h.model.series.searching {
		t.Fatal("search input not focused")
	}
	h.typeText("ja")

	if got := h.model.series.pager.Page(); got != 1 {
		t.Fatalf("page = %d, want 1 after filtering", got)
	}
	if names := seriesNames(h.model.series.rows); len(names) != 1 || names[0] != "Jaspion" {
		t.Fatalf("filtered rows = %v, want [Jaspion]", names)
	}

	// Keys typed into the search never switch views.
	h.typeText("2")
	if h.model.route != session.RouteSeries {
		t.Fatalf("route = %q while searching", h.model.route)
	}

	h.press("esc")
	if h.model.series.query != "" || len(h.model.series.rows) != 4 {
		t.Fatalf("esc did not clear filter: query=%q rows=%d", h.model.series.query, len(h.model.series.rows))
	}
}

func TestSeriesOrderToggleIsSaved(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("o")
	if got := h.model.series.rows[0].Name; got != "Yu Yu Hakusho" {
		t.Fatalf("first row = %q, want newest series", got)
	}
	if got := prefs.Load(h.prefsPath).SeriesOrder; got != prefs.OrderYearDesc {
		t.Fatalf("saved order = %q, want year_desc", got)
	}
}

func TestEditSeriesUpdatesRow(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("e")
	if _, ok := h.model.modal.(*formModal[catalog.Series, catalog.SeriesInput]); !ok {
		t.Fatalf("modal = %T, want series form", h.model.modal)
	}
	h.typeText(" Returns")
	h.press("enter")

	if h.model.modal != nil {
		t.Fatalf("dialog still open after save")
	}
	if got := h.model.series.rows[0].Name; got != "Jaspion Returns" {
		t.Fatalf("row name = %q, want Jaspion Returns", got)
	}
	if h.model.toast.text != "Series updated" {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
}

func TestEditLoadsFreshCopyFromServer(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})
	ctx := context.Background()
	row := h.model.series.rows[0]

	in := row.Input()
	in.Name = "Jaspion Renamed Elsewhere"
	if _, err := h.client.Series().Update(ctx, row.ID, in); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	h.press("e")
	if !h.requested("GET", "/api/v1/series/"+strconv.FormatInt(row.ID, 10)) {
		t.Fatal("edit did not fetch the series by id")
	}
	if _, ok := h.model.modal.(*formModal[catalog.Series, catalog.SeriesInput]); !ok {
		t.Fatalf("modal = %T, want series form", h.model.modal)
	}
	if got := h.model.series.form.Input().Name; got != "Jaspion Renamed Elsewhere" {
		t.Fatalf("form name = %q, want the server copy", got)
	}
}

func TestEditOfVanishedSeriesDropsRow(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})
	row := h.model.series.rows[0]
	if err := h.client.Series().Delete(context.Background(), row.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	h.press("e")
	if h.model.modal != nil {
		t.Fatalf("modal = %T, want none for a missing series", h.model.modal)
	}
	if slices.Contains(seriesNames(h.model.series.rows), row.Name) {
		t.Fatalf("rows still contain %q", row.Name)
	}
	if h.model.toast.text != "Series no longer exists" {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
}

func TestEditCategoryFetchesById(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})
	h.press("2")
	row := h.model.categories.rows[0]

	h.press("e")
	if !h.requested("GET", "/api/v1/categories/"+strconv.FormatInt(row.ID, 10)) {
		t.Fatal("edit did not fetch the category by id")
	}
	if got := h.model.categories.form.Input().Name; got != row.Name {
		t.Fatalf("form name = %q, want %q", got, row.Name)
	}
}

func TestEpisodesShowsRetryAfterFailedLoad(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})
	h.press("3")
	if h.model.route != session.RouteEpisodes {
		t.Fatalf("route = %q, want episodes", h.model.route)
	}

	h.model.episodes.loaded = false
	h.send(episodeSeriesMsg{mount: h.model.mount, err: errors.New("dial tcp: connection refused")})
	if h.model.episodes.loaded || h.model.episodes.err == nil {
		t.Fatalf("episodes loaded=%v err=%v, want failed load", h.model.episodes.loaded, h.model.episodes.err)
	}
	view := h.model.renderEpisodes()
	if strings.Contains(view, "Loading series") || !strings.Contains(view, "retry") {
		t.Fatalf("episodes view after failure:\n%s", view)
	}

	h.press("r")
	if !h.model.episodes.loaded || h.model.episodes.err != nil {
		t.Fatalf("reload left loaded=%v err=%v", h.model.episodes.loaded, h.model.episodes.err)
	}
}

func TestCreateCategory(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("2")
	if h.model.route != session.RouteCategories {
		t.Fatalf("route = %q, want categories", h.model.route)
	}
	if got := len(h.model.categories.rows); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}

	h.press("n")
	h.typeText("Super Sentai")
	h.press("enter")

	if h.model.modal != nil {
		t.Fatalf("dialog still open after save")
	}
	rows := h.model.categories.rows
	if len(rows) != 3 || rows[2].Name != "Super Sentai" {
		t.Fatalf("rows = %+v, want Super Sentai appended", rows)
	}
	if h.model.toast.text != "Category created" {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
}

func TestCreateCategoryRejectsEmptyName(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("2", "n", "enter")

	modal, ok := h.model.modal.(*formModal[catalog.Category, catalog.CategoryInput])
	if !ok {
		t.Fatalf("modal = %T, want open category form", h.model.modal)
	}
	if errs := modal.ctrl.Errors(); errs == nil || errs.Field("name") == "" {
		t.Fatalf("expected a name error, got %+v", errs)
	}
	if modal.ctrl.Submitting() {
		t.Fatal("invalid form marked as submitting")
	}
	if h.requested("POST", "/api/v1/categories") {
		t.Fatalf("request sent for invalid form:\n%s", h.access.String())
	}
	if got := len(h.model.categories.rows); got != 2 {
		t.Fatalf("rows = %d, want 2", got)
	}
}

func TestDeleteSeriesAfterConfirmation(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("d")
	if _, ok := h.model.modal.(*deleteModal); !ok {
		t.Fatalf("modal = %T, want delete confirmation", h.model.modal)
	}
	h.press("n")
	if h.model.modal != nil || len(h.model.series.list.Snapshot().Items) != 5 {
		t.Fatalf("declining removed the series")
	}

	h.press("d", "y")
	if h.model.modal != nil {
		t.Fatalf("dialog still open after delete")
	}
	items := h.model.series.list.Snapshot().Items
	if len(items) != 4 || items[0].Name == "Jaspion" {
		t.Fatalf("items = %v, want Jaspion removed", seriesNames(items))
	}
	if h.model.toast.text != `Deleted series "Jaspion"` {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
}

func TestDeleteCategoryInUseKeepsDialog(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("2", "d", "y")

	modal, ok := h.model.modal.(*deleteModal)
	if !ok {
		t.Fatalf("modal = %T, want delete dialog to stay open", h.model.modal)
	}
	if modal.err == "" || modal.pending {
		t.Fatalf("dialog err=%q pending=%v", modal.err, modal.pending)
	}
	if h.model.toast.kind != toastError {
		t.Fatalf("toast kind = %q, want error", h.model.toast.kind)
	}
	if got := len(h.model.categories.list.Snapshot().Items); got != 2 {
		t.Fatalf("categories = %d, want 2", got)
	}
}

func TestUnauthorizedResponseSignsOut(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.client.SetToken("not-a-token")
	h.press("r")

	if h.model.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", h.model.route)
	}
	if h.gate.Status() != session.Unauthenticated {
		t.Fatalf("gate status = %v", h.gate.Status())
	}
	if h.model.intended != session.RouteSeries {
		t.Fatalf("intended = %q, want series", h.model.intended)
	}
}

func TestForbiddenResponseKeepsSession(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	forbidden := &catalog.StatusError{Method: "DELETE", Path: "/api/v1/series/1", StatusCode: 403, Message: "not allowed"}
	h.send(seriesLoadedMsg{list: h.model.series.list, err: forbidden})

	if h.model.route != session.RouteSeries {
		t.Fatalf("route = %q, want series", h.model.route)
	}
	if h.gate.Status() != session.Authenticated {
		t.Fatalf("gate status = %v, want authenticated", h.gate.Status())
	}
	if h.model.toast.kind != toastError || !strings.Contains(h.model.toast.text, "not allowed") {
		t.Fatalf("toast = %+v, want error carrying the server message", h.model.toast)
	}
}

func TestCreateEpisode(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("3")
	if got := len(h.model.episodes.series); got != 5 {
		t.Fatalf("series = %d, want 5", got)
	}
	picked := h.model.episodes.series[0]

	h.press("n", "tab")
	h.typeText("Episode 1")
	h.press("tab")
	h.typeText("24:00")
	h.press("tab")
	h.typeText("https://video.marquee.local/ep/1")
	h.press("enter")

	if h.model.modal != nil {
		t.Fatalf("dialog still open after save")
	}
	recent := h.model.episodes.recent
	if len(recent) != 1 || recent[0].Name != "Episode 1" || recent[0].SerieID != picked.ID {
		t.Fatalf("recent = %+v, want Episode 1 for series %d", recent, picked.ID)
	}
}

func TestStaleListResultIsDropped(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	old := h.model.series.list
	h.press("2")
	h.send(seriesLoadedMsg{list: old})

	if h.model.series.rows != nil {
		t.Fatalf("stale series result applied after leaving the view")
	}
	if h.model.route != session.RouteCategories {
		t.Fatalf("route = %q", h.model.route)
	}
}

func TestOpenDeleteDispatchesByKind(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	// The categories list is not mounted on the series view.
	h.model.openDelete(CategoryTarget(catalog.Category{ID: 1, Name: "Tokusatsu"}))
	if h.model.modal != nil {
		t.Fatal("opened a category delete without its list")
	}

	h.model.openDelete(SeriesTarget(catalog.Series{}))
	if h.model.modal != nil {
		t.Fatal("opened a delete for an unsaved series")
	}

	h.model.openDelete(SeriesTarget(h.model.series.rows[1]))
	modal, ok := h.model.modal.(*deleteModal)
	if !ok || modal.target.Kind != DeleteSeries || modal.target.Name != "Changeman" {
		t.Fatalf("modal = %+v", h.model.modal)
	}
}

func TestActivityFiltersByLevel(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true, logLines: []string{
		"2026/10/19 10:00:00 INFO: signed in as Admin",
		"2026/10/19 10:00:01 WARN: session not persisted: disk full",
		"2026/10/19 10:00:02 ERROR: load series: connection refused",
	}})

	h.press("4")
	if got := len(h.model.activity.lines); got != 3 {
		t.Fatalf("lines = %d, want 3", got)
	}

	h.press("f")
	if got := len(h.model.activity.lines); got != 2 {
		t.Fatalf("WARN+ lines = %d, want 2", got)
	}
	h.press("f")
	if got := len(h.model.activity.lines); got != 1 {
		t.Fatalf("ERROR lines = %d, want 1", got)
	}
	h.press("f")
	if h.model.activity.level != levelAll || len(h.model.activity.lines) != 3 {
		t.Fatalf("level = %q lines = %d after full cycle", h.model.activity.level, len(h.model.activity.lines))
	}
	if view := h.model.View(); !strings.Contains(view, "refused") {
		t.Fatalf("activity view missing log line:\n%s", view)
	}
}

func TestThemeCycleIsSaved(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	before := h.model.theme.Name
	h.press("T")
	if h.model.theme.Name == before {
		t.Fatalf("theme unchanged")
	}
	if got := prefs.Load(h.prefsPath).Theme; got != h.model.theme.Name {
		t.Fatalf("saved theme = %q, want %q", got, h.model.theme.Name)
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	h := newHarness(t, harnessOptions{signedIn: true})

	h.press("L")
	if h.model.route != session.RouteLogin {
		t.Fatalf("route = %q, want login", h.model.route)
	}
	if _, ok := h.gate.CurrentUser(); ok {
		t.Fatal("user still signed in")
	}
	if h.model.toast.text != "Signed out" {
		t.Fatalf("toast = %q", h.model.toast.text)
	}
}

func TestDescribeError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&catalog.StatusError{StatusCode: 409, Message: "category in use"}, "save: category in use"},
		{&catalog.StatusError{StatusCode: 500}, "save: server returned 500"},
		{io.ErrUnexpectedEOF, "save: unexpected EOF"},
	}
	for _, tt := range tests {
		if got := describeError("save", tt.err); got != tt.want {
			t.Errorf("describeError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
