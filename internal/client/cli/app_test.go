package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/snapshop/internal/client/capture"
	"github.com/dmitrijs2005/snapshop/internal/client/models"
	"github.com/dmitrijs2005/snapshop/internal/client/services"
	"github.com/dmitrijs2005/snapshop/internal/client/storage"
	"github.com/dmitrijs2005/snapshop/internal/common"
)

// ---- fakes ----

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

type fakeCamera struct {
	active   bool
	startErr error
	img      capture.Image
	onStart  func()

	starts   int
	releases int
}

func (c *fakeCamera) Start(context.Context) error {
	c.starts++
	if c.onStart != nil {
		c.onStart()
	}
	if c.active {
		c.releases++
	}
	c.active = c.startErr == nil
	return c.startErr
}

func (c *fakeCamera) Capture(context.Context) (capture.Image, error) {
	if !c.active {
		return capture.Image{}, capture.ErrNoActiveCamera
	}
	c.active = false
	c.releases++
	return c.img, nil
}

func (c *fakeCamera) Stop() error {
	if c.active {
		c.releases++
	}
	c.active = false
	return nil
}

func (c *fakeCamera) Active() bool { return c.active }
func (c *fakeCamera) Frames() int {
	if c.active {
		return 3
	}
	return 0
}

// fakeSearch answers every search with Result and records history through
// the real account store, like services.SearchService does.
type fakeSearch struct {
	accounts *services.AccountStore
	Result   *models.SearchResult
	Err      error

	images  []capture.Image
	queries []string
}

func (f *fakeSearch) ImageSearch(ctx context.Context, img capture.Image) (*models.SearchResult, *models.Account, error) {
	f.images = append(f.images, img)
	acc, err := f.accounts.LoadSession(ctx)
	if err != nil {
		return nil, nil, err
	}
	if f.Err != nil {
		return nil, acc, f.Err
	}
	acc, err = services.NewRecorder(f.accounts).Record(ctx, acc.Email, img.DataURL(), *f.Result)
	return f.Result, acc, err
}

func (f *fakeSearch) TextSearch(_ context.Context, query string) (*models.SearchResult, error) {
	f.queries = append(f.queries, query)
	return f.Result, f.Err
}

// ---- helpers ----

type testApp struct {
	*App
	out      *bytes.Buffer
	cam      *fakeCamera
	search   *fakeSearch
	accounts *services.AccountStore
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	accounts := services.NewAccountStore(storage.NewMemoryRepository(nil), nil)
	img, err := capture.Encode(pngBytes)
	require.NoError(t, err)

	cam := &fakeCamera{img: img}
	search := &fakeSearch{accounts: accounts, Result: results(8)}
	out := &bytes.Buffer{}
	app := newApp(accounts, search, cam, nil, bufio.NewReader(strings.NewReader("")), out)
	return &testApp{App: app, out: out, cam: cam, search: search, accounts: accounts}
}

func (ta *testApp) signup(t *testing.T, email string) {
	t.Helper()
	stubInputs(t, email, "pw")
	require.NoError(t, ta.Signup(context.Background()))
}

func stubInputs(t *testing.T, text string, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) { return text, nil }
	getPassword = func(_ io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}

func results(n int) *models.SearchResult {
	r := &models.SearchResult{IdentifiedProduct: "Blue ceramic mug"}
	for i := 1; i <= n; i++ {
		r.SearchResults = append(r.SearchResults, models.ResultItem{
			Title: fmt.Sprintf("Mug %d", i),
			Link:  fmt.Sprintf("https://shop.example/mug/%d", i),
		})
	}
	return r
}

func writePNG(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mug.png")
	require.NoError(t, os.WriteFile(p, pngBytes, 0o600))
	return p
}

// ---- auth ----

func TestSignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)

	ta.signup(t, "a@b.c")
	assert.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Welcome, a@b.c")

	require.NoError(t, ta.StartCamera(ctx))
	require.NoError(t, ta.Logout(ctx))
	assert.False(t, ta.isLoggedIn())
	assert.False(t, ta.cam.Active())

	stubInputs(t, "a@b.c", "wrong")
	require.ErrorIs(t, ta.Login(ctx), common.ErrInvalidCredentials)
	assert.False(t, ta.isLoggedIn())

	stubInputs(t, "a@b.c", "pw")
	require.NoError(t, ta.Login(ctx))
	assert.Equal(t, "a@b.c", ta.user.Email)
}

func TestSignup_Duplicate(t *testing.T) {
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.Logout(context.Background()))

	stubInputs(t, "a@b.c", "pw")
	require.ErrorIs(t, ta.Signup(context.Background()), common.ErrDuplicateAccount)
	assert.False(t, ta.isLoggedIn())
}

func TestSignup_InputError(t *testing.T) {
	ta := newTestApp(t)
	origST := getSimpleText
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return "", io.EOF }
	t.Cleanup(func() { getSimpleText = origST })

	require.ErrorIs(t, ta.Signup(context.Background()), io.EOF)
}

func TestRestoreSession(t *testing.T) {
	ta := newTestApp(t)
	_, err := ta.accounts.CreateAccount(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)

	ta.restoreSession(context.Background())
	require.True(t, ta.isLoggedIn())
	assert.Contains(t, ta.out.String(), "Welcome back, a@b.c")
}

// ---- profile ----

func TestSetLocation(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	stubInputs(t, "Riga", "")
	require.NoError(t, ta.SetLocation(ctx))
	assert.Equal(t, "Riga", ta.user.Location)

	stored, err := ta.accounts.LoadSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Riga", stored.Location)

	ta.out.Reset()
	require.NoError(t, ta.SetLocation(ctx))
	assert.Contains(t, ta.out.String(), "Location unchanged.")
}

func TestSetAvatarAndProfile(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	require.NoError(t, ta.SetAvatar(ctx, writePNG(t)))
	assert.True(t, strings.HasPrefix(ta.user.ProfilePic, "data:image/png;base64,"))

	ta.out.Reset()
	require.NoError(t, ta.Profile(ctx))
	out := ta.out.String()
	assert.Contains(t, out, "Email:    a@b.c")
	assert.Contains(t, out, "Location: (not set)")
	assert.Contains(t, out, "Avatar:   image/png")
	assert.Contains(t, out, "History:  0 searches")
}

func TestSetAvatar_RejectsNonImage(t *testing.T) {
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	p := filepath.Join(t.TempDir(), "notes.png")
	require.NoError(t, os.WriteFile(p, []byte("just text"), 0o600))

	require.ErrorIs(t, ta.SetAvatar(context.Background(), p), capture.ErrNotImage)
	assert.Empty(t, ta.user.ProfilePic)
}

// ---- capture ----

func TestCameraUnavailableFallsBackToUpload(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	ta.cam.startErr = capture.ErrDeviceUnavailable

	err := ta.StartCamera(ctx)
	require.ErrorIs(t, err, capture.ErrDeviceUnavailable)
	assert.Equal(t, "Camera not available or permission denied. Please try uploading an image.", userMessage(err))

	require.NoError(t, ta.Upload(ctx, writePNG(t)))
	assert.False(t, ta.preview.IsZero())
}

func TestSnapRetakeStop(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	require.ErrorIs(t, ta.Snap(ctx), capture.ErrNoActiveCamera)

	require.NoError(t, ta.StartCamera(ctx))
	assert.Contains(t, ta.getStatus(), "camera live")
	require.NoError(t, ta.Snap(ctx))
	assert.False(t, ta.cam.Active())
	assert.False(t, ta.preview.IsZero())
	assert.Contains(t, ta.getStatus(), "image ready")

	require.NoError(t, ta.Retake(ctx))
	assert.True(t, ta.preview.IsZero())
	assert.True(t, ta.cam.Active())

	require.NoError(t, ta.StopCamera(ctx))
	assert.False(t, ta.cam.Active())
	assert.Equal(t, 2, ta.cam.releases)
}

func TestUploadReleasesCameraEvenOnFailure(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.StartCamera(ctx))

	err := ta.Upload(ctx, filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, err)
	assert.False(t, ta.cam.Active())
}

// ---- search ----

func TestSearch_RequiresImage(t *testing.T) {
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	require.ErrorIs(t, ta.Search(context.Background()), errNoImage)
	assert.Empty(t, ta.search.images)
}

func TestSearch_PagesAndRecordsHistory(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.Upload(ctx, writePNG(t)))

	ta.out.Reset()
	require.NoError(t, ta.Search(ctx))
	out := ta.out.String()
	assert.Contains(t, out, "Identified: Blue ceramic mug")
	assert.Contains(t, out, " 6. Mug 6")
	assert.NotContains(t, out, "Mug 7")
	assert.Contains(t, out, "Showing 6 of 8. Type 'more' to show more.")
	assert.Contains(t, out, "Online Store")
	require.Len(t, ta.user.History, 1)

	ta.out.Reset()
	require.NoError(t, ta.More(ctx))
	out = ta.out.String()
	assert.Contains(t, out, " 7. Mug 7")
	assert.Contains(t, out, " 8. Mug 8")
	assert.NotContains(t, out, "Mug 6\n")
	assert.NotContains(t, out, "Type 'more'")

	ta.out.Reset()
	require.NoError(t, ta.More(ctx))
	assert.Contains(t, ta.out.String(), "No more results.")
}

func TestSearch_ErrorClearsPreviousResult(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.Upload(ctx, writePNG(t)))
	require.NoError(t, ta.Search(ctx))
	require.NotNil(t, ta.result)

	boom := errors.New("failed to identify and search: quota")
	ta.search.Err = boom
	require.ErrorIs(t, ta.Search(ctx), boom)
	assert.Nil(t, ta.result)
	assert.ErrorIs(t, ta.lastErr, boom)
	require.ErrorIs(t, ta.More(ctx), errNoResults)
}

func TestFind_ClearsPreviewAndStopsCamera(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.Upload(ctx, writePNG(t)))
	require.NoError(t, ta.StartCamera(ctx))

	require.NoError(t, ta.Find(ctx, "blue mug"))
	assert.Equal(t, []string{"blue mug"}, ta.search.queries)
	assert.True(t, ta.preview.IsZero())
	assert.False(t, ta.cam.Active())
	assert.NotNil(t, ta.result)
	assert.Empty(t, ta.user.History)
}

func TestFind_EmptyResults(t *testing.T) {
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	ta.search.Result = &models.SearchResult{IdentifiedProduct: "The AI response was not in the expected format."}

	require.NoError(t, ta.Find(context.Background(), "thing"))
	assert.Contains(t, ta.out.String(), "No shopping results found.")
}

func TestNewSearch(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")
	require.NoError(t, ta.Upload(ctx, writePNG(t)))
	require.NoError(t, ta.Search(ctx))

	require.NoError(t, ta.NewSearch(ctx))
	assert.True(t, ta.preview.IsZero())
	assert.Nil(t, ta.result)
}

// ---- history ----

func TestHistoryAndShow(t *testing.T) {
	ctx := context.Background()
	ta := newTestApp(t)
	ta.signup(t, "a@b.c")

	ta.out.Reset()
	require.NoError(t, ta.History(ctx))
	assert.Contains(t, ta.out.String(), "No searches yet.")

	require.NoError(t, ta.Upload(ctx, writePNG(t)))
	require.NoError(t, ta.Search(ctx))
	ta.search.Result = results(2)
	ta.search.Result.IdentifiedProduct = "Red kettle"
	require.NoError(t, ta.Search(ctx))

	ta.out.Reset()
	require.NoError(t, ta.History(ctx))
	out := ta.out.String()
	assert.Less(t, strings.Index(out, "Red kettle"), strings.Index(out, "Blue ceramic mug"))

	require.NoError(t, ta.NewSearch(ctx))
	ta.out.Reset()
	require.NoError(t, ta.ShowHistory(ctx, 2))
	assert.Contains(t, ta.out.String(), "Identified: Blue ceramic mug")
	assert.False(t, ta.preview.IsZero())
	require.NotNil(t, ta.result)
	assert.Len(t, ta.result.SearchResults, 8)

	require.Error(t, ta.ShowHistory(ctx, 3))
}

// ---- run ----

func TestRun_ReleasesCameraOnExit(t *testing.T) {
	capturePrintln(t)
	ta := newTestApp(t)
	_, err := ta.accounts.CreateAccount(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	ta.reader = bufio.NewReader(strings.NewReader("camera\nexit\n"))

	closed := false
	ta.closers = append(ta.closers, func() error { closed = true; return nil })

	ta.Run(context.Background())

	assert.Equal(t, 1, ta.cam.starts)
	assert.False(t, ta.cam.Active())
	assert.True(t, closed)
}

func TestRun_CancelledContext(t *testing.T) {
	ta := newTestApp(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	ta.reader = bufio.NewReader(pr)
	ta.cam.active = true
	ta.shutdownGrace = 10 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ta.Run(ctx)

	assert.False(t, ta.cam.Active())
	assert.Contains(t, ta.out.String(), "Interrupted")
}

func TestRun_InterruptWaitsForRunningCommand(t *testing.T) {
	capturePrintln(t)
	ta := newTestApp(t)
	_, err := ta.accounts.CreateAccount(context.Background(), "a@b.c", "pw")
	require.NoError(t, err)
	ta.reader = bufio.NewReader(strings.NewReader("camera\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var finished atomic.Bool
	ta.cam.onStart = func() {
		cancel()
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}

	var closedAfterCommand bool
	ta.closers = append(ta.closers, func() error {
		closedAfterCommand = finished.Load()
		return nil
	})

	ta.Run(ctx)

	assert.True(t, closedAfterCommand)
	assert.False(t, ta.cam.Active())
}
