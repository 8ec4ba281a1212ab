package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/chikhali-gp/portal/backend/auth"
	"github.com/chikhali-gp/portal/backend/database"
	"github.com/chikhali-gp/portal/backend/models"
	"github.com/chikhali-gp/portal/backend/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// emailProvider vouches for whatever email it is handed.
type emailProvider struct{}

func (emailProvider) Name() string { return "test" }

func (emailProvider) Authenticate(_ context.Context, email string) (*auth.Identity, error) {
	if email == "" {
		return nil, fmt.Errorf("cancelled")
	}
	return &auth.Identity{ID: "id-" + email, Name: email, Email: email}, nil
}

type testEnv struct {
	router *chi.Mux
	gate   *auth.Gate
	db     database.Database
	admin  string
}

func newTestEnv(t *testing.T, start bool) *testEnv {
	t.Helper()
	store, err := database.NewBlobStore(t.TempDir(), "portal", 0)
	if err != nil {
		t.Fatal(err)
	}
	db := database.New(store)
	disk, err := storage.NewDiskStore(t.TempDir(), "http://portal.test/uploads")
	if err != nil {
		t.Fatal(err)
	}
	gate := auth.NewGate(db.RoleRepo(), auth.NewSessions("test-secret", time.Hour), []string{"admin@gp.in"}, zerolog.Nop(), emailProvider{})
	t.Cleanup(gate.Close)

	env := &testEnv{db: db, gate: gate}
	if start {
		if err := gate.Start(context.Background()); err != nil {
			t.Fatal(err)
		}
		_, env.admin = gate.SignIn(context.Background(), "test", "admin@gp.in")
	}
	env.router = newRouter(Dependencies{
		Database: db,
		Gate:     gate,
		Uploader: storage.NewUploader(disk, storage.LimitsFromConfig(map[string]string{"MAX_IMAGE_MB": "1", "MAX_VIDEO_MB": "2"})),
		Config:   map[string]string{},
	})
	return env
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

type part struct {
	name, contentType, content string
}

func (e *testEnv) upload(t *testing.T, path, field string, parts []part, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, p := range parts {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, p.name))
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		w.Write([]byte(p.content))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+e.admin)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body %s", rec.Code, want, rec.Body.String())
	}
}

func TestPublicBlogShowsOnlyPublished(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodGet, "/blog-posts", "", nil)
	expectStatus(t, rec, http.StatusOK)
	posts := decode[[]models.BlogPost](t, rec)
	if len(posts) != 1 || posts[0].ID != "seed-post-1" {
		t.Fatalf("public posts = %+v", posts)
	}

	expectStatus(t, env.do(t, http.MethodGet, "/blog-post/seed-post-2", "", nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/blog-post/seed-post-1", "", nil), http.StatusOK)

	rec = env.do(t, http.MethodGet, "/admin/blog-posts", env.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if all := decode[[]models.BlogPost](t, rec); len(all) != 2 {
		t.Fatalf("admin posts = %d, want 2", len(all))
	}
}

func TestAdminRoutesNeedAdminSession(t *testing.T) {
	loading := newTestEnv(t, false)
	expectStatus(t, loading.do(t, http.MethodGet, "/admin/notices", "", nil), http.StatusServiceUnavailable)
	rec := loading.do(t, http.MethodGet, "/auth/me", "", nil)
	if me := decode[SessionResponse](t, rec); !me.Loading || me.User != nil {
		t.Fatalf("/auth/me while loading = %+v", me)
	}

	env := newTestEnv(t, true)
	expectStatus(t, env.do(t, http.MethodGet, "/admin/notices", "", nil), http.StatusUnauthorized)
	expectStatus(t, env.do(t, http.MethodGet, "/admin/notices", "garbage", nil), http.StatusUnauthorized)

	_, visitor := env.gate.SignIn(context.Background(), "test", "Admin@gp.in")
	expectStatus(t, env.do(t, http.MethodGet, "/admin/notices", visitor, nil), http.StatusForbidden)

	req := httptest.NewRequest(http.MethodGet, "/admin/notices", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: env.admin})
	cookieRec := httptest.NewRecorder()
	env.router.ServeHTTP(cookieRec, req)
	expectStatus(t, cookieRec, http.StatusOK)

	me := decode[SessionResponse](t, env.do(t, http.MethodGet, "/auth/me", env.admin, nil))
	if me.Loading || me.User == nil || !me.IsAdmin {
		t.Fatalf("/auth/me = %+v", me)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.do(t, http.MethodPost, "/auth/logout", env.admin, nil)
	expectStatus(t, rec, http.StatusNoContent)
	if !strings.Contains(rec.Header().Get("Set-Cookie"), auth.SessionCookie+"=;") {
		t.Fatalf("Set-Cookie = %q", rec.Header().Get("Set-Cookie"))
	}
	expectStatus(t, env.do(t, http.MethodGet, "/admin/notices", env.admin, nil), http.StatusUnauthorized)
}

func TestNoticeCRUD(t *testing.T) {
	env := newTestEnv(t, true)

	expectStatus(t, env.do(t, http.MethodPost, "/admin/notices", env.admin, map[string]any{"date": "2024-05-01"}), http.StatusBadRequest)

	rec := env.do(t, http.MethodPost, "/admin/notices", env.admin, map[string]any{"text": "Water cut on Monday", "id": "forged"})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.Notice](t, rec)
	if created.ID == "" || created.ID == "forged" || created.Date == "" || !created.MarkedNew() {
		t.Fatalf("created = %+v", created)
	}

	rec = env.do(t, http.MethodPut, "/admin/notices/"+created.ID, env.admin, map[string]any{"isNew": false})
	expectStatus(t, rec, http.StatusOK)
	updated := decode[models.Notice](t, rec)
	if updated.MarkedNew() || updated.Text != "Water cut on Monday" || !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Fatalf("updated = %+v", updated)
	}

	rec = env.do(t, http.MethodPost, "/admin/notices", env.admin, map[string]any{"text": "Last year's sabha minutes", "isNew": false})
	expectStatus(t, rec, http.StatusCreated)
	old := decode[models.Notice](t, rec)
	if old.IsNew == nil || old.MarkedNew() {
		t.Fatalf("created with isNew=false, got %+v", old.IsNew)
	}
	if fetched := decode[models.Notice](t, env.do(t, http.MethodGet, "/notice/"+old.ID, "", nil)); fetched.MarkedNew() {
		t.Fatal("stored notice marked new")
	}

	expectStatus(t, env.do(t, http.MethodPut, "/admin/notices/missing", env.admin, map[string]any{"text": "x"}), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodPut, "/admin/notices/"+created.ID, env.admin, map[string]any{"isNew": "yes"}), http.StatusBadRequest)

	expectStatus(t, env.do(t, http.MethodDelete, "/admin/notices/"+created.ID, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, "/admin/notices/"+created.ID, env.admin, nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/notice/"+created.ID, "", nil), http.StatusNotFound)
}

func TestMalformedBody(t *testing.T) {
	env := newTestEnv(t, true)
	req := httptest.NewRequest(http.MethodPost, "/admin/schemes", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+env.admin)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	expectStatus(t, rec, http.StatusBadRequest)
	if body := decode[ErrorResponse](t, rec); body.Field != "json" || body.Status != "error" {
		t.Fatalf("error body = %+v", body)
	}
}

func TestBlogPostRules(t *testing.T) {
	env := newTestEnv(t, true)

	expectStatus(t, env.do(t, http.MethodPut, "/admin/blog-posts/seed-post-1", env.admin, map[string]any{"status": "draft"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPut, "/admin/blog-posts/seed-post-2", env.admin, map[string]any{"status": "published"}), http.StatusOK)

	rec := env.do(t, http.MethodPut, "/admin/blog-posts/seed-post-1", env.admin, map[string]any{"videoUrl": "http://portal.test/uploads/videos/1_a.mp4"})
	expectStatus(t, rec, http.StatusOK)
	rec = env.do(t, http.MethodPut, "/admin/blog-posts/seed-post-1", env.admin, map[string]any{"youtubeUrl": "https://youtu.be/abc"})
	expectStatus(t, rec, http.StatusOK)
	post := decode[models.BlogPost](t, rec)
	if post.VideoURL != "" || post.YoutubeURL != "https://youtu.be/abc" {
		t.Fatalf("post = %+v", post)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/admin/blog-posts", env.admin, map[string]any{
		"title": "Both", "videoUrl": "a", "youtubeUrl": "b",
	}), http.StatusBadRequest)

	rec = env.do(t, http.MethodPost, "/admin/blog-posts", env.admin, map[string]any{"title": "New road"})
	expectStatus(t, rec, http.StatusCreated)
	created := decode[models.BlogPost](t, rec)
	if created.Status != models.PostDraft || created.Author != "Admin" || created.Category != "General" {
		t.Fatalf("created = %+v", created)
	}
}

func TestTaxSearch(t *testing.T) {
	env := newTestEnv(t, true)

	expectStatus(t, env.do(t, http.MethodGet, "/taxes/search?q=++", "", nil), http.StatusBadRequest)

	rec := env.do(t, http.MethodGet, "/taxes/search?q=GANESH", "", nil)
	expectStatus(t, rec, http.StatusOK)
	views := decode[[]models.TaxView](t, rec)
	if len(views) != 1 || views[0].TotalDue != 1800 {
		t.Fatalf("views = %+v", views)
	}

	rec = env.do(t, http.MethodGet, "/admin/taxes?status=Pending", env.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"totalDue":1800`) {
		t.Fatalf("admin taxes = %s", rec.Body.String())
	}

	expectStatus(t, env.do(t, http.MethodPost, "/admin/taxes/reminders", env.admin, nil), http.StatusServiceUnavailable)
}

func TestTenderApplicants(t *testing.T) {
	env := newTestEnv(t, true)

	expectStatus(t, env.do(t, http.MethodPost, "/admin/tenders/seed-tender-1/applicants", env.admin, map[string]string{"name": " "}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/admin/tenders/missing/applicants", env.admin, map[string]string{"name": "X"}), http.StatusNotFound)

	rec := env.do(t, http.MethodPost, "/admin/tenders/seed-tender-1/applicants", env.admin, map[string]string{"name": "Patil Constructions"})
	expectStatus(t, rec, http.StatusCreated)
	applicant := decode[models.Applicant](t, rec)

	tender := decode[models.Tender](t, env.do(t, http.MethodGet, "/tender/seed-tender-1", "", nil))
	if len(tender.Applicants) != 1 || tender.Applicants[0].Name != "Patil Constructions" {
		t.Fatalf("tender = %+v", tender)
	}

	path := "/admin/tenders/seed-tender-1/applicants/" + applicant.ID
	expectStatus(t, env.do(t, http.MethodDelete, path, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodDelete, path, env.admin, nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodGet, "/tender/seed-tender-1", "", nil), http.StatusOK)
}

func TestGalleryUpload(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.upload(t, "/admin/gallery/upload", "files", []part{
		{"first photo.jpg", "image/jpeg", "jpeg-1"},
		{"second.png", "image/png", "png-2"},
	}, nil)
	expectStatus(t, rec, http.StatusCreated)
	batch := decode[BatchUploadResponse](t, rec)
	if len(batch.URLs) != 2 || !strings.Contains(batch.URLs[0], "/uploads/gallery/") || !strings.HasSuffix(batch.URLs[0], "_first_photo.jpg") {
		t.Fatalf("batch = %+v", batch)
	}

	items := decode[[]models.GalleryItem](t, env.do(t, http.MethodGet, "/gallery", "", nil))
	if len(items) != 2 {
		t.Fatalf("gallery = %+v", items)
	}

	served := env.do(t, http.MethodGet, strings.TrimPrefix(batch.URLs[1], "http://portal.test"), "", nil)
	expectStatus(t, served, http.StatusOK)
	if served.Body.String() != "png-2" {
		t.Fatalf("served %q", served.Body.String())
	}
}

func TestGalleryUploadStopsAtBadFile(t *testing.T) {
	env := newTestEnv(t, true)
	rec := env.upload(t, "/admin/gallery/upload", "files", []part{
		{"ok.jpg", "image/jpeg", "a"},
		{"clip.mp4", "video/mp4", "b"},
		{"later.jpg", "image/jpeg", "c"},
	}, nil)
	expectStatus(t, rec, http.StatusMultiStatus)
	if batch := decode[BatchUploadResponse](t, rec); len(batch.URLs) != 1 || batch.Error == "" {
		t.Fatalf("batch = %+v", batch)
	}
	if items := decode[[]models.GalleryItem](t, env.do(t, http.MethodGet, "/gallery", "", nil)); len(items) != 1 {
		t.Fatalf("gallery = %d items, want 1", len(items))
	}
}

func TestBlogMediaUploads(t *testing.T) {
	env := newTestEnv(t, true)

	expectStatus(t, env.upload(t, "/admin/blog-posts/seed-post-1/thumbnail", "file", []part{{"t.gif", "video/mp4", "x"}}, nil), http.StatusUnsupportedMediaType)
	expectStatus(t, env.upload(t, "/admin/blog-posts/missing/thumbnail", "file", []part{{"t.png", "image/png", "x"}}, nil), http.StatusNotFound)

	rec := env.upload(t, "/admin/blog-posts/seed-post-1/thumbnail", "file", []part{{"t.png", "image/png", "x"}}, nil)
	expectStatus(t, rec, http.StatusOK)
	if post := decode[models.BlogPost](t, rec); !strings.Contains(post.Thumbnail, "/thumbnails/") {
		t.Fatalf("thumbnail = %q", post.Thumbnail)
	}

	env.do(t, http.MethodPut, "/admin/blog-posts/seed-post-1", env.admin, map[string]any{"youtubeUrl": "https://youtu.be/abc"})
	rec = env.upload(t, "/admin/blog-posts/seed-post-1/video", "file", []part{{"v.mp4", "video/mp4", "video"}}, nil)
	expectStatus(t, rec, http.StatusOK)
	if post := decode[models.BlogPost](t, rec); post.YoutubeURL != "" || !strings.Contains(post.VideoURL, "/videos/") {
		t.Fatalf("post = %+v", post)
	}

	seven := make([]part, 7)
	for i := range seven {
		seven[i] = part{fmt.Sprintf("%d.jpg", i), "image/jpeg", "x"}
	}
	expectStatus(t, env.upload(t, "/admin/blog-posts/seed-post-1/images", "files", seven, nil), http.StatusBadRequest)

	rec = env.upload(t, "/admin/blog-posts/seed-post-1/images", "files", seven[:3], nil)
	expectStatus(t, rec, http.StatusCreated)
	post := decode[models.BlogPost](t, env.do(t, http.MethodGet, "/admin/blog-posts/seed-post-1", env.admin, nil))
	if len(post.Images) != 3 {
		t.Fatalf("images = %v", post.Images)
	}
}

func TestGenericUpload(t *testing.T) {
	env := newTestEnv(t, true)
	expectStatus(t, env.upload(t, "/admin/uploads", "file", []part{{"a.png", "image/png", "x"}}, map[string]string{"prefix": "../etc"}), http.StatusBadRequest)

	rec := env.upload(t, "/admin/uploads", "file", []part{{"minutes.png", "image/png", "x"}}, map[string]string{"prefix": "meetings"})
	expectStatus(t, rec, http.StatusCreated)
	if up := decode[UploadResponse](t, rec); !strings.HasPrefix(up.URL, "http://portal.test/uploads/meetings/") {
		t.Fatalf("url = %q", up.URL)
	}
}

func TestSettings(t *testing.T) {
	env := newTestEnv(t, true)

	rec := env.do(t, http.MethodPut, "/admin/settings", env.admin, map[string]any{
		"contact": map[string]any{"address": "Chikhali", "phone": "1", "email": "office@gp.in", "mapUrl": ""},
	})
	expectStatus(t, rec, http.StatusOK)

	settings := decode[models.SiteSettings](t, env.do(t, http.MethodGet, "/settings", "", nil))
	if settings.Contact.Email != "office@gp.in" || settings.ID != "seed-settings" {
		t.Fatalf("settings = %+v", settings)
	}

	rec = env.upload(t, "/admin/settings/slider", "files", []part{{"s1.jpg", "image/jpeg", "1"}, {"s2.jpg", "image/jpeg", "2"}}, nil)
	expectStatus(t, rec, http.StatusCreated)
	expectStatus(t, env.do(t, http.MethodDelete, "/admin/settings/slider/5", env.admin, nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodDelete, "/admin/settings/slider/x", env.admin, nil), http.StatusBadRequest)

	rec = env.do(t, http.MethodDelete, "/admin/settings/slider/0", env.admin, nil)
	expectStatus(t, rec, http.StatusOK)
	if s := decode[models.SiteSettings](t, rec); len(s.SliderImages) != 1 || !strings.HasSuffix(s.SliderImages[0], "_s2.jpg") {
		t.Fatalf("slider = %v", s.SliderImages)
	}
}

func TestRolesReloadGate(t *testing.T) {
	env := newTestEnv(t, true)
	_, clerk := env.gate.SignIn(context.Background(), "test", "clerk@gp.in")
	expectStatus(t, env.do(t, http.MethodGet, "/admin/dashboard", clerk, nil), http.StatusForbidden)

	rec := env.do(t, http.MethodPost, "/admin/roles", env.admin, map[string]any{"email": "clerk@gp.in"})
	expectStatus(t, rec, http.StatusCreated)
	role := decode[models.RoleAssignment](t, rec)

	rec = env.do(t, http.MethodGet, "/admin/dashboard", clerk, nil)
	expectStatus(t, rec, http.StatusOK)
	counts := decode[DashboardCounts](t, rec)
	if counts.Posts != 2 || counts.PublishedPosts != 1 || counts.Schemes != 3 || counts.PendingTaxes != 1 {
		t.Fatalf("counts = %+v", counts)
	}

	expectStatus(t, env.do(t, http.MethodDelete, "/admin/roles/"+role.ID, env.admin, nil), http.StatusNoContent)
	expectStatus(t, env.do(t, http.MethodGet, "/admin/dashboard", clerk, nil), http.StatusForbidden)
}

func TestOfficialsFilterAndContact(t *testing.T) {
	env := newTestEnv(t, true)

	staff := decode[[]models.Official](t, env.do(t, http.MethodGet, "/officials?category=staff", "", nil))
	if len(staff) != 1 || staff[0].Role != "Gram Sevak" {
		t.Fatalf("staff = %+v", staff)
	}

	expectStatus(t, env.do(t, http.MethodPost, "/contact", "", map[string]string{"name": "A"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "A", "email": "a@example.com", "message": "hello",
	}), http.StatusServiceUnavailable)
}

func TestUnconfiguredProviders(t *testing.T) {
	env := newTestEnv(t, true)
	expectStatus(t, env.do(t, http.MethodGet, "/auth/google/login", "", nil), http.StatusNotFound)
	expectStatus(t, env.do(t, http.MethodPost, "/auth/descope", "", map[string]string{"sessionToken": "x"}), http.StatusNotFound)
}
