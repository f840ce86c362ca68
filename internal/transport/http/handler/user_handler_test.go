package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"

	"datagov-console/internal/domain"
	"datagov-console/internal/lifecycle"
	"datagov-console/internal/repo"
	"datagov-console/internal/transport/http/handler"
	"datagov-console/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

func newTestAPI(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	store := repo.NewStore(db, false)
	if err := store.AutoMigrate(); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	log := zap.NewNop()
	engine := lifecycle.New(store, log)
	r := router.NewAPIEngine(log,
		handler.NewUserHandler(engine, nil, log),
		handler.NewPreferenceHandler(engine, nil, log),
		handler.NewPostHandler(engine, log),
	)
	return r, db
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func createUser(t *testing.T, r *gin.Engine, username, email string) domain.User {
	t.Helper()
	w := do(t, r, http.MethodPost, "/api/v1/users", gin.H{"username": username, "email": email})
	if w.Code != http.StatusCreated {
		t.Fatalf("create user: status %d body %s", w.Code, w.Body.String())
	}
	var u domain.User
	decode(t, w, &u)
	return u
}

func TestUserLifecycleEndToEnd(t *testing.T) {
	r, db := newTestAPI(t)

	// 创建
	u := createUser(t, r, "john_doe", "john@example.com")
	if u.Username != "john_doe" || u.Role != "user" {
		t.Fatalf("created user: %+v", u)
	}

	// 读取
	w := do(t, r, http.MethodGet, "/api/v1/users/"+u.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get: %d", w.Code)
	}

	// 更新
	w = do(t, r, http.MethodPut, "/api/v1/users/"+u.ID, gin.H{"username": "john_updated", "email": "updated@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body.String())
	}
	var updated domain.User
	decode(t, w, &updated)
	if updated.Username != "john_updated" {
		t.Errorf("update body: %+v", updated)
	}

	// 软删
	w = do(t, r, http.MethodDelete, "/api/v1/users/"+u.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("soft delete: %d %s", w.Code, w.Body.String())
	}

	// 立即硬删：宽限期 403
	w = do(t, r, http.MethodPost, "/api/v1/users/"+u.ID+"/purge", nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("purge in grace period: want 403, got %d", w.Code)
	}

	// 把 deletedAt 拨回 25 小时前，硬删通过
	past := time.Now().Add(-25 * time.Hour)
	if err := db.Model(&domain.User{}).Where("id = ?", u.ID).Update("deleted_at", past).Error; err != nil {
		t.Fatal(err)
	}
	w = do(t, r, http.MethodPost, "/api/v1/users/"+u.ID+"/purge", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("purge after grace: %d %s", w.Code, w.Body.String())
	}

	// 之后查询 404
	w = do(t, r, http.MethodGet, "/api/v1/users/"+u.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("get after purge: want 404, got %d", w.Code)
	}
}

func TestCreateUserStatusCodes(t *testing.T) {
	r, _ := newTestAPI(t)

	w := do(t, r, http.MethodPost, "/api/v1/users", gin.H{"username": "a"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing email: want 400, got %d", w.Code)
	}
	w = do(t, r, http.MethodPost, "/api/v1/users", gin.H{"username": "a", "email": "bad"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad email: want 400, got %d", w.Code)
	}

	createUser(t, r, "taken", "taken@example.com")
	w = do(t, r, http.MethodPost, "/api/v1/users", gin.H{"username": "taken", "email": "other@example.com"})
	if w.Code != http.StatusConflict {
		t.Errorf("dup username: want 409, got %d", w.Code)
	}
}

func TestSoftDeleteStatusCodes(t *testing.T) {
	r, _ := newTestAPI(t)
	u := createUser(t, r, "x", "x@y.com")

	if w := do(t, r, http.MethodDelete, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("first soft delete: %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusBadRequest {
		t.Errorf("second soft delete: want 400, got %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/v1/users/ghost", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown user: want 404, got %d", w.Code)
	}
}

func TestHardDeleteRequiresSoftDelete(t *testing.T) {
	r, _ := newTestAPI(t)
	u := createUser(t, r, "x", "x@y.com")

	w := do(t, r, http.MethodPost, "/api/v1/users/"+u.ID+"/purge", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("purge active user: want 400, got %d", w.Code)
	}
}

func TestListUsersPagination(t *testing.T) {
	r, _ := newTestAPI(t)
	createUser(t, r, "a", "a@b.com")
	createUser(t, r, "b", "b@b.com")
	createUser(t, r, "c", "c@b.com")

	w := do(t, r, http.MethodGet, "/api/v1/users?page=1&limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d", w.Code)
	}
	var out struct {
		Users      []domain.User `json:"users"`
		Pagination struct {
			CurrentPage int   `json:"currentPage"`
			TotalPages  int   `json:"totalPages"`
			TotalUsers  int64 `json:"totalUsers"`
			HasNextPage bool  `json:"hasNextPage"`
			HasPrevPage bool  `json:"hasPrevPage"`
		} `json:"pagination"`
	}
	decode(t, w, &out)
	if len(out.Users) != 2 || out.Pagination.TotalUsers != 3 || out.Pagination.TotalPages != 2 {
		t.Errorf("pagination: %+v", out.Pagination)
	}
	if !out.Pagination.HasNextPage || out.Pagination.HasPrevPage {
		t.Errorf("page flags: %+v", out.Pagination)
	}
}

func TestPreferenceUpsertScenario(t *testing.T) {
	r, _ := newTestAPI(t)
	u := createUser(t, r, "pref_user", "pref@example.com")
	base := "/api/v1/users/" + u.ID + "/preferences"

	// 无偏好时 GET 404
	if w := do(t, r, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Errorf("get before upsert: want 404, got %d", w.Code)
	}

	w := do(t, r, http.MethodPut, base, gin.H{"theme": "dark", "language": "fr"})
	if w.Code != http.StatusOK {
		t.Fatalf("upsert: %d %s", w.Code, w.Body.String())
	}
	var p domain.Preference
	decode(t, w, &p)
	if p.Theme != "dark" || p.Language != "fr" || !p.Notifications {
		t.Errorf("first upsert: %+v", p)
	}

	w = do(t, r, http.MethodPut, base, gin.H{"theme": "light", "notifications": false})
	if w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
	decode(t, w, &p)
	if p.Theme != "light" || p.Notifications || p.Language != "fr" {
		t.Errorf("merge upsert lost fields: %+v", p)
	}

	// 软删后 PUT 403
	if w := do(t, r, http.MethodDelete, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}
	if w := do(t, r, http.MethodPut, base, gin.H{"theme": "dark"}); w.Code != http.StatusForbidden {
		t.Errorf("upsert on soft-deleted: want 403, got %d", w.Code)
	}
}

func TestPostCascadeScenario(t *testing.T) {
	r, _ := newTestAPI(t)
	u := createUser(t, r, "post_user", "post@example.com")
	base := "/api/v1/users/" + u.ID + "/posts"

	for _, title := range []string{"first", "second"} {
		w := do(t, r, http.MethodPost, base, gin.H{"title": title, "content": "hello"})
		if w.Code != http.StatusCreated {
			t.Fatalf("create post: %d %s", w.Code, w.Body.String())
		}
	}

	if w := do(t, r, http.MethodDelete, "/api/v1/users/"+u.ID, nil); w.Code != http.StatusOK {
		t.Fatal(w.Code)
	}

	w := do(t, r, http.MethodGet, base, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list posts: %d", w.Code)
	}
	var posts []domain.Post
	decode(t, w, &posts)
	if len(posts) != 0 {
		t.Errorf("want empty non-deleted view, got %d posts", len(posts))
	}
}

func TestSoftDeletePostEndpoint(t *testing.T) {
	r, _ := newTestAPI(t)
	u := createUser(t, r, "x", "x@y.com")

	w := do(t, r, http.MethodPost, "/api/v1/users/"+u.ID+"/posts", gin.H{"title": "t", "content": "c"})
	if w.Code != http.StatusCreated {
		t.Fatal(w.Code)
	}
	var p domain.Post
	decode(t, w, &p)

	if w := do(t, r, http.MethodDelete, "/api/v1/posts/"+p.ID, nil); w.Code != http.StatusOK {
		t.Errorf("soft delete post: %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/v1/posts/"+p.ID, nil); w.Code != http.StatusBadRequest {
		t.Errorf("second delete: want 400, got %d", w.Code)
	}
	if w := do(t, r, http.MethodDelete, "/api/v1/posts/ghost", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown post: want 404, got %d", w.Code)
	}

	// 缺 title 的创建 400
	if w := do(t, r, http.MethodPost, "/api/v1/users/"+u.ID+"/posts", gin.H{"content": "c"}); w.Code != http.StatusBadRequest {
		t.Errorf("missing title: want 400, got %d", w.Code)
	}
}
