package mediawiki

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestClient_Login(t *testing.T) {
	t.Parallel()

	var loggedIn bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch {
		case r.Form.Get("meta") == "tokens" && r.Form.Get("type") == "login":
			io.WriteString(w, `{"query":{"tokens":{"logintoken":"LT+\\"}}}`)
		case r.Form.Get("action") == "login":
			if r.Form.Get("lgname") != "termbot" || r.Form.Get("lgtoken") == "" {
				t.Errorf("login form incomplete: %v", r.Form)
			}
			loggedIn = true
			io.WriteString(w, `{"login":{"result":"Success"}}`)
		case r.Form.Get("meta") == "tokens":
			io.WriteString(w, `{"query":{"tokens":{"csrftoken":"CT+\\"}}}`)
		default:
			t.Errorf("unexpected request: %v", r.Form)
		}
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	if err := c.Login(context.Background(), "termbot", "secret"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !loggedIn {
		t.Error("login request never reached the server")
	}
	if c.csrfToken == "" {
		t.Error("csrf token not stored")
	}
}

func TestClient_LoginRejected(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("type") == "login" {
			io.WriteString(w, `{"query":{"tokens":{"logintoken":"LT"}}}`)
			return
		}
		io.WriteString(w, `{"login":{"result":"WrongPass"}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	if err := c.Login(context.Background(), "termbot", "bad"); err == nil {
		t.Fatal("Login() should fail on a rejected login")
	}
}

func TestClient_PageText(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("titles") != "Guolástus:guolli" {
			t.Errorf("titles = %q", r.Form.Get("titles"))
		}
		io.WriteString(w, `{"query":{"pages":[
			{"title":"Guolástus:guolli","revisions":[{"content":"{{Concept}}"}]}
		]}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	text, err := c.PageText(context.Background(), "Guolástus:guolli")
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if text != "{{Concept}}" {
		t.Errorf("PageText() = %q", text)
	}
}

func TestClient_PageTextMissing(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"query":{"pages":[{"title":"Guolástus:x","missing":true}]}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	text, err := c.PageText(context.Background(), "Guolástus:x")
	if err != nil {
		t.Fatalf("PageText() error = %v", err)
	}
	if text != "" {
		t.Errorf("missing page should yield empty text, got %q", text)
	}
}

func TestClient_SavePage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Method != http.MethodPost {
			t.Errorf("save must POST, got %s", r.Method)
		}
		if r.Form.Get("text") != "{{Concept}}" || r.Form.Get("summary") != "cleanup" {
			t.Errorf("edit form incomplete: %v", r.Form)
		}
		io.WriteString(w, `{"edit":{"result":"Success"}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	if err := c.SavePage(context.Background(), "Guolástus:guolli", "{{Concept}}", "cleanup"); err != nil {
		t.Fatalf("SavePage() error = %v", err)
	}
}

func TestClient_SavePageAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"error":{"code":"protectedpage","info":"This page is protected"}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	err := c.SavePage(context.Background(), "Guolástus:guolli", "x", "s")
	if err == nil {
		t.Fatal("SavePage() should surface API errors")
	}
}

func TestClient_CategoryMembersContinuation(t *testing.T) {
	t.Parallel()

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		calls++
		if r.Form.Get("cmtitle") != "Category:Guolástus" {
			t.Errorf("cmtitle = %q", r.Form.Get("cmtitle"))
		}
		if r.Form.Get("cmcontinue") == "" {
			io.WriteString(w, `{"continue":{"cmcontinue":"page|next"},
				"query":{"categorymembers":[{"title":"Guolástus:guolli"}]}}`)
			return
		}
		io.WriteString(w, `{"query":{"categorymembers":[{"title":"Guolástus:dorski"}]}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	titles, err := c.CategoryMembers(context.Background(), "Guolástus")
	if err != nil {
		t.Fatalf("CategoryMembers() error = %v", err)
	}
	want := []string{"Guolástus:guolli", "Guolástus:dorski"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("CategoryMembers() = %v, want %v", titles, want)
	}
	if calls != 2 {
		t.Errorf("expected 2 requests, got %d", calls)
	}
}

func TestClient_AllCategoriesContinuation(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		if r.Form.Get("accontinue") == "" {
			io.WriteString(w, `{"continue":{"accontinue":"Guolástus"},
				"query":{"allcategories":[{"category":"Boazodoallu"}]}}`)
			return
		}
		io.WriteString(w, `{"query":{"allcategories":[{"category":"Guolástus"}]}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	names, err := c.AllCategories(context.Background())
	if err != nil {
		t.Fatalf("AllCategories() error = %v", err)
	}
	want := []string{"Boazodoallu", "Guolástus"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("AllCategories() = %v, want %v", names, want)
	}
}

func TestClient_RecentChangesDeduplicates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"query":{"recentchanges":[
			{"title":"Guolástus:guolli"},
			{"title":"Guolástus:guolli"},
			{"title":"Guolástus:dorski"}
		]}}`)
	}))
	defer srv.Close()

	c := NewClientWithURL(srv.URL, newTestLogger())
	titles, err := c.RecentChanges(context.Background(), 3)
	if err != nil {
		t.Fatalf("RecentChanges() error = %v", err)
	}
	want := []string{"Guolástus:guolli", "Guolástus:dorski"}
	if !reflect.DeepEqual(titles, want) {
		t.Errorf("RecentChanges() = %v, want %v", titles, want)
	}
}

func TestClient_PageURL(t *testing.T) {
	t.Parallel()

	c := NewClientWithURL("https://example.org/termwiki/api.php", newTestLogger())
	got := c.PageURL("Guolástus:guolli")
	if got != "https://example.org/termwiki/index.php/Guol%C3%A1stus:guolli" {
		t.Errorf("PageURL() = %q", got)
	}
}
