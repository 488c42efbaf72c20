package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

var noon = widget.FixedClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))

// fakeFetcher knows Paris only.
func fakeFetcher(calls *int32) weather.Fetcher {
	return weather.FetcherFunc(func(ctx context.Context, query string) (weather.Snapshot, error) {
		atomic.AddInt32(calls, 1)
		if query != "Paris" {
			return weather.Snapshot{}, errors.New("unexpected status code: 400")
		}
		return weather.Snapshot{Temperature: 22, Description: "Sunny", Location: "Paris", Unit: "C"}, nil
	})
}

func newTestApp(t *testing.T) (*fiber.App, *session.MemoryStore, *int32) {
	t.Helper()

	var calls int32
	fetcher := fakeFetcher(&calls)
	sessions := session.NewMemoryStore(10, time.Hour, func() *widget.Widget {
		return widget.New(fetcher, nil)
	}, nil)

	app := fiber.New()
	RegisterRoutes(app, sessions, noon, nil)
	return app, sessions, &calls
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("expected %s cookie in response", SessionCookie)
	return nil
}

func do(t *testing.T, app *fiber.App, req *http.Request, cookie *http.Cookie) *http.Response {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return resp
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeState(t *testing.T, resp *http.Response) stateResponse {
	t.Helper()
	var out stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func TestIndexMountsSession(t *testing.T) {
	app, sessions, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected html content type, got %q", ct)
	}
	cookie := sessionCookie(t, resp)

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"Weather Widget", "Enter a city name", ">Search<", ">Reset<"} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	// The same cookie reuses the mounted widget.
	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			t.Fatalf("expected no new session cookie for a known session")
		}
	}
	if sessions.Len() != 1 {
		t.Fatalf("expected 1 mounted widget, got %d", sessions.Len())
	}
}

func TestInvalidSessionCookieIsReplaced(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), &http.Cookie{Name: SessionCookie, Value: "not-a-uuid"})
	if got := sessionCookie(t, resp).Value; got == "not-a-uuid" {
		t.Fatalf("expected a fresh session id")
	}
}

func TestFormSearchRendersResult(t *testing.T) {
	app, _, _ := newTestApp(t)

	form := url.Values{"location": {"  Paris  "}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp := do(t, app, req, nil)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	body, _ := io.ReadAll(resp.Body)
	page := string(body)

	for _, want := range []string{"Enjoy the nice weather!", "sunny day!", " Paris During the Day"} {
		if !strings.Contains(page, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/reset", nil), cookie)
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("expected status %d, got %d", http.StatusSeeOther, resp.StatusCode)
	}
	resp = do(t, app, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	body, _ = io.ReadAll(resp.Body)
	if strings.Contains(string(body), "Paris During the Day") {
		t.Fatalf("expected reset to clear the result panel")
	}
}

func TestAPISearch(t *testing.T) {
	app, _, calls := newTestApp(t)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/v1/widget/search", `{"location":"Paris"}`), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)

	out := decodeState(t, resp)
	want := weather.Snapshot{Temperature: 22, Description: "Sunny", Location: "Paris", Unit: "C"}
	if out.State.Snapshot == nil || *out.State.Snapshot != want {
		t.Fatalf("expected snapshot %+v, got %+v", want, out.State.Snapshot)
	}
	if out.State.Error != "" || out.State.IsLoading {
		t.Fatalf("unexpected state %+v", out.State)
	}
	if out.View.Result == nil || len(out.View.Result.Lines) != 3 {
		t.Fatalf("expected rendered result lines, got %+v", out.View.Result)
	}

	// Unknown city: generic error, snapshot cleared, same session.
	resp = do(t, app, jsonRequest(http.MethodPost, "/api/v1/widget/search", `{"location":"Atlantis"}`), cookie)
	out = decodeState(t, resp)
	if out.State.Error != weather.MsgCityNotFound || out.State.Snapshot != nil {
		t.Fatalf("expected city-not-found state, got %+v", out.State)
	}
	if got := atomic.LoadInt32(calls); got != 2 {
		t.Fatalf("expected 2 fetcher calls, got %d", got)
	}
}

func TestAPISearchEmptyLocation(t *testing.T) {
	app, _, calls := newTestApp(t)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/v1/widget/search", `{"location":"   "}`), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	out := decodeState(t, resp)
	if out.State.Error != weather.MsgEmptyInput {
		t.Fatalf("expected %q, got %q", weather.MsgEmptyInput, out.State.Error)
	}
	if atomic.LoadInt32(calls) != 0 {
		t.Fatalf("expected no fetcher call for empty input")
	}
}

func TestAPIReset(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := do(t, app, jsonRequest(http.MethodPost, "/api/v1/widget/search", `{"location":"Paris"}`), nil)
	cookie := sessionCookie(t, resp)

	resp = do(t, app, httptest.NewRequest(http.MethodPost, "/api/v1/widget/reset", nil), cookie)
	out := decodeState(t, resp)
	if out.State.Query != "" || out.State.Snapshot != nil || out.State.Error != "" {
		t.Fatalf("expected cleared state, got %+v", out.State)
	}
}

func TestAPIHover(t *testing.T) {
	app, _, _ := newTestApp(t)

	// Missing "hovered" fails validation.
	resp := do(t, app, jsonRequest(http.MethodPut, "/api/v1/widget/hover", `{}`), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	resp = do(t, app, jsonRequest(http.MethodPut, "/api/v1/widget/hover", `{"hovered":true}`), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	out := decodeState(t, resp)
	if !out.State.IsHovered || !out.View.Highlighted {
		t.Fatalf("expected hovered state, got %+v", out)
	}

	resp = do(t, app, jsonRequest(http.MethodPut, "/api/v1/widget/hover", `{"hovered":false}`), cookie)
	out = decodeState(t, resp)
	if out.State.IsHovered {
		t.Fatalf("expected hover to be cleared")
	}
}

func TestAPIGetState(t *testing.T) {
	app, _, _ := newTestApp(t)

	resp := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/widget", nil), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	out := decodeState(t, resp)
	if out.View.Title != widget.Title || out.View.Form.SubmitLabel != "Search" {
		t.Fatalf("unexpected view %+v", out.View)
	}
}
