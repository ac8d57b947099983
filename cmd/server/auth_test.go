package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIssueTokenExchangesShopCredential(t *testing.T) {
	srv := newTestServer(t)
	router := srv.routes()

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"shop_token": "shop-secret"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("expected a token")
	}

	// The issued token opens protected routes.
	protected := httptest.NewRequest(http.MethodGet, "/materials", nil)
	protected.Header.Set("Authorization", "Bearer "+resp.Token)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, protected)
	if out.Code != http.StatusOK {
		t.Fatalf("issued token rejected: %d", out.Code)
	}
}

func TestIssueTokenRejectsWrongCredential(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"shop_token": "adivinanza"}`))
	rec := httptest.NewRecorder()
	srv.routes().ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddlewareRejectsMissingAndForgedTokens(t *testing.T) {
	srv := newTestServer(t)
	router := srv.routes()

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer loquesea",
		"wrong secret":   "Bearer " + newAuthService("otro-secreto", "shop-secret").createToken("shop"),
	}

	for name, header := range cases {
		req := httptest.NewRequest(http.MethodGet, "/records", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestTokenRoundTrip(t *testing.T) {
	auth := newAuthService("secreto", "shop")

	token := auth.createToken("shop")
	subject, ok := auth.verifyToken(token)
	if !ok || subject != "shop" {
		t.Fatalf("round trip failed: %q %v", subject, ok)
	}

	if _, ok := auth.verifyToken(token + "x"); ok {
		t.Fatal("tampered signature accepted")
	}
	if _, ok := auth.verifyToken("sin-punto"); ok {
		t.Fatal("malformed token accepted")
	}
}
