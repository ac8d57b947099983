package main

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"
)

// authService exchanges the shared shop token for a signed API token and
// verifies it on every protected request. Single-tenant: there is one shop
// credential, not a user table.
type authService struct {
	tokenSecret []byte
	shopToken   string
}

func newAuthService(tokenSecret, shopToken string) *authService {
	return &authService{tokenSecret: []byte(tokenSecret), shopToken: shopToken}
}

func (a *authService) validateShopToken(provided string) bool {
	if a.shopToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a.shopToken), []byte(provided)) == 1
}

func (a *authService) createToken(subject string) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(subject))
	mac := hmac.New(sha256.New, a.tokenSecret)
	_, _ = mac.Write([]byte(payload))
	signature := hex.EncodeToString(mac.Sum(nil))
	return payload + "." + signature
}

func (a *authService) verifyToken(value string) (string, bool) {
	parts := strings.Split(value, ".")
	if len(parts) != 2 {
		return "", false
	}

	payload := parts[0]
	signature := parts[1]

	mac := hmac.New(sha256.New, a.tokenSecret)
	_, _ = mac.Write([]byte(payload))
	expected := mac.Sum(nil)

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}
	if len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

func (a *authService) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			respondError(w, http.StatusUnauthorized, "token requerido")
			return
		}

		if _, valid := a.verifyToken(strings.TrimSpace(token)); !valid {
			respondError(w, http.StatusUnauthorized, "token inválido")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *server) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShopToken string `json:"shop_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "cuerpo JSON inválido")
		return
	}

	if !s.auth.validateShopToken(req.ShopToken) {
		respondError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"token": s.auth.createToken("shop")})
}
