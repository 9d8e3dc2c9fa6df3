package router

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dropDatabas3/guardia/internal/authz"
	memcache "github.com/dropDatabas3/guardia/internal/cache/memory"
	authctrl "github.com/dropDatabas3/guardia/internal/http/controllers/auth"
	ordersctrl "github.com/dropDatabas3/guardia/internal/http/controllers/orders"
	authsvc "github.com/dropDatabas3/guardia/internal/http/services/auth"
	"github.com/dropDatabas3/guardia/internal/security/password"
	"github.com/dropDatabas3/guardia/internal/session"
	"github.com/dropDatabas3/guardia/internal/store/core"
	memstore "github.com/dropDatabas3/guardia/internal/store/memory"
	"github.com/dropDatabas3/guardia/internal/token"
)

// newTestServer arma el stack completo en memoria: store, servicios, guards
// y router, igual que el wiring de producción pero sin red ni backends.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	newCodec := func(secret string) *token.Codec {
		c, err := token.NewCodec(token.CodecOptions{Secret: []byte(secret)})
		if err != nil {
			t.Fatalf("NewCodec: %v", err)
		}
		return c
	}
	access := token.NewAccessService(newCodec("ka"), 15*time.Minute, 0)
	refresh := token.NewRefreshService(newCodec("kr"), 24*time.Hour, 72*time.Hour, 0)
	permission := token.NewPermissionService(newCodec("kp"), 5*time.Minute, 0)

	hash, err := password.Hash(password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}, "pw")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	users := memstore.New()
	users.Put(&core.User{
		ID: "u1", Email: "user@example.com", PasswordHash: hash,
		RoleID: "r-user", RoleType: token.RoleUser,
		Permissions: []core.PermissionRecord{{Subject: "order", ActionCodes: "1,2,3"}},
		CreatedAt:   time.Now().UTC(),
	})
	users.Put(&core.User{
		ID: "a1", Email: "admin@example.com", PasswordHash: hash,
		RoleID: "r-admin", RoleType: token.RoleAdmin,
		Permissions: []core.PermissionRecord{{Subject: "order", ActionCodes: "0"}},
		CreatedAt:   time.Now().UTC(),
	})

	revocations := session.NewRevocationStore(memcache.New(time.Minute))
	services := authsvc.Services{
		Login:      authsvc.NewLoginService(authsvc.LoginDeps{Users: users, Access: access, Refresh: refresh}),
		Refresh:    authsvc.NewRefreshService(authsvc.RefreshDeps{Users: users, Access: access, Refresh: refresh, Revocations: revocations}),
		Logout:     authsvc.NewLogoutService(authsvc.LogoutDeps{Revocations: revocations, RetainFor: time.Hour}),
		Permission: authsvc.NewPermissionTokenService(authsvc.PermissionDeps{Permission: permission}),
		Introspect: authsvc.NewIntrospectService(authsvc.IntrospectDeps{Access: access, Refresh: refresh, Permission: permission, Revocations: revocations}),
	}

	deps := Deps{
		Auth:   authctrl.NewControllers(services),
		Orders: ordersctrl.NewController(),
		Guard:  authz.NewGuard(access, permission, DefaultPolicy(), ""),
		Basic:  authz.NewBasicGuard("svc", "s3cret"),
	}

	srv := httptest.NewServer(New(deps))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, bearer, permTok string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if permTok != "" {
		req.Header.Set("X-Permission-Token", permTok)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, base, email string) (accessTok, refreshTok string) {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, base+"/v1/auth/login", "", "", map[string]any{
		"email": email, "password": "pw",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %v", email, resp.StatusCode, body)
	}
	at, _ := body["access_token"].(string)
	rt, _ := body["refresh_token"].(string)
	if at == "" || rt == "" {
		t.Fatalf("login %s: missing tokens in %v", email, body)
	}
	return at, rt
}

func TestRouter_LoginAndMe(t *testing.T) {
	srv := newTestServer(t)
	at, _ := login(t, srv.URL, "user@example.com")

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/me", at, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d body %v", resp.StatusCode, body)
	}
	if body["subjectId"] != "u1" || body["roleType"] != "user" {
		t.Fatalf("me claims mismatch: %v", body)
	}
}

func TestRouter_MeWithoutToken(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/v1/me", "", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status %d body %v", resp.StatusCode, body)
	}
	if body["code"] != "TOKEN_MISSING" {
		t.Fatalf("expected TOKEN_MISSING, got %v", body)
	}
	if resp.Header.Get("WWW-Authenticate") == "" {
		t.Fatalf("401 should carry WWW-Authenticate")
	}
}

func TestRouter_OrdersPolicy(t *testing.T) {
	srv := newTestServer(t)
	at, _ := login(t, srv.URL, "user@example.com")

	// create (código 2)
	resp, created := doJSON(t, http.MethodPost, srv.URL+"/v1/orders", at, "", map[string]any{
		"item": "widget", "quantity": 2,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d body %v", resp.StatusCode, created)
	}
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("created order without id: %v", created)
	}

	// update (código 3)
	resp, body := doJSON(t, http.MethodPut, srv.URL+"/v1/orders/"+id, at, "", map[string]any{
		"quantity": 5,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d body %v", resp.StatusCode, body)
	}

	// delete requiere código 4, el usuario no lo tiene
	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/v1/orders/"+id, at, "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("delete: status %d body %v", resp.StatusCode, body)
	}
	if body["code"] != "ABILITY_DENIED" {
		t.Fatalf("expected ABILITY_DENIED, got %v", body)
	}

	// export exige rol admin
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/v1/orders/export", at, "", nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("export: status %d body %v", resp.StatusCode, body)
	}
	if body["code"] != "ROLE_MISMATCH" {
		t.Fatalf("expected ROLE_MISMATCH, got %v", body)
	}
}

func TestRouter_DeleteWithPermissionToken(t *testing.T) {
	srv := newTestServer(t)
	at, _ := login(t, srv.URL, "admin@example.com")

	resp, created := doJSON(t, http.MethodPost, srv.URL+"/v1/orders", at, "", map[string]any{
		"item": "widget", "quantity": 1,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: status %d body %v", resp.StatusCode, created)
	}
	id, _ := created["id"].(string)

	// Sin permission token: 401 con code propio.
	resp, body := doJSON(t, http.MethodDelete, srv.URL+"/v1/orders/"+id, at, "", nil)
	if resp.StatusCode != http.StatusUnauthorized || body["code"] != "PERMISSION_TOKEN_MISSING" {
		t.Fatalf("delete without elevation: status %d body %v", resp.StatusCode, body)
	}

	resp, ptBody := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/permission-token", at, "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("permission-token: status %d body %v", resp.StatusCode, ptBody)
	}
	pt, _ := ptBody["permission_token"].(string)
	if pt == "" {
		t.Fatalf("missing permission_token in %v", ptBody)
	}

	resp, body = doJSON(t, http.MethodDelete, srv.URL+"/v1/orders/"+id, at, pt, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("delete with elevation: status %d body %v", resp.StatusCode, body)
	}
}

func TestRouter_RefreshAndLogout(t *testing.T) {
	srv := newTestServer(t)
	_, rt := login(t, srv.URL, "user@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", "", "", map[string]any{
		"refresh_token": rt,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: status %d body %v", resp.StatusCode, body)
	}
	if at, _ := body["access_token"].(string); at == "" {
		t.Fatalf("refresh did not return access token: %v", body)
	}

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/logout", "", "", map[string]any{
		"refresh_token": rt,
	})
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout: status %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/v1/auth/refresh", "", "", map[string]any{
		"refresh_token": rt,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("refresh after logout: status %d body %v", resp.StatusCode, body)
	}
}

func TestRouter_IntrospectRequiresBasic(t *testing.T) {
	srv := newTestServer(t)
	at, _ := login(t, srv.URL, "user@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/v1/introspect", "", "", map[string]any{
		"token": at, "kind": "access",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("introspect without basic: status %d body %v", resp.StatusCode, body)
	}

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/v1/introspect",
		bytes.NewBufferString(`{"token":"`+at+`","kind":"access"}`))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("svc:s3cret")))

	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp2.Body.Close()
	var out map[string]any
	if err := json.NewDecoder(resp2.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp2.StatusCode != http.StatusOK || out["active"] != true {
		t.Fatalf("introspect with basic: status %d body %v", resp2.StatusCode, out)
	}
	if out["subjectId"] != "u1" {
		t.Fatalf("introspect subject mismatch: %v", out)
	}
}

func TestRouter_Health(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: status %d", path, resp.StatusCode)
		}
	}
}
