package app

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("Unexpected hash format: %s", hash)
	}

	ok, err := VerifyPassword("correct horse battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("Correct password should verify")
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("Wrong password should not verify")
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatal(err)
	}
	if h1 == h2 {
		t.Error("Two hashes of the same password should differ (random salt)")
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$garbage$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
	}
	for _, hash := range malformed {
		if ok, err := VerifyPassword("password", hash); err == nil || ok {
			t.Errorf("Expected error for malformed hash %q, got ok=%v err=%v", hash, ok, err)
		}
	}
}

func TestRequireAuth(t *testing.T) {
	// Preserve the package state for other tests.
	savedUser, savedHash := editUser, authHash
	defer func() { editUser, authHash = savedUser, savedHash }()

	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	editUser = "admin"
	authHash = []byte(hash)

	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// No credentials
	req := httptest.NewRequest("GET", "/edit", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without credentials, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("Missing WWW-Authenticate header on 401")
	}

	// Wrong password
	req = httptest.NewRequest("GET", "/edit", nil)
	req.SetBasicAuth("admin", "wrong")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong password, got %d", w.Code)
	}

	// Wrong user
	req = httptest.NewRequest("GET", "/edit", nil)
	req.SetBasicAuth("intruder", "secret123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with wrong user, got %d", w.Code)
	}

	// Valid credentials
	req = httptest.NewRequest("GET", "/edit", nil)
	req.SetBasicAuth("admin", "secret123")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 with valid credentials, got %d", w.Code)
	}
}

func TestRequireAuthDevPassthrough(t *testing.T) {
	savedUser, savedHash := editUser, authHash
	defer func() { editUser, authHash = savedUser, savedHash }()
	editUser, authHash = "", nil

	handler := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/edit", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected passthrough without auth file, got %d", w.Code)
	}
}
