package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

var (
	authURL          = getEnv("AUTH_SERVICE_URL", "http://localhost:3001")
	bookURL          = getEnv("BOOK_SERVICE_URL", "http://localhost:3000")
	recommendURL     = getEnv("RECOMMEND_SERVICE_URL", "http://localhost:8000")
	testUserEmail    = fmt.Sprintf("test-%d@example.com", time.Now().UnixNano())
	testUserPassword = "testPassword123"
	authToken        string
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION_TEST") != "true" {
		fmt.Println("Skipping integration tests. Set INTEGRATION_TEST=true to run.")
		os.Exit(0)
	}
	os.Exit(m.Run())
}

func postJSON(t *testing.T, url string, payload interface{}) *http.Response {
	t.Helper()

	body, _ := json.Marshal(payload)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("request to %s failed: %v", url, err)
	}
	return resp
}

func TestHealthCheck(t *testing.T) {
	for _, url := range []string{
		authURL + "/healthz",
		bookURL + "/healthz",
		recommendURL + "/health",
	} {
		resp, err := http.Get(url)
		if err != nil {
			t.Fatalf("health check %s failed: %v", url, err)
		}
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected status 200, got %d", url, resp.StatusCode)
		}
	}
}

func TestSignup(t *testing.T) {
	resp := postJSON(t, authURL+"/signup", map[string]string{
		"email":    testUserEmail,
		"password": testUserPassword,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	token, ok := result["access_token"].(string)
	if !ok || token == "" {
		t.Fatal("expected access_token in signup response")
	}
	authToken = token
}

func TestLogin(t *testing.T) {
	resp := postJSON(t, authURL+"/login", map[string]string{
		"email":    testUserEmail,
		"password": testUserPassword,
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestMe(t *testing.T) {
	if authToken == "" {
		t.Skip("no auth token from signup")
	}

	req, _ := http.NewRequest(http.MethodGet, authURL+"/me", nil)
	req.Header.Set("Authorization", "Bearer "+authToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var result struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.User.Email != testUserEmail {
		t.Errorf("expected email %s, got %s", testUserEmail, result.User.Email)
	}
}

func TestBookCreateRequiresAuth(t *testing.T) {
	resp := postJSON(t, bookURL+"/books", map[string]string{
		"title":  "Solaris",
		"author": "Stanislaw Lem",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", resp.StatusCode)
	}
}

func TestBooksListIsPublic(t *testing.T) {
	resp, err := http.Get(bookURL + "/books")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestRecommend(t *testing.T) {
	resp := postJSON(t, recommendURL+"/recommend", map[string]string{
		"text": "space adventure across the galaxy",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}
}
