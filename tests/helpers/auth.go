package helpers

import (
	"bytes"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// AcquireAccount performs signup and login against the API and returns
// the bearer token with the account id.
func AcquireAccount(t *testing.T, baseURL, username, email, password string) (token, accountID string) {
	t.Helper()

	signupBody, _ := json.Marshal(map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	resp, err := http.Post(baseURL+"/api/auth/signup", "application/json", bytes.NewReader(signupBody))
	if err != nil {
		t.Fatalf("Signup request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusConflict {
		t.Fatalf("Signup failed with status %d", resp.StatusCode)
	}

	loginBody, _ := json.Marshal(map[string]string{
		"identifier": email,
		"Password":   password,
	})
	resp, err = http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		t.Fatalf("Login request failed: %v", err)
	}
	var login struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		User    struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	ParseJSON(t, resp, &login)
	if login.Token == "" {
		t.Fatal("Login returned an empty token")
	}

	return login.Token, login.User.ID
}

// PromoteRole sets an account role directly in the database. Used to
// bootstrap the admin account for container tests; every other role is
// assigned through the approval endpoints.
func PromoteRole(t *testing.T, dbHost, dbPort, accountID, role string) {
	t.Helper()

	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s",
		os.Getenv("DB_ROOT_PASSWORD"), dbHost, dbPort, os.Getenv("DB_DATABASE"))
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("Failed to connect for role promotion: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec("UPDATE accounts SET role = ? WHERE account_id = ?", role, accountID); err != nil {
		t.Fatalf("Failed to promote account %s to %s: %v", accountID, role, err)
	}
}

// AuthedRequest performs an HTTP request with a bearer token.
func AuthedRequest(t *testing.T, method, url, token string, body []byte) *http.Response {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	return resp
}
