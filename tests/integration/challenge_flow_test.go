package integration

import (
	"net/http"
	"net/url"
	"testing"
)

// challengePath builds a challenge URL with the name percent-encoded,
// since challenge names routinely contain spaces.
func challengePath(name string, suffix string) string {
	return "/api/v1/challenges/" + url.PathEscape(name) + suffix
}

func TestChallengeFlow_SaveTowardsGoal(t *testing.T) {
	app := setupApp(t)
	token := app.registerUser(t, "saver@test.com", "password123")

	// Fund the account.
	rec := app.request("POST", "/api/v1/incomes",
		`{"name":"Bonus","amount":100000,"year":2024,"month":6,"day":1,"description":"bonus"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("income create failed: %d %s", rec.Code, rec.Body.String())
	}

	// Create a custom challenge.
	rec = app.request("POST", "/api/v1/challenges",
		`{"name":"New laptop","total_amount":150000,"year":2025,"month":3,"day":1}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("challenge create failed: %d %s", rec.Code, rec.Body.String())
	}

	// Save within the balance.
	rec = app.request("POST", challengePath("New laptop", "/savings"), `{"amount":60000}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("saving failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["amount"] != float64(60_000) {
		t.Errorf("expected saved 60000, got %v", result["amount"])
	}
	if got := app.balance(t, token); got != 40_000 {
		t.Fatalf("expected balance 40000, got %v", got)
	}

	// Saving more than the balance is rejected and changes nothing.
	rec = app.request("POST", challengePath("New laptop", "/savings"), `{"amount":50000}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for insufficient balance, got %d", rec.Code)
	}
	if got := app.balance(t, token); got != 40_000 {
		t.Fatalf("expected balance still 40000, got %v", got)
	}

	// Deleting the challenge does not refund the saved amount.
	rec = app.request("DELETE", challengePath("New laptop", ""), "", token)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("challenge delete failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := app.balance(t, token); got != 40_000 {
		t.Fatalf("expected balance still 40000 after delete, got %v", got)
	}
}

func TestChallengeFlow_PremadeAndEdit(t *testing.T) {
	app := setupApp(t)
	token := app.registerUser(t, "premade@test.com", "password123")

	rec := app.request("GET", "/api/v1/challenges/templates", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("templates failed: %d %s", rec.Code, rec.Body.String())
	}
	templates := parseJSON(t, rec)["templates"].([]interface{})
	if len(templates) != 10 {
		t.Fatalf("expected 10 templates, got %d", len(templates))
	}

	rec = app.request("POST", "/api/v1/challenges/premade",
		`{"name":"Holiday","label":"$500 in 30 days"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("premade create failed: %d %s", rec.Code, rec.Body.String())
	}
	created := parseJSON(t, rec)
	if created["name"] != "Holiday: $500 in 30 days" {
		t.Errorf("unexpected name %v", created["name"])
	}
	if created["total_amount"] != float64(50_000) {
		t.Errorf("expected goal 50000, got %v", created["total_amount"])
	}

	// Rename it; the old name stops resolving.
	rec = app.request("PUT", challengePath("Holiday: $500 in 30 days", ""),
		`{"name":"Summer trip","total_amount":60000,"year":2025,"month":8,"day":1}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("edit failed: %d %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", challengePath("Holiday: $500 in 30 days", ""), "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for old name, got %d", rec.Code)
	}
	rec = app.request("GET", challengePath("Summer trip", ""), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for new name, got %d", rec.Code)
	}
}
