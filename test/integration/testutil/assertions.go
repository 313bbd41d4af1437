//go:build integration

package testutil

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
)

// DecodeJSON reads and decodes a JSON response body into dst.
func DecodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
}

// AssertStatus checks that the response has the expected HTTP status code.
func AssertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

// AssertErrorCode checks that the response body contains the expected error code.
func AssertErrorCode(t *testing.T, resp *http.Response, expectedCode string) {
	t.Helper()
	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	DecodeJSON(t, resp, &errResp)
	if errResp.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, errResp.Code, errResp.Message)
	}
}

// AssertMatchRow checks the denormalized columns of the matches row.
func AssertMatchRow(t *testing.T, env *TestEnv, matchID uuid.UUID, status string, version int64) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var gotStatus string
	var gotVersion int64
	err := env.Pool.QueryRow(ctx,
		"SELECT status, version FROM matches WHERE id = $1", matchID).Scan(&gotStatus, &gotVersion)
	if err != nil {
		t.Fatalf("AssertMatchRow: query: %v", err)
	}
	if gotStatus != status {
		t.Errorf("status: expected %s, got %s", status, gotStatus)
	}
	if gotVersion != version {
		t.Errorf("version: expected %d, got %d", version, gotVersion)
	}
}

// CountRows returns the number of rows in table belonging to the match.
func CountRows(t *testing.T, env *TestEnv, table string, matchID uuid.UUID) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var n int
	err := env.Pool.QueryRow(ctx, "SELECT count(*) FROM "+table+" WHERE match_id = $1", matchID).Scan(&n)
	if err != nil {
		t.Fatalf("CountRows %s: %v", table, err)
	}
	return n
}
