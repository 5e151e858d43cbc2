package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"
)

// HTTPJSON sends a JSON request and decodes the JSON response into out when
// out is non-nil. It returns the response status code.
func HTTPJSON(t *testing.T, method, url string, payload any, out any) int {
	t.Helper()
	var data []byte
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		data = encoded
	}
	status, body := doRequest(t, method, url, data)
	if out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			t.Fatalf("decode response for %s %s: %v: %s", method, url, err, string(body))
		}
	}
	return status
}

// HTTPGet sends a GET request and returns the status and raw body.
func HTTPGet(t *testing.T, url string) (int, []byte) {
	t.Helper()
	return doRequest(t, http.MethodGet, url, nil)
}

// doRequest executes an HTTP request with a JSON payload and returns the body.
func doRequest(t *testing.T, method, url string, payload []byte) (int, []byte) {
	t.Helper()
	ctx := Context(t, 2*time.Second)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("http request: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, body
}
