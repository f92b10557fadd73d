package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/sentinel/monitor"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version = %v", err)
	}
	if !strings.Contains(out, "sentinel") {
		t.Errorf("output = %q", out)
	}
}

func TestCheckCommand_Up(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	out, err := execute(t, "check", server.URL)
	if err != nil {
		t.Fatalf("check = %v", err)
	}

	var result monitor.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("output is not a result: %v\n%s", err, out)
	}
	if result.Status != monitor.StatusUp {
		t.Errorf("Status = %s, want UP", result.Status)
	}
}

func TestCheckCommand_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := execute(t, "check", server.URL)
	if err == nil {
		t.Fatal("check against a 503 endpoint should exit non-zero")
	}
	if !strings.Contains(err.Error(), "DOWN") {
		t.Errorf("err = %v, want DOWN", err)
	}
}

func TestCheckCommand_RejectsInvalidURL(t *testing.T) {
	if _, err := execute(t, "check", "ftp://example.com"); err == nil {
		t.Error("non-HTTP URL should be rejected")
	}
}
