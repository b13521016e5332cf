package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const directoryBody = `{"success":true,"admins":[
	{"tag":"alice","status":"available","rating":4.5,"role":"Support"},
	{"tag":"bob","status":"unavailable"}
]}`

func newDirectory(t *testing.T, selectBody string) (*httptest.Server, *[]string) {
	t.Helper()
	var selected []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admins":
			_, _ = io.WriteString(w, directoryBody)
		case "/api/select-admin":
			var body struct {
				AdminTag string `json:"admin_tag"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			selected = append(selected, body.AdminTag)
			_, _ = io.WriteString(w, selectBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &selected
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	color.NoColor = true
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestListPrintsBothPartitions(t *testing.T) {
	srv, _ := newDirectory(t, `{"success":true}`)

	code, out, errOut := runCLI(t, "-api", srv.URL+"/api", "-lang", "en", "list")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	for _, want := range []string{"Choose an administrator", "Available (1)", "Unavailable (1)", "#alice  ⭐4.5", "#bob"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "#alice") > strings.Index(out, "#bob") {
		t.Fatalf("available admins should be listed first:\n%s", out)
	}
}

func TestListShowsConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	code, out, _ := runCLI(t, "-api", srv.URL+"/api", "-lang", "en", "list")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if got := strings.Count(out, "HTTP 500: Internal Server Error"); got != 2 {
		t.Fatalf("expected the error in both panels, got %d:\n%s", got, out)
	}
}

func TestSelectNotifiesAdmin(t *testing.T) {
	srv, selected := newDirectory(t, `{"success":true,"message":"Request sent"}`)

	code, out, errOut := runCLI(t, "-api", srv.URL+"/api", "-lang", "en", "select", "alice")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut)
	}
	if want := "✅ Request sent\nThe administrator has been notified!"; !strings.Contains(out, want) {
		t.Fatalf("output = %q, want %q", out, want)
	}
	if len(*selected) != 1 || (*selected)[0] != "alice" {
		t.Fatalf("selected = %v", *selected)
	}
}

func TestSelectReportsRejection(t *testing.T) {
	srv, _ := newDirectory(t, `{"success":false,"error":"admin is busy"}`)

	code, out, errOut := runCLI(t, "-api", srv.URL+"/api", "-lang", "en", "select", "alice")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(out, "❌ Error: admin is busy") {
		t.Fatalf("output = %q", out)
	}
	if !strings.Contains(errOut, "selection was not accepted") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestSelectRefusesUnavailableAndUnknown(t *testing.T) {
	srv, selected := newDirectory(t, `{"success":true}`)

	for _, tag := range []string{"bob", "zed"} {
		code, _, errOut := runCLI(t, "-api", srv.URL+"/api", "select", tag)
		if code != 1 {
			t.Fatalf("select %s: exit code = %d, want 1", tag, code)
		}
		if !strings.Contains(errOut, tag) {
			t.Fatalf("select %s: stderr = %q", tag, errOut)
		}
	}
	if len(*selected) != 0 {
		t.Fatalf("nothing should be submitted, got %v", *selected)
	}
}

func TestUsageErrors(t *testing.T) {
	if code, _, _ := runCLI(t); code != 2 {
		t.Fatalf("no command: exit code = %d, want 2", code)
	}
	if code, _, errOut := runCLI(t, "frobnicate"); code != 2 || !strings.Contains(errOut, "Unknown command") {
		t.Fatalf("unknown command: code %d, stderr %q", code, errOut)
	}
	if code, _, _ := runCLI(t, "select"); code != 2 {
		t.Fatalf("select without tag: exit code = %d, want 2", code)
	}
}
