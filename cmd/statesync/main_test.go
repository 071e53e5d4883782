package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vango-dev/statesync/internal/demo"
	"github.com/vango-dev/statesync/pkg/middleware"
	"github.com/vango-dev/statesync/pkg/server"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"loud", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseLevel(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestStoreFlagsOpen(t *testing.T) {
	tests := []struct {
		name    string
		flags   storeFlags
		wantErr bool
	}{
		{"memory", storeFlags{kind: "memory"}, false},
		{"s3", storeFlags{kind: "s3", bucket: "b", key: "k", region: "us-east-1", endpoint: "http://localhost:9000"}, false},
		{"s3 without bucket", storeFlags{kind: "s3"}, true},
		{"unknown", storeFlags{kind: "redis"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := tt.flags.open(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && store == nil {
				t.Errorf("open() returned nil store")
			}
		})
	}
}

func TestVersionShort(t *testing.T) {
	cmd := versionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--short"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out.String()) != version {
		t.Errorf("version --short = %q, want %q", out.String(), version)
	}
}

func newFlag(t *testing.T, initial bool) *demo.Flag {
	t.Helper()
	flag, err := demo.LoadFlag(context.Background(), demo.NewMemoryStore(initial))
	if err != nil {
		t.Fatal(err)
	}
	return flag
}

func TestMountDeveloperModeRendersPage(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.Prometheus(middleware.WithRegistry(reg))

	cfg := server.DefaultConfig()
	cfg.Registry = reg
	srv := server.New(cfg, mountDeveloperMode(newFlag(t, true), metrics))

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Developer mode", "checked", "Status: on"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestNewS3ClientEndpointOverride(t *testing.T) {
	client, err := newS3Client(context.Background(), "eu-west-1", "http://localhost:9000")
	if err != nil {
		t.Fatal(err)
	}
	o := client.Options()
	if o.Region != "eu-west-1" {
		t.Errorf("region = %q", o.Region)
	}
	if o.BaseEndpoint == nil || *o.BaseEndpoint != "http://localhost:9000" || !o.UsePathStyle {
		t.Errorf("endpoint override not applied: %v path-style=%v", o.BaseEndpoint, o.UsePathStyle)
	}
}

func TestRunServeLoadFailure(t *testing.T) {
	store := demo.NewMemoryStore(false)
	store.Close()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := runServe(context.Background(), "127.0.0.1:0", store, logger)
	if !errors.Is(err, demo.ErrStoreClosed) {
		t.Errorf("runServe() = %v, want ErrStoreClosed", err)
	}
}

type push struct {
	HTML  string `json:"html"`
	Error string `json:"error"`
}

func dialLive(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads pushes until one contains want.
func readUntil(t *testing.T, conn *websocket.Conn, want string) string {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var p push
		if err := conn.ReadJSON(&p); err != nil {
			t.Fatalf("waiting for %q: %v", want, err)
		}
		if strings.Contains(p.HTML, want) {
			return p.HTML
		}
	}
}

func fire(t *testing.T, conn *websocket.Conn, hid, event string) {
	t.Helper()
	if err := conn.WriteJSON(server.Event{HID: hid, Event: event}); err != nil {
		t.Fatal(err)
	}
}

func TestCommitInOneSessionSnapsAnother(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := middleware.Prometheus(middleware.WithRegistry(reg))
	cfg := server.DefaultConfig()
	cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg.Registry = reg
	srv := server.New(cfg, mountDeveloperMode(newFlag(t, false), metrics))
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	a := dialLive(t, ts)
	b := dialLive(t, ts)
	readUntil(t, a, "Status: off")
	readUntil(t, b, "Status: off")

	// b starts its own transition and leaves it pending.
	fire(t, b, "h1", "onchange")
	readUntil(t, b, "Enable developer mode?")

	// a enables and confirms.
	fire(t, a, "h1", "onchange")
	readUntil(t, a, "Enable developer mode?")
	fire(t, a, "h2", "onclick")
	readUntil(t, a, "Status: on")

	// b's actual state follows the commit, which snaps it and closes its
	// prompt.
	html := readUntil(t, b, "Status: on")
	if strings.Contains(html, "<dialog") {
		t.Errorf("b's prompt should close on the external commit: %s", html)
	}
	if !strings.Contains(html, `aria-busy="false"`) {
		t.Errorf("b should no longer be pending: %s", html)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() != "statesync_pending" {
			continue
		}
		for _, m := range f.GetMetric() {
			if m.GetGauge().GetValue() != 0 {
				t.Errorf("pending gauge %v = %v, want 0", m.GetLabel(), m.GetGauge().GetValue())
			}
		}
	}
}
