package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClientPost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		var in map[string]string
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("decode: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"echo": in["msg"]})
	}))
	defer srv.Close()

	var out map[string]string
	err := NewClient(srv.URL).Post(context.Background(), "/echo", map[string]string{"msg": "hi"}, &out)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if out["echo"] != "hi" {
		t.Errorf("echo = %q, want hi", out["echo"])
	}
}

func TestClientStatusError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{"json error body", http.StatusNotFound, `{"error":"no such word"}`, "no such word"},
		{"plain body", http.StatusBadGateway, "upstream down\n", "upstream down"},
		{"redirect class", http.StatusNotModified, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewClient(srv.URL).Get(context.Background(), "/", nil)
			var serr *StatusError
			if !errors.As(err, &serr) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if serr.Code != tt.status {
				t.Errorf("Code = %d, want %d", serr.Code, tt.status)
			}
			if serr.Message != tt.wantMessage {
				t.Errorf("Message = %q, want %q", serr.Message, tt.wantMessage)
			}
		})
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	err := NewClient(srv.URL, WithTimeout(50*time.Millisecond)).Get(context.Background(), "/", nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	var serr *StatusError
	if errors.As(err, &serr) {
		t.Errorf("expected transport error, got status error %v", serr)
	}
}

func TestOutputTo(t *testing.T) {
	data := struct {
		Word string `json:"word" yaml:"word"`
	}{Word: "teh"}

	var buf bytes.Buffer
	if err := OutputTo(&buf, OutputFormatJSON, data); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"word": "teh"`) {
		t.Errorf("json output = %q", buf.String())
	}

	buf.Reset()
	if err := OutputTo(&buf, OutputFormatYAML, data); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "word: teh" {
		t.Errorf("yaml output = %q", buf.String())
	}

	if err := SetOutputFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
