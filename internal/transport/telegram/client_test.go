package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subweld/internal/transport"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Options{
		Token:      "TEST:TOKEN",
		APIBase:    server.URL,
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client, server
}

func writeResult(t *testing.T, w http.ResponseWriter, result any) {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	json.NewEncoder(w).Encode(apiResponse{OK: true, Result: raw})
}

func writeError(w http.ResponseWriter, code int, description string) {
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(apiResponse{OK: false, ErrorCode: code, Description: description})
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for empty token")
	}
}

func TestResolveFileReturnsDownloadURL(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/getFile") {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var params map[string]string
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		if params["file_id"] != "abc123" {
			t.Fatalf("file_id = %q", params["file_id"])
		}
		writeResult(t, w, File{FileID: "abc123", FilePath: "videos/file_7.mp4", FileSize: 1024})
	}))

	location, err := client.ResolveFile(context.Background(), transport.FileRef{ID: "abc123"})
	if err != nil {
		t.Fatalf("ResolveFile: %v", err)
	}
	want := server.URL + "/file/botTEST:TOKEN/videos/file_7.mp4"
	if location != want {
		t.Fatalf("location = %q, want %q", location, want)
	}
}

func TestResolveFileClassifiesErrors(t *testing.T) {
	cases := []struct {
		name        string
		description string
		want        error
	}{
		{"too big", "Bad Request: file is too big", transport.ErrFileTooBig},
		{"not found", "Bad Request: file not found", transport.ErrFileNotFound},
		{"invalid id", "Bad Request: invalid file_id", transport.ErrInvalidReference},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, 400, tc.description)
			}))
			_, err := client.ResolveFile(context.Background(), transport.FileRef{ID: "x"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestResolveFileRejectsEmptyReference(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))
	_, err := client.ResolveFile(context.Background(), transport.FileRef{ID: "  "})
	if !errors.Is(err, transport.ErrInvalidReference) {
		t.Fatalf("error = %v, want ErrInvalidReference", err)
	}
}

func TestDownloadWritesFile(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("video-bytes"))
	}))

	dest := filepath.Join(t.TempDir(), "nested", "v.mp4")
	if err := client.Download(context.Background(), server.URL+"/file/botTEST:TOKEN/v.mp4", dest); err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "video-bytes" {
		t.Fatalf("downloaded content = %q", data)
	}
}

func TestDownloadServerFailureIsNetworkError(t *testing.T) {
	client, server := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	err := client.Download(context.Background(), server.URL+"/f", filepath.Join(t.TempDir(), "v.mp4"))
	if !errors.Is(err, transport.ErrNetwork) {
		t.Fatalf("error = %v, want ErrNetwork", err)
	}
}

func TestSendMessageReturnsMessageID(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		if params["text"] != "hello" {
			t.Fatalf("text = %v", params["text"])
		}
		writeResult(t, w, Message{MessageID: 55, Chat: Chat{ID: 9}})
	}))

	id, err := client.SendMessage(context.Background(), 9, "hello")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if id != 55 {
		t.Fatalf("message id = %d", id)
	}
}

func TestEditMessage(t *testing.T) {
	var gotPath string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeResult(t, w, Message{MessageID: 55})
	}))
	if err := client.EditMessage(context.Background(), 9, 55, "updated"); err != nil {
		t.Fatalf("EditMessage: %v", err)
	}
	if !strings.HasSuffix(gotPath, "/editMessageText") {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestSendVideoUploadsMultipart(t *testing.T) {
	src := filepath.Join(t.TempDir(), "out.mp4")
	if err := os.WriteFile(src, []byte("encoded"), 0o644); err != nil {
		t.Fatal(err)
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("chat_id"); got != "42" {
			t.Fatalf("chat_id = %q", got)
		}
		if got := r.FormValue("caption"); got != "done" {
			t.Fatalf("caption = %q", got)
		}
		file, header, err := r.FormFile("video")
		if err != nil {
			t.Fatalf("video part: %v", err)
		}
		defer file.Close()
		if header.Filename != "out.mp4" {
			t.Fatalf("filename = %q", header.Filename)
		}
		writeResult(t, w, Message{MessageID: 1})
	}))

	if err := client.SendVideo(context.Background(), 42, src, "done"); err != nil {
		t.Fatalf("SendVideo: %v", err)
	}
}

func TestGetUpdates(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var params map[string]any
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		if params["offset"].(float64) != 7 {
			t.Fatalf("offset = %v", params["offset"])
		}
		writeResult(t, w, []Update{
			{UpdateID: 7, Message: &Message{MessageID: 1, Chat: Chat{ID: 3}, Text: "/start"}},
			{UpdateID: 8, Message: &Message{MessageID: 2, Chat: Chat{ID: 3}, Video: &Video{FileID: "f", FileSize: 10}}},
		})
	}))

	updates, err := client.GetUpdates(context.Background(), 7, 0)
	if err != nil {
		t.Fatalf("GetUpdates: %v", err)
	}
	if len(updates) != 2 {
		t.Fatalf("got %d updates", len(updates))
	}
	if updates[1].Message.Video.FileID != "f" {
		t.Fatalf("video file id = %q", updates[1].Message.Video.FileID)
	}
}
