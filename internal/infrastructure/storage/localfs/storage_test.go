package localfs

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	key := "rfps/rfp-1/spec.pdf"
	if err := storage.Save(context.Background(), key, strings.NewReader("attachment body")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	rc, err := storage.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(body) != "attachment body" {
		t.Fatalf("body = %q", body)
	}
}

func TestRejectsTraversalKeys(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for _, key := range []string{"../outside", "/etc/passwd", "."} {
		if err := storage.Save(context.Background(), key, strings.NewReader("x")); err == nil {
			t.Fatalf("expected error for key %q", key)
		}
	}
}
