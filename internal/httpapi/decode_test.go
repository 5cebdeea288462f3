package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestDecodeBase64ImageDataURI(t *testing.T) {
	if _, err := decodeBase64Image("data:image/png;base64"); err == nil {
		t.Fatalf("expected error for data URI without payload")
	}
}

func TestFetchImageRejectsRelativeURL(t *testing.T) {
	_, err := fetchImage(context.Background(), "/local/file.png")
	if statusForError(err) != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestLoadImageFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "x.png")
	if err := os.WriteFile(p, pngBytes(t, 6, 2), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	img, err := LoadImageFile(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if img.Width() != 6 || img.Height() != 2 {
		t.Fatalf("size %dx%d", img.Width(), img.Height())
	}
	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("nope"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadImageFile(bad); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := LoadImageFile(filepath.Join(dir, "missing.png")); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestFetchImageBlocksPrivateHosts(t *testing.T) {
	var hits int
	img := pngBytes(t, 2, 2)
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write(img)
	}))
	defer src.Close()

	_, err := fetchImage(context.Background(), src.URL+"/x.png")
	if statusForError(err) != http.StatusBadRequest || hits != 0 {
		t.Fatalf("expected loopback fetch to be refused, err=%v hits=%d", err, hits)
	}

	SetAllowPrivateImageURLs(true)
	defer SetAllowPrivateImageURLs(false)
	if _, err := fetchImage(context.Background(), src.URL+"/x.png"); err != nil {
		t.Fatalf("expected fetch with private hosts allowed: %v", err)
	}
}

func TestGuardImageDial(t *testing.T) {
	blocked := []string{"127.0.0.1:80", "10.1.2.3:80", "192.168.0.10:443", "169.254.169.254:80", "[::1]:80", "0.0.0.0:80"}
	for _, addr := range blocked {
		if err := guardImageDial("tcp", addr, nil); !errors.Is(err, errPrivateImageHost) {
			t.Fatalf("%s: expected block, got %v", addr, err)
		}
	}
	if err := guardImageDial("tcp", "93.184.216.34:443", nil); err != nil {
		t.Fatalf("public address blocked: %v", err)
	}
	if blockedImageIP(net.ParseIP("8.8.8.8")) {
		t.Fatalf("8.8.8.8 should be public")
	}
}
