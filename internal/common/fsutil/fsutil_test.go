package fsutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestExpandHome(t *testing.T) {
	// Set a deterministic HOME for the duration of this test so we never skip.
	origHome, hadHome := os.LookupEnv("HOME")
	origUserProfile, hadUserProfile := os.LookupEnv("USERPROFILE")
	t.Cleanup(func() {
		if hadHome {
			_ = os.Setenv("HOME", origHome)
		} else {
			_ = os.Unsetenv("HOME")
		}
		if hadUserProfile {
			_ = os.Setenv("USERPROFILE", origUserProfile)
		} else {
			_ = os.Unsetenv("USERPROFILE")
		}
	})

	home := t.TempDir()
	// Configure both env vars for cross-platform behavior of os.UserHomeDir.
	_ = os.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		_ = os.Setenv("USERPROFILE", home)
	}
	// raw path unaffected
	if got, err := ExpandHome("/tmp"); err != nil || got != "/tmp" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// empty path
	if got, err := ExpandHome(""); err != nil || got != "" {
		t.Fatalf("got %q err=%v", got, err)
	}
	// ~ expansion
	p, err := ExpandHome("~")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if p != home {
		t.Fatalf("expected %q, got %q", home, p)
	}
	// ~/subdir
	sub := "test-sub"
	exp, err := ExpandHome("~/" + sub)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if runtime.GOOS == "windows" {
		if filepath.Base(exp) != sub {
			t.Fatalf("unexpected expanded path: %q", exp)
		}
	} else {
		expected := filepath.Join(home, sub)
		if exp != expected {
			t.Fatalf("expected %q, got %q", expected, exp)
		}
	}
}

func TestPathExists(t *testing.T) {
	dir := t.TempDir()
	if !PathExists(dir) {
		t.Fatalf("expected temp dir to exist")
	}
	if PathExists(filepath.Join(dir, "nope.onnx")) {
		t.Fatalf("expected missing file to not exist")
	}
}

func TestJoinModelPath(t *testing.T) {
	cases := []struct {
		dir, name, want string
	}{
		{"./ml/model/", "best.pt", filepath.Join("ml", "model", "best.pt")},
		{"./ml/model", "best.pt", filepath.Join("ml", "model", "best.pt")},
		{"/srv/models", "yolo.onnx", "/srv/models/yolo.onnx"},
		{"/ignored", "/abs/model.onnx", "/abs/model.onnx"},
	}
	for _, tc := range cases {
		got, err := JoinModelPath(tc.dir, tc.name)
		if err != nil {
			t.Fatalf("JoinModelPath(%q, %q): %v", tc.dir, tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("JoinModelPath(%q, %q) = %q, want %q", tc.dir, tc.name, got, tc.want)
		}
	}
	if _, err := JoinModelPath("/srv", ""); err == nil {
		t.Fatalf("expected error for empty name")
	}
}
