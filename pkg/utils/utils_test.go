package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestFindAudioFiles(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "Artist", "Album", "01.mp3"))
	touch(t, filepath.Join(dir, "Artist", "Album", "02.FLAC"))
	touch(t, filepath.Join(dir, "Artist", "Album", "cover.jpg"))
	touch(t, filepath.Join(dir, "loose.ogg"))

	files, err := FindAudioFiles(dir)
	if err != nil {
		t.Fatalf("FindAudioFiles failed: %v", err)
	}
	want := []string{
		filepath.Join(dir, "Artist", "Album", "01.mp3"),
		filepath.Join(dir, "Artist", "Album", "02.FLAC"),
		filepath.Join(dir, "loose.ogg"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("files = %v, want %v", files, want)
	}
}

func TestFindAudioFilesErrors(t *testing.T) {
	if _, err := FindAudioFiles(""); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := FindAudioFiles("/nonexistent/music"); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestGroupByDir(t *testing.T) {
	dirs, groups := GroupByDir([]string{"/m/b/1.mp3", "/m/a/1.mp3", "/m/b/2.mp3"})
	if !reflect.DeepEqual(dirs, []string{"/m/a", "/m/b"}) {
		t.Errorf("dirs = %v", dirs)
	}
	if !reflect.DeepEqual(groups["/m/b"], []string{"/m/b/1.mp3", "/m/b/2.mp3"}) {
		t.Errorf("groups[/m/b] = %v", groups["/m/b"])
	}
}
