package storage

import (
	"bytes"
	"strings"
	"testing"
)

func TestDiskStorage_SaveLoadDelete(t *testing.T) {
	store := NewDiskStorage(t.TempDir())
	path := PhotoPath(1, 2, VariantOriginal, "abc.jpg")

	written, err := store.Save(path, strings.NewReader("photo bytes"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if written != int64(len("photo bytes")) {
		t.Errorf("Save() wrote %d bytes, want %d", written, len("photo bytes"))
	}

	out := &bytes.Buffer{}
	read, err := store.Load(path, out)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if read != written || out.String() != "photo bytes" {
		t.Errorf("Load() = %q (%d bytes), want %q", out.String(), read, "photo bytes")
	}

	if err = store.Delete(path); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err = store.Load(path, &bytes.Buffer{}); err == nil {
		t.Error("Load() succeeded after Delete()")
	}
}

func TestDiskStorage_DeleteMissingIsNotAnError(t *testing.T) {
	store := NewDiskStorage(t.TempDir())
	if err := store.Delete("user/1/album/1/thumb/never-existed.jpg"); err != nil {
		t.Errorf("Delete() of missing file = %v, want nil", err)
	}
}

func TestPhotoPath(t *testing.T) {
	got := PhotoPath(3, 7, VariantThumb, "ab12cd.jpg")
	want := "user/3/album/7/thumb/ab12cd.jpg"
	if got != want {
		t.Errorf("PhotoPath() = %v, want %v", got, want)
	}
}
