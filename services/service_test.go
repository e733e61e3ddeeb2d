package services

import (
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/anuragkumar-code/snapengine-v2/db"
	"github.com/anuragkumar-code/snapengine-v2/models"
	"github.com/anuragkumar-code/snapengine-v2/storage"
)

// fakeStore is an in-memory StorageAPI that records saves and deletes.
type fakeStore struct {
	mutex   sync.Mutex
	files   map[string]bool
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{files: map[string]bool{}}
}

func (s *fakeStore) GetFullPath(path string) string { return "/fake/" + path }

func (s *fakeStore) Save(path string, reader io.Reader) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	n, err := io.Copy(io.Discard, reader)
	if err != nil {
		return 0, err
	}
	s.files[path] = true
	return n, nil
}

func (s *fakeStore) Load(path string, writer io.Writer) (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if !s.files[path] {
		return 0, fmt.Errorf("no such file: %s", path)
	}
	return 0, nil
}

func (s *fakeStore) Serve(path string, request *http.Request, writer http.ResponseWriter) {}

func (s *fakeStore) Delete(path string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.files, path)
	s.deleted = append(s.deleted, path)
	return nil
}

func (s *fakeStore) GetTotalSpace() uint64 { return 0 }
func (s *fakeStore) GetFreeSpace() uint64  { return 0 }

func testServices(t *testing.T) (*AlbumService, *PhotoService, *fakeStore, *gorm.DB) {
	t.Helper()
	dbInstance, err := db.Connect("", ":memory:")
	if err != nil {
		t.Fatalf("cannot open test database: %v", err)
	}
	if err = models.Init(dbInstance); err != nil {
		t.Fatalf("cannot migrate test database: %v", err)
	}
	store := newFakeStore()
	albums := NewAlbumService(dbInstance, store)
	photos := NewPhotoService(dbInstance, store, albums)
	return albums, photos, store, dbInstance
}

func createTestUser(t *testing.T, dbInstance *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{Name: email, Email: email}
	if err := dbInstance.Create(&user).Error; err != nil {
		t.Fatalf("cannot create test user: %v", err)
	}
	return &user
}

func createTestAlbum(t *testing.T, albums *AlbumService, userID uint64, title string) *models.Album {
	t.Helper()
	album, err := albums.CreateAlbum(userID, CreateAlbumInput{Title: title})
	if err != nil {
		t.Fatalf("cannot create test album: %v", err)
	}
	return album
}

// addTestPhotos registers count photos through the regular add path, with
// matched derivative records so none are skipped.
func addTestPhotos(t *testing.T, photos *PhotoService, store *fakeStore, albumID, userID uint64, count int) []models.Photo {
	t.Helper()
	files := make([]UploadedFile, 0, count)
	derivatives := make([]DerivativeRecord, 0, count)
	for i := 0; i < count; i++ {
		name := fmt.Sprintf("photo-%d-%d.jpg", albumID, i)
		record := DerivativeRecord{
			Filename:     name,
			OriginalPath: storage.PhotoPath(userID, albumID, storage.VariantOriginal, name),
			MediumPath:   storage.PhotoPath(userID, albumID, storage.VariantMedium, name),
			ThumbPath:    storage.PhotoPath(userID, albumID, storage.VariantThumb, name),
			Width:        800,
			Height:       600,
		}
		for _, path := range []string{record.OriginalPath, record.MediumPath, record.ThumbPath} {
			store.files[path] = true
		}
		files = append(files, UploadedFile{
			Filename:     name,
			OriginalName: name,
			Size:         1000,
			MimeType:     "image/jpeg",
		})
		derivatives = append(derivatives, record)
	}
	created, err := photos.AddPhotos(albumID, userID, files, derivatives, PhotoMeta{})
	if err != nil {
		t.Fatalf("cannot add test photos: %v", err)
	}
	if len(created) != count {
		t.Fatalf("added %d photos, want %d", len(created), count)
	}
	return created
}

// acceptedShare shares the album and accepts it as the recipient.
func acceptedShare(t *testing.T, albums *AlbumService, albumID, ownerID, recipientID uint64, permissions *models.SharePermissions) *models.AlbumShare {
	t.Helper()
	share, err := albums.ShareAlbum(albumID, ownerID, ShareAlbumInput{
		SharedWith:  recipientID,
		Permissions: permissions,
	})
	if err != nil {
		t.Fatalf("cannot share test album: %v", err)
	}
	share, err = albums.RespondToShare(share.ID, recipientID, models.ShareStatusAccepted)
	if err != nil {
		t.Fatalf("cannot accept test share: %v", err)
	}
	return share
}
