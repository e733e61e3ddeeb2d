package storage

import (
	"fmt"
	"io"
	"net/http"
)

// StorageAPI is the asset store contract. Implementations keep the three
// derivative files per photo and nothing else; all bookkeeping lives in the
// database.
type StorageAPI interface {
	// GetFullPath resolves a store path to a local filesystem path
	// (a scratch copy in the S3 case)
	GetFullPath(path string) string
	Save(path string, reader io.Reader) (int64, error)
	Load(path string, writer io.Writer) (int64, error)
	Serve(path string, request *http.Request, writer http.ResponseWriter)
	// Delete is idempotent: removing a missing path is not an error
	Delete(path string) error
	GetTotalSpace() uint64
	GetFreeSpace() uint64
}

const (
	VariantOriginal = "original"
	VariantMedium   = "medium"
	VariantThumb    = "thumb"
)

// PhotoPath builds the store path for one derivative of a photo. Paths are
// namespaced by user and album:
//   - user/3/album/7/original/ab12cd.jpg
//   - user/3/album/7/thumb/ab12cd.jpg
func PhotoPath(userID, albumID uint64, variant, filename string) string {
	return fmt.Sprintf("user/%d/album/%d/%s/%s", userID, albumID, variant, filename)
}
