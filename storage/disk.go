package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	// BasePath is a directory that is writable by the current process
	BasePath  string
	dirs      map[string]bool
	dirsMutex sync.Mutex
}

func NewDiskStorage(basePath string) *DiskStorage {
	return &DiskStorage{
		BasePath: basePath,
		dirs:     make(map[string]bool, 10),
	}
}

func (s *DiskStorage) createDir(dir string) error {
	s.dirsMutex.Lock()
	defer s.dirsMutex.Unlock()

	if ok := s.dirs[dir]; ok {
		return nil
	}
	s.dirs[dir] = true
	return os.MkdirAll(dir, 0777)
}

func (s *DiskStorage) GetFullPath(path string) string {
	return s.BasePath + "/" + path
}

func (s *DiskStorage) Save(path string, reader io.Reader) (int64, error) {
	fileName := s.GetFullPath(path)
	if err := s.createDir(filepath.Dir(fileName)); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	file.Close()
	return result, err
}

func (s *DiskStorage) Load(path string, writer io.Writer) (int64, error) {
	fileName := s.GetFullPath(path)
	file, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(writer, file)
	file.Close()
	return result, err
}

func (s *DiskStorage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	fileName := s.GetFullPath(path)
	http.ServeFile(writer, request, fileName)
}

func (s *DiskStorage) Delete(path string) error {
	err := os.Remove(s.GetFullPath(path))
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *DiskStorage) GetTotalSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Blocks * uint64(stat.Bsize)
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}
