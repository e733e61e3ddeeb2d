package storage

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignFor = 15 * time.Minute

type S3Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional, for S3-compatible services
	Key      string
	Secret   string
	// TmpDir is scratch space for GetFullPath consumers
	TmpDir string
}

type S3Storage struct {
	cfg      S3Config
	s3Client *s3.S3
}

func NewS3Storage(cfg S3Config) (*S3Storage, error) {
	awsConfig := aws.Config{
		Region:      aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(cfg.Key, cfg.Secret, ""),
	}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(&awsConfig)
	if err != nil {
		return nil, err
	}
	return &S3Storage{cfg: cfg, s3Client: s3.New(sess)}, nil
}

// GetFullPath returns a local temp path in case of S3
func (s *S3Storage) GetFullPath(path string) string {
	return s.cfg.TmpDir + "/" + strings.ReplaceAll(path, "/", "_")
}

func (s *S3Storage) Save(path string, reader io.Reader) (int64, error) {
	counter := &countingReader{reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	_, err := uploader.Upload(&s3manager.UploadInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(path),
		Body:   counter,
	})
	if err != nil {
		return 0, err
	}
	return counter.total, nil
}

func (s *S3Storage) Load(path string, writer io.Writer) (int64, error) {
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

func (s *S3Storage) Serve(path string, request *http.Request, writer http.ResponseWriter) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(path),
	})
	url, err := req.Presign(presignFor)
	if err != nil {
		http.Error(writer, "storage error", http.StatusInternalServerError)
		return
	}
	http.Redirect(writer, request, url, http.StatusTemporaryRedirect)
}

func (s *S3Storage) Delete(path string) error {
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		// S3 deletes are idempotent already, but some compatible services
		// answer NoSuchKey
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil
		}
	}
	return err
}

func (s *S3Storage) GetTotalSpace() uint64 { return 0 }
func (s *S3Storage) GetFreeSpace() uint64  { return 0 }

type countingReader struct {
	reader io.Reader
	total  int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.reader.Read(p)
	c.total += int64(n)
	return n, err
}
