package application

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/festronix-auth/internal/domain/gateway"
	"github.com/oksasatya/festronix-auth/pkg/apperror"
	"github.com/oksasatya/festronix-auth/pkg/helpers"
)

// MaxUploadBytes caps both the multipart file and any fetched or decoded image.
const MaxUploadBytes = 5 << 20

const (
	msgImageRequired = "Image required"
	msgUploadFailed  = "Upload failed"
	msgFileType      = "Only JPG, JPEG, PNG images are allowed"
	msgFileTooLarge  = "File too large"
)

var (
	allowedExt  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	allowedMIME = map[string]bool{"image/jpeg": true, "image/png": true}

	errTooLarge = errors.New("image exceeds size limit")
)

type UploadResult struct {
	URL      string `json:"imageUrl"`
	PublicID string `json:"public_id"`
}

type UploadService struct {
	Store  gateway.ImageStore
	Folder string
	HTTP   *http.Client
	Logger logrus.FieldLogger

	newID func() string
}

func NewUploadService(store gateway.ImageStore, folder string, logger logrus.FieldLogger) *UploadService {
	return &UploadService{
		Store:  store,
		Folder: folder,
		HTTP:   helpers.NewPublicHTTPClient(15 * time.Second),
		Logger: logger,
		newID:  uuid.NewString,
	}
}

// UploadImage accepts a data URI, raw base64 or an http(s) URL.
func (s *UploadService) UploadImage(ctx context.Context, image string) (*UploadResult, error) {
	image = strings.TrimSpace(image)
	if image == "" {
		return nil, apperror.Validation(msgImageRequired)
	}
	data, err := s.load(ctx, image)
	if err != nil {
		helpers.LogError(s.Logger, "image load failed", err, nil)
		return nil, apperror.Upload(msgUploadFailed, err)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return nil, apperror.Upload(msgUploadFailed, fmt.Errorf("unsupported content type %s", mt.String()))
	}
	return s.put(ctx, data, mt)
}

// UploadFile applies the multipart filter: extension and declared type must
// both be jpeg or png, and the content must sniff as one.
func (s *UploadService) UploadFile(ctx context.Context, filename, contentType string, r io.Reader) (*UploadResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	if !allowedExt[ext] || !allowedMIME[declared] {
		return nil, apperror.Validation(msgFileType)
	}
	data, err := readLimited(r)
	if errors.Is(err, errTooLarge) {
		return nil, apperror.Validation(msgFileTooLarge)
	}
	if err != nil {
		return nil, apperror.Upload(msgUploadFailed, err)
	}
	mt := mimetype.Detect(data)
	if !allowedMIME[mt.String()] {
		return nil, apperror.Validation(msgFileType)
	}
	return s.put(ctx, data, mt)
}

func (s *UploadService) put(ctx context.Context, data []byte, mt *mimetype.MIME) (*UploadResult, error) {
	publicID := path.Join(s.Folder, s.newID())
	url, err := s.Store.Put(ctx, publicID+mt.Extension(), mt.String(), data)
	if err != nil {
		helpers.LogError(s.Logger, "image store put failed", err, logrus.Fields{"public_id": publicID})
		return nil, apperror.Upload(msgUploadFailed, err)
	}
	return &UploadResult{URL: url, PublicID: publicID}, nil
}

func (s *UploadService) load(ctx context.Context, image string) ([]byte, error) {
	switch {
	case strings.HasPrefix(image, "data:"):
		return decodeDataURI(image)
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return s.fetch(ctx, image)
	default:
		return decodeBase64(image)
	}
}

func (s *UploadService) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := s.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch image: status %d", res.StatusCode)
	}
	return readLimited(res.Body)
}

// decodeDataURI handles data:<mime>;base64,<payload>.
func decodeDataURI(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errors.New("malformed data uri")
	}
	return decodeBase64(payload)
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	data, err := base64.RawStdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxUploadBytes {
		return nil, errTooLarge
	}
	return data, nil
}
