package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/dmitrijs2005/entrust/internal/netx"
	sc "github.com/dmitrijs2005/entrust/internal/server/config"
	"github.com/dmitrijs2005/entrust/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PresignExpiry bounds both the upload and the published download link.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	uploadToPresignedURL = netx.UploadToPresignedURL
)

// Artifact is a rendered card ready to be served or stored.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Publication is where a published card can be fetched.
type Publication struct {
	Key     string    `json:"key"`
	URL     string    `json:"url"`
	Expires time.Time `json:"expires"`
}

// CardService renders card artifacts for verified members and publishes
// them to S3-compatible storage.
type CardService struct {
	repomanager repomanager.RepositoryManager
	renderer    *card.Renderer
	config      *sc.Config
	httpClient  *http.Client
	logger      logging.Logger
}

func NewCardService(m repomanager.RepositoryManager, renderer *card.Renderer, cfg *sc.Config, logger logging.Logger) *CardService {
	return &CardService{
		repomanager: m,
		renderer:    renderer,
		config:      cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger.With("module", "cards"),
	}
}

// GetRandomStorageKey returns a date-partitioned object key for a card.
func GetRandomStorageKey(memberID string, f card.Format) string {
	d := time.Now()
	return fmt.Sprintf("cards/%d/%d/%d/%v/%s", d.Year(), d.Month(), d.Day(), uuid.New(), card.FileName(memberID, f))
}

// Export renders the artifact for id. The caller must be that member or an
// admin, and the member must be Active.
func (s *CardService) Export(ctx context.Context, caller *domain.Member, id string, f card.Format) (*Artifact, error) {
	if !caller.IsAdmin() && caller.ID != id {
		return nil, common.ErrorForbidden
	}
	m, err := s.repomanager.Members(s.repomanager.Conn()).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !m.IsActive() {
		return nil, common.ErrNotActive
	}

	var data []byte
	switch f {
	case card.FormatPNG:
		data, err = s.renderer.PNG(m, card.Options{})
	case card.FormatPDF:
		data, err = s.renderer.PDF(m, card.Options{})
	default:
		return nil, fmt.Errorf("%w: unknown format %q", common.ErrorValidation, f)
	}
	if err != nil {
		s.logger.Error(ctx, "card render failed", "id", id, "format", f, "error", err)
		return nil, fmt.Errorf("render card: %w", err)
	}

	return &Artifact{FileName: card.FileName(id, f), ContentType: f.ContentType(), Data: data}, nil
}

// Publish renders the PDF, uploads it through a presigned PUT and returns a
// presigned GET link valid for PresignExpiry.
func (s *CardService) Publish(ctx context.Context, caller *domain.Member, id string) (*Publication, error) {
	art, err := s.Export(ctx, caller, id, card.FormatPDF)
	if err != nil {
		return nil, err
	}

	key := GetRandomStorageKey(id, card.FormatPDF)
	putURL, err := s.GetPresignedPutUrl(ctx, key, art.ContentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	if err := uploadToPresignedURL(ctx, s.httpClient, putURL, art.ContentType, art.Data); err != nil {
		return nil, fmt.Errorf("upload card: %w", err)
	}

	getURL, err := s.GetPresignedGetUrl(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}

	s.logger.Info(ctx, "card published", "id", id, "key", key)
	return &Publication{Key: key, URL: getURL, Expires: time.Now().Add(PresignExpiry)}, nil
}

func (s *CardService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

func (s *CardService) GetPresignedPutUrl(ctx context.Context, key, contentType string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *CardService) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}
