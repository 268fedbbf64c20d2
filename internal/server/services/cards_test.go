package services

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/entrust/internal/card"
	"github.com/dmitrijs2005/entrust/internal/common"
	"github.com/dmitrijs2005/entrust/internal/logging"
	domain "github.com/dmitrijs2005/entrust/internal/members"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardService(t *testing.T) (*CardService, *MemberService) {
	t.Helper()
	ms, rm := newMemberService(t)
	r, err := card.NewRenderer()
	require.NoError(t, err)
	return NewCardService(rm, r, testConfig(), logging.Nop{}), ms
}

func TestCardService_Export(t *testing.T) {
	s, ms := newCardService(t)
	ctx := context.Background()
	m := register(t, ms, "COT-6001", "9000000001", "pw")

	_, err := s.Export(ctx, m, m.ID, card.FormatPNG)
	assert.ErrorIs(t, err, common.ErrNotActive)

	_, err = ms.SetStatus(ctx, adminCaller(), m.ID, domain.StatusActive)
	require.NoError(t, err)

	other := &domain.Member{ID: "COT-6002", Role: domain.RoleMember}
	_, err = s.Export(ctx, other, m.ID, card.FormatPNG)
	assert.ErrorIs(t, err, common.ErrorForbidden)

	png, err := s.Export(ctx, m, m.ID, card.FormatPNG)
	require.NoError(t, err)
	assert.Equal(t, "ENTRUST-CARD-COT-6001.png", png.FileName)
	assert.Equal(t, "image/png", png.ContentType)
	assert.True(t, bytes.HasPrefix(png.Data, []byte("\x89PNG")))

	pdf, err := s.Export(ctx, adminCaller(), m.ID, card.FormatPDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF-")))

	_, err = s.Export(ctx, adminCaller(), "COT-9999", card.FormatPDF)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func stubPresign(t *testing.T) {
	t.Helper()
	origLoad, origPut, origGet, origUpload := loadDefaultAWSConfig, presignPutObject, presignGetObject, uploadToPresignedURL
	t.Cleanup(func() {
		loadDefaultAWSConfig, presignPutObject, presignGetObject, uploadToPresignedURL = origLoad, origPut, origGet, origUpload
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{Region: "us-east-1"}, nil
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/put/" + *in.Key}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return &v4.PresignedHTTPRequest{URL: "https://s3.local/get/" + *in.Key}, nil
	}
}

func TestCardService_Publish(t *testing.T) {
	s, ms := newCardService(t)
	ctx := context.Background()
	m := register(t, ms, "COT-6001", "9000000001", "pw")
	_, err := ms.SetStatus(ctx, adminCaller(), m.ID, domain.StatusActive)
	require.NoError(t, err)

	stubPresign(t)

	var uploadedTo, uploadedType string
	var uploaded []byte
	uploadToPresignedURL = func(ctx context.Context, client *http.Client, url, contentType string, body []byte) error {
		uploadedTo, uploadedType, uploaded = url, contentType, body
		return nil
	}

	pub, err := s.Publish(ctx, m, m.ID)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pub.Key, "cards/"))
	assert.True(t, strings.HasSuffix(pub.Key, "/ENTRUST-CARD-COT-6001.pdf"))
	assert.Equal(t, "https://s3.local/put/"+pub.Key, uploadedTo)
	assert.Equal(t, "https://s3.local/get/"+pub.Key, pub.URL)
	assert.Equal(t, "application/pdf", uploadedType)
	assert.True(t, bytes.HasPrefix(uploaded, []byte("%PDF-")))
}

func TestCardService_Publish_UploadError(t *testing.T) {
	s, ms := newCardService(t)
	ctx := context.Background()
	m := register(t, ms, "COT-6001", "9000000001", "pw")
	_, _ = ms.SetStatus(ctx, adminCaller(), m.ID, domain.StatusActive)

	stubPresign(t)
	uploadToPresignedURL = func(context.Context, *http.Client, string, string, []byte) error {
		return errors.New("connection reset")
	}

	_, err := s.Publish(ctx, m, m.ID)
	require.ErrorContains(t, err, "connection reset")
}

func TestCardService_getPresignClient_AppliesConfig(t *testing.T) {
	s, _ := newCardService(t)

	origLoad, origNewS3 := loadDefaultAWSConfig, newS3ClientFromConfig
	t.Cleanup(func() { loadDefaultAWSConfig, newS3ClientFromConfig = origLoad, origNewS3 })

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "us-east-1", lo.Region)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &s3.Client{}
	}

	pc, err := s.getPresignClient(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, pc)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)
}

func TestCardService_PresignErrors(t *testing.T) {
	s, _ := newCardService(t)

	orig := loadDefaultAWSConfig
	t.Cleanup(func() { loadDefaultAWSConfig = orig })
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}

	_, err := s.GetPresignedPutUrl(context.Background(), "k", "application/pdf")
	require.EqualError(t, err, "load-fail")
	_, err = s.GetPresignedGetUrl(context.Background(), "k")
	require.EqualError(t, err, "load-fail")
}
