package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dece1st/LLM-Based-Text-Editor/internal/common"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/dbx"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/netx"
	sc "github.com/Dece1st/LLM-Based-Text-Editor/internal/server/config"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/models"
	"github.com/Dece1st/LLM-Based-Text-Editor/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// DownloadPrice is the flat token price of exporting locked text.
const DownloadPrice = 5

const presignValidity = 15 * time.Minute

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

	uploadToPresignedURL = netx.UploadToS3PresignedURL
)

// DocumentService exports locked corrected text to object storage and hands
// out presigned download URLs. The flat token debit happens before the
// upload; an insufficient balance cancels the export.
type DocumentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewDocumentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *DocumentService {
	return &DocumentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func getRandomStorageKey(clientID string) string {
	d := time.Now()
	return fmt.Sprintf("exports/%s/%d/%d/%d/%v.txt", clientID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *DocumentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
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
	})

	return newS3PresignClient(client), nil
}

// Export charges the flat download price, uploads the text, records the
// document row, and returns a presigned GET URL. The debit and the document
// row share a transaction; a failed upload rolls the charge back. Only the
// paid tier is charged.
func (s *DocumentService) Export(ctx context.Context, clientID string, tier models.Tier, text string) (*models.DocumentDownload, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	key := getRandomStorageKey(clientID)

	putReq, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, common.ErrorInternal
	}

	document := &models.Document{
		ID:         uuid.New().String(),
		ClientID:   clientID,
		StorageKey: key,
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if tier == models.TierPaid {
			if err := s.repomanager.Ledger(tx).ApplyDelta(ctx, clientID, -DownloadPrice, DownloadPrice); err != nil {
				return err
			}
		}
		if err := s.repomanager.Documents(tx).Create(ctx, document); err != nil {
			return err
		}
		return uploadToPresignedURL(putReq.URL, []byte(text))
	}); err != nil {
		// A refused debit cancels the export; the caller sees the balance
		// condition, not the ledger internals.
		if errors.Is(err, common.ErrInvariantViolation) || errors.Is(err, common.ErrInsufficientTokens) {
			return nil, common.ErrInsufficientTokens
		}
		return nil, fmt.Errorf("error exporting document: %v", err)
	}

	getReq, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.DocumentDownload{
		DocumentID: document.ID,
		URL:        getReq.URL,
		ExpiresAt:  time.Now().Add(presignValidity),
	}, nil
}

// DownloadURL re-issues a presigned GET URL for an existing document owned
// by the client. No additional charge applies.
func (s *DocumentService) DownloadURL(ctx context.Context, clientID, documentID string) (*models.DocumentDownload, error) {
	document, err := s.repomanager.Documents(s.db).GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if document.ClientID != clientID {
		return nil, common.ErrorNotFound
	}

	presignClient, err := s.getPresignClient()
	if err != nil {
		return nil, common.ErrorInternal
	}

	bucket := s.config.S3Bucket
	getReq, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &document.StorageKey,
	}, s3.WithPresignExpires(presignValidity))
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &models.DocumentDownload{
		DocumentID: document.ID,
		URL:        getReq.URL,
		ExpiresAt:  time.Now().Add(presignValidity),
	}, nil
}

// ListDocuments returns a client's exported documents, newest first.
func (s *DocumentService) ListDocuments(ctx context.Context, clientID string, limit int) ([]models.Document, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repomanager.Documents(s.db).ListByClient(ctx, clientID, limit)
}
