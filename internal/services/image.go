package services

import (
	"context"
	"fmt"
	"time"

	appconfig "marktx-backend/internal/config"
	"marktx-backend/internal/models"
	"marktx-backend/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ImageService handles ad image rows and S3 uploads
type ImageService struct {
	imageRepo *repository.ImageRepository
	adRepo    *repository.AdRepository
	s3Client  *s3.Client
	s3Bucket  string
	s3Region  string
}

// NewImageService creates a new image service
func NewImageService(imageRepo *repository.ImageRepository, adRepo *repository.AdRepository, cfg appconfig.AWSConfig) (*ImageService, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &ImageService{
		imageRepo: imageRepo,
		adRepo:    adRepo,
		s3Client:  s3Client,
		s3Bucket:  cfg.S3Bucket,
		s3Region:  cfg.Region,
	}, nil
}

// Add attaches an existing image URL to an ad, owner only
func (s *ImageService) Add(ctx context.Context, userID, adID, url string) (*models.Image, error) {
	owner, err := s.adRepo.IsOwner(ctx, adID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotOwner
	}

	pos, err := s.imageRepo.NextPosition(ctx, adID)
	if err != nil {
		return nil, err
	}

	img := &models.Image{
		ID:        uuid.New().String(),
		AdID:      adID,
		URL:       url,
		Position:  pos,
		CreatedAt: time.Now(),
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, err
	}
	return img, nil
}

// ListByAd retrieves the images of an ad
func (s *ImageService) ListByAd(ctx context.Context, adID string) ([]*models.Image, error) {
	return s.imageRepo.GetByAdID(ctx, adID)
}

// Delete removes an image, ad owner only
func (s *ImageService) Delete(ctx context.Context, userID, imageID string) error {
	owned, err := s.imageRepo.IsOwnedBy(ctx, imageID, userID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrNotOwner
	}
	return s.imageRepo.Delete(ctx, imageID)
}

// UploadResponse carries the pre-signed URL for a direct S3 upload
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	ImageID   string `json:"image_id"`
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"`
}

// PresignUpload generates a pre-signed S3 PUT URL for an ad image and
// creates the image row pointing at the final object URL
func (s *ImageService) PresignUpload(ctx context.Context, userID, adID, contentType string) (*UploadResponse, error) {
	owner, err := s.adRepo.IsOwner(ctx, adID, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, ErrNotOwner
	}

	imageID := uuid.New().String()
	s3Key := fmt.Sprintf("ads/%s/%s.jpg", adID, imageID)

	presignClient := s3.NewPresignClient(s.s3Client)
	request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(s3Key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = 5 * time.Minute
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	pos, err := s.imageRepo.NextPosition(ctx, adID)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, s3Key)
	img := &models.Image{
		ID:        imageID,
		AdID:      adID,
		URL:       url,
		Position:  pos,
		CreatedAt: time.Now(),
	}
	if err := s.imageRepo.Create(ctx, img); err != nil {
		return nil, fmt.Errorf("failed to create image record: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		ImageID:   imageID,
		URL:       url,
		ExpiresIn: 300,
	}, nil
}
