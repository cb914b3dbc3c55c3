package services

import (
	"fmt"
	"mime/multipart"

	"github.com/csas-cheick/collections-backend/utils"
)

// ImageService handles image upload and deletion against the object store
type ImageService interface {
	// UploadImage validates and uploads an image file into the given
	// folder, returning the public URL and the storage key
	UploadImage(fileHeader *multipart.FileHeader, folder string) (string, string, error)

	// DeleteImage removes an image from storage. Callers treat failures
	// as non-fatal.
	DeleteImage(key string) error
}

// S3ImageService implements ImageService using AWS S3 for storage
type S3ImageService struct {
	s3Service S3Interface
}

var imageServiceInstance ImageService

// InitImageService initializes the image service with S3 backend
func InitImageService(s3Service S3Interface) ImageService {
	imageServiceInstance = &S3ImageService{
		s3Service: s3Service,
	}
	return imageServiceInstance
}

// GetImageService returns the initialized image service instance
func GetImageService() ImageService {
	return imageServiceInstance
}

// SetImageService sets the image service instance (primarily for testing)
func SetImageService(service ImageService) {
	imageServiceInstance = service
}

// UploadImage validates and uploads an image file to S3
func (s *S3ImageService) UploadImage(fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	url, key, err := s.s3Service.UploadFile(fileHeader, folder)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}

	return url, key, nil
}

// DeleteImage deletes an image from S3
func (s *S3ImageService) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	if err := s.s3Service.DeleteFile(key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	return nil
}
