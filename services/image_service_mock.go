package services

import (
	"fmt"
	"mime/multipart"
	"sync"

	"github.com/csas-cheick/collections-backend/utils"
)

// MockImageService is a mock implementation of ImageService for testing
type MockImageService struct {
	uploadedImages map[string]string // key -> folder
	failUploads    bool
	failDeletes    bool
	deletedKeys    []string
	mu             sync.RWMutex
}

// NewMockImageService creates a new mock image service
func NewMockImageService() *MockImageService {
	return &MockImageService{
		uploadedImages: make(map[string]string),
	}
}

// SetAsMockForTesting sets this mock as the global image service instance for testing
func (m *MockImageService) SetAsMockForTesting() {
	SetImageService(m)
}

// FailUploads makes every subsequent UploadImage call return an error
func (m *MockImageService) FailUploads(fail bool) {
	m.mu.Lock()
	m.failUploads = fail
	m.mu.Unlock()
}

// FailDeletes makes every subsequent DeleteImage call return an error
func (m *MockImageService) FailDeletes(fail bool) {
	m.mu.Lock()
	m.failDeletes = fail
	m.mu.Unlock()
}

// UploadImage simulates uploading an image
func (m *MockImageService) UploadImage(fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return "", "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUploads {
		return "", "", fmt.Errorf("mock upload failure")
	}

	key := fmt.Sprintf("%s/%s_mock_%d", folder, folder, len(m.uploadedImages)+1)
	m.uploadedImages[key] = folder

	url := fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key)
	return url, key, nil
}

// DeleteImage simulates deleting an image
func (m *MockImageService) DeleteImage(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDeletes {
		return fmt.Errorf("mock delete failure")
	}

	delete(m.uploadedImages, key)
	m.deletedKeys = append(m.deletedKeys, key)
	return nil
}

// UploadCount returns how many images are currently stored (for assertions)
func (m *MockImageService) UploadCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploadedImages)
}

// DeletedKeys returns the keys passed to DeleteImage (for assertions)
func (m *MockImageService) DeletedKeys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, len(m.deletedKeys))
	copy(keys, m.deletedKeys)
	return keys
}

// ImageExists checks if an image exists in mock storage
func (m *MockImageService) ImageExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.uploadedImages[key]
	return exists
}

// Clear removes all images from mock storage
func (m *MockImageService) Clear() {
	m.mu.Lock()
	m.uploadedImages = make(map[string]string)
	m.deletedKeys = nil
	m.failUploads = false
	m.failDeletes = false
	m.mu.Unlock()
}
