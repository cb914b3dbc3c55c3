package services

import (
	"fmt"
	"mime/multipart"
	"sync"
)

// MockS3Service is a mock implementation of S3Interface for testing
type MockS3Service struct {
	objects map[string][]byte
	fail    bool
	mu      sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// Fail makes every subsequent call return an error
func (m *MockS3Service) Fail(fail bool) {
	m.mu.Lock()
	m.fail = fail
	m.mu.Unlock()
}

// UploadFile simulates storing an object and returns a mock URL and key
func (m *MockS3Service) UploadFile(fileHeader *multipart.FileHeader, folder string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return "", "", fmt.Errorf("mock S3 failure")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, fileHeader.Size)
	if _, err := file.Read(content); err != nil {
		return "", "", fmt.Errorf("failed to read file: %w", err)
	}

	key := fmt.Sprintf("%s/%s_%s", folder, folder, fileHeader.Filename)
	m.objects[key] = content

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key), key, nil
}

// DeleteFile simulates deleting an object
func (m *MockS3Service) DeleteFile(key string) error {
	if key == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail {
		return fmt.Errorf("mock S3 failure")
	}

	delete(m.objects, key)
	return nil
}

// ObjectExists checks if an object exists in mock storage
func (m *MockS3Service) ObjectExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[key]
	return exists
}
