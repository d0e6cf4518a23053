package service

import (
	"context"
	"testing"
	"time"

	"github.com/ZaneerahEssop/QUANTIX-sub001/config"
)

func TestNewMinioService(t *testing.T) {
	cfg := &config.MinioConfig{
		Endpoint:   "localhost:9000",
		AccessKey:  "minioadmin",
		SecretKey:  "minioadmin",
		Bucket:     "contracts",
		UseSSL:     false,
		ExpireDays: 7,
	}

	svc, err := NewMinioService(cfg)
	if err != nil {
		t.Fatalf("Failed to create MinIO service: %v", err)
	}
	if svc.bucket != "contracts" {
		t.Errorf("Expected bucket 'contracts', got '%s'", svc.bucket)
	}
	if svc.expiry != 7*24*time.Hour {
		t.Errorf("Expected expiry 168h, got %v", svc.expiry)
	}
}

func TestNewMinioServiceEmptyEndpoint(t *testing.T) {
	_, err := NewMinioService(&config.MinioConfig{Endpoint: ""})
	if err == nil {
		t.Error("Expected error for empty endpoint")
	}
}

func TestMinioServiceCancelledContext(t *testing.T) {
	svc, err := NewMinioService(&config.MinioConfig{
		Endpoint:  "localhost:9000",
		AccessKey: "test",
		SecretKey: "test",
		Bucket:    "test",
	})
	if err != nil {
		t.Skip("Could not create MinIO service")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := svc.PutObject(ctx, "contracts/x/contract.md", []byte("# x"), "text/markdown"); err == nil {
		t.Error("Expected error with cancelled context")
	}
	if err := svc.EnsureBucket(ctx); err == nil {
		t.Error("Expected error with cancelled context")
	}
}

func TestMinioServiceImplementsObjectStorage(t *testing.T) {
	var _ ObjectStorage = (*MinioService)(nil)
}
