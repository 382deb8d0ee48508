// Mercatus - Marketplace Directory Aggregation and Storefront API
// Copyright 2026 Mercatus Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/mercatushq/mercatus

// Package onboarding implements the seller flows: claiming an existing
// listing and creating a new one, with validation that blocks submission
// before any upstream call and media uploads sequenced ahead of record
// creation.
package onboarding

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/mercatushq/mercatus/internal/config"
	"github.com/mercatushq/mercatus/internal/directory"
	"github.com/mercatushq/mercatus/internal/models"
)

// MediaStore uploads seller media and returns the stored asset. Two
// backends exist: the directory system's own media endpoint (default) and
// Cloudinary.
type MediaStore interface {
	Upload(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error)
}

// DirectoryMediaStore stores media through the directory write API.
type DirectoryMediaStore struct {
	writer directory.Writer
}

// NewDirectoryMediaStore creates the default media store.
func NewDirectoryMediaStore(writer directory.Writer) *DirectoryMediaStore {
	return &DirectoryMediaStore{writer: writer}
}

// Upload implements MediaStore.
func (s *DirectoryMediaStore) Upload(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error) {
	return s.writer.UploadMedia(ctx, file)
}

// CloudinaryMediaStore stores media in Cloudinary.
type CloudinaryMediaStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryMediaStore creates a Cloudinary-backed store from the
// cloudinary:// credential URL in configuration.
func NewCloudinaryMediaStore(cfg *config.MediaConfig) (*CloudinaryMediaStore, error) {
	cld, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}
	return &CloudinaryMediaStore{cld: cld, folder: cfg.Folder}, nil
}

// Upload implements MediaStore.
func (s *CloudinaryMediaStore) Upload(ctx context.Context, file *models.UploadFile) (*models.MediaAsset, error) {
	result, err := s.cld.Upload.Upload(ctx, bytes.NewReader(file.Data), uploader.UploadParams{
		Folder: s.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	return &models.MediaAsset{ID: result.PublicID, URL: result.SecureURL}, nil
}

// NewMediaStore selects the backend from configuration.
func NewMediaStore(cfg *config.MediaConfig, writer directory.Writer) (MediaStore, error) {
	switch cfg.Backend {
	case "cloudinary":
		return NewCloudinaryMediaStore(cfg)
	default:
		return NewDirectoryMediaStore(writer), nil
	}
}
