package repository

import (
	"context"

	"github.com/garnizeh/weboff/pkg/models"
)

// Repository interfaces for locally stored entities. Project data is never stored here; it lives
// in the CMS and is read through pkg/strapi.

type InquiryRepo interface {
	CreateInquiry(ctx context.Context, in *models.Inquiry) (int64, error)
	UpdateInquiryStatus(ctx context.Context, id int64, status, lastError string) error
	GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error)
	ListInquiries(ctx context.Context, limit, offset int) ([]models.Inquiry, error)
	CountInquiriesByStatus(ctx context.Context, status string) (int64, error)
}
