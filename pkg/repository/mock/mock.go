package mock

import (
	"context"
	"sort"
	"sync"

	"github.com/garnizeh/weboff/pkg/models"
	"github.com/garnizeh/weboff/pkg/repository"
)

var _ repository.InquiryRepo = (*InquiryRepo)(nil)

// InquiryRepo keeps inquiries in memory. Setting CreateErr or UpdateErr makes the matching call fail.
type InquiryRepo struct {
	CreateErr error
	UpdateErr error

	mu     sync.Mutex
	nextID int64
	stored map[int64]models.Inquiry
}

func NewInquiryRepo() *InquiryRepo {
	return &InquiryRepo{stored: make(map[int64]models.Inquiry)}
}

func (m *InquiryRepo) CreateInquiry(ctx context.Context, in *models.Inquiry) (int64, error) {
	if m.CreateErr != nil {
		return 0, m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	in.ID = m.nextID
	m.stored[in.ID] = *in
	return in.ID, nil
}

func (m *InquiryRepo) UpdateInquiryStatus(ctx context.Context, id int64, status, lastError string) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.stored[id]
	if !ok {
		return nil
	}
	in.Status, in.LastError = status, lastError
	m.stored[id] = in
	return nil
}

func (m *InquiryRepo) GetInquiry(ctx context.Context, id int64) (*models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in, ok := m.stored[id]; ok {
		return &in, nil
	}
	return nil, nil
}

func (m *InquiryRepo) ListInquiries(ctx context.Context, limit, offset int) ([]models.Inquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Inquiry, 0, len(m.stored))
	for _, in := range m.stored {
		out = append(out, in)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *InquiryRepo) CountInquiriesByStatus(ctx context.Context, status string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, in := range m.stored {
		if in.Status == status {
			n++
		}
	}
	return n, nil
}
