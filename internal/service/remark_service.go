package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"remarkly/internal/cache"
	"remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/repository"
)

const summaryCacheTTL = 5 * time.Minute

// CreateRemarkInput carries the attributes accepted at creation time.
// Done defaults to false and the amounts to zero when absent.
type CreateRemarkInput struct {
	Name          string
	MobileNumber  string
	FromAddress   string
	ToAddress     string
	Date          time.Time
	Content       string
	Done          *bool
	TotalAmount   *decimal.Decimal
	AdvanceAmount *decimal.Decimal
	SpecialNote   string
	Priority      model.Priority
}

// UpdateRemarkInput carries a partial attribute set. Overwrite semantics
// differ per field group: string fields and Date/Priority only overwrite with
// a non-zero value, the amounts overwrite whenever supplied (including zero),
// and Done/SpecialNote overwrite whenever the key was present in the payload.
type UpdateRemarkInput struct {
	Name          *string
	MobileNumber  *string
	FromAddress   *string
	ToAddress     *string
	Date          *time.Time
	Content       *string
	Done          *bool
	TotalAmount   *decimal.Decimal
	AdvanceAmount *decimal.Decimal
	SpecialNote   *string
	Priority      *model.Priority
}

// RemarkService exposes the remark operations. Every operation is scoped to
// the calling user; mutations enforce ownership before touching the record.
type RemarkService interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateRemarkInput) (*model.Remark, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]model.Remark, error)
	ListByDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]model.Remark, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, done bool) ([]model.Remark, error)
	ListByPriority(ctx context.Context, userID uuid.UUID, priority string) ([]model.Remark, error)
	Update(ctx context.Context, userID, remarkID uuid.UUID, in UpdateRemarkInput) (*model.Remark, error)
	ToggleDone(ctx context.Context, userID, remarkID uuid.UUID) (*model.Remark, error)
	Delete(ctx context.Context, userID, remarkID uuid.UUID) error
	FinancialSummary(ctx context.Context, userID uuid.UUID) (*model.FinancialSummary, error)
}

type remarkService struct {
	repo  repository.RemarkRepository
	cache *cache.Client
}

// NewRemarkService creates a new remark service.
func NewRemarkService(repo repository.RemarkRepository, cache *cache.Client) RemarkService {
	return &remarkService{repo: repo, cache: cache}
}

func (s *remarkService) summaryCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("summary:%s", userID)
}

// Create persists a new remark owned by the caller. The pending amount is
// derived on write; done defaults to false and priority to medium.
func (s *remarkService) Create(ctx context.Context, userID uuid.UUID, in CreateRemarkInput) (*model.Remark, error) {
	remark := &model.Remark{
		UserID:       userID,
		Name:         in.Name,
		MobileNumber: in.MobileNumber,
		FromAddress:  in.FromAddress,
		ToAddress:    in.ToAddress,
		Date:         in.Date,
		Content:      in.Content,
		SpecialNote:  in.SpecialNote,
		Priority:     in.Priority,
	}
	if in.Done != nil {
		remark.Done = *in.Done
	}
	if in.TotalAmount != nil {
		remark.TotalAmount = *in.TotalAmount
	}
	if in.AdvanceAmount != nil {
		remark.AdvanceAmount = *in.AdvanceAmount
	}

	if err := s.repo.Create(ctx, remark); err != nil {
		return nil, fmt.Errorf("create remark: %w", err)
	}
	_ = s.cache.Delete(ctx, s.summaryCacheKey(userID))
	return remark, nil
}

// ListAll returns all remarks owned by the caller, newest business date first.
func (s *remarkService) ListAll(ctx context.Context, userID uuid.UUID) ([]model.Remark, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListByDay returns the caller's remarks whose business date falls inside the
// full local day, newest created first.
func (s *remarkService) ListByDay(ctx context.Context, userID uuid.UUID, day time.Time) ([]model.Remark, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.Add(24*time.Hour - time.Millisecond)
	return s.repo.ListByUserAndDateRange(ctx, userID, start, end)
}

// ListByStatus returns the caller's remarks filtered by completion state.
func (s *remarkService) ListByStatus(ctx context.Context, userID uuid.UUID, done bool) ([]model.Remark, error) {
	return s.repo.ListByUserAndDone(ctx, userID, done)
}

// ListByPriority validates the priority token before touching storage.
func (s *remarkService) ListByPriority(ctx context.Context, userID uuid.UUID, priority string) ([]model.Remark, error) {
	p := model.Priority(priority)
	if !p.Valid() {
		return nil, errors.ErrInvalidPriority
	}
	return s.repo.ListByUserAndPriority(ctx, userID, p)
}

// loadOwned fetches a remark by ID and enforces ownership. A missing record
// is not-found; a record owned by someone else is forbidden, never not-found.
func (s *remarkService) loadOwned(ctx context.Context, userID, remarkID uuid.UUID) (*model.Remark, error) {
	remark, err := s.repo.FindByID(ctx, remarkID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrRemarkNotFound
		}
		return nil, fmt.Errorf("find remark: %w", err)
	}
	if remark.UserID != userID {
		return nil, errors.ErrRemarkForbidden
	}
	return remark, nil
}

// Update applies a partial attribute set to an owned remark. The pending
// amount is recomputed only when both financial fields were supplied.
func (s *remarkService) Update(ctx context.Context, userID, remarkID uuid.UUID, in UpdateRemarkInput) (*model.Remark, error) {
	remark, err := s.loadOwned(ctx, userID, remarkID)
	if err != nil {
		return nil, err
	}

	if in.Name != nil && *in.Name != "" {
		remark.Name = *in.Name
	}
	if in.MobileNumber != nil && *in.MobileNumber != "" {
		remark.MobileNumber = *in.MobileNumber
	}
	if in.FromAddress != nil && *in.FromAddress != "" {
		remark.FromAddress = *in.FromAddress
	}
	if in.ToAddress != nil && *in.ToAddress != "" {
		remark.ToAddress = *in.ToAddress
	}
	if in.Date != nil && !in.Date.IsZero() {
		remark.Date = *in.Date
	}
	if in.Content != nil && *in.Content != "" {
		remark.Content = *in.Content
	}
	if in.Priority != nil && *in.Priority != "" {
		if !in.Priority.Valid() {
			return nil, errors.ErrInvalidPriority
		}
		remark.Priority = *in.Priority
	}
	if in.SpecialNote != nil {
		remark.SpecialNote = *in.SpecialNote
	}
	if in.TotalAmount != nil {
		remark.TotalAmount = *in.TotalAmount
	}
	if in.AdvanceAmount != nil {
		remark.AdvanceAmount = *in.AdvanceAmount
	}
	if in.Done != nil {
		remark.Done = *in.Done
	}
	if in.TotalAmount != nil && in.AdvanceAmount != nil {
		remark.PendingAmount = in.TotalAmount.Sub(*in.AdvanceAmount)
	}

	if err := s.repo.Update(ctx, remark); err != nil {
		return nil, fmt.Errorf("update remark: %w", err)
	}
	_ = s.cache.Delete(ctx, s.summaryCacheKey(userID))
	return remark, nil
}

// ToggleDone flips the completion flag of an owned remark.
func (s *remarkService) ToggleDone(ctx context.Context, userID, remarkID uuid.UUID) (*model.Remark, error) {
	remark, err := s.loadOwned(ctx, userID, remarkID)
	if err != nil {
		return nil, err
	}

	remark.Done = !remark.Done
	if err := s.repo.Update(ctx, remark); err != nil {
		return nil, fmt.Errorf("toggle remark: %w", err)
	}
	_ = s.cache.Delete(ctx, s.summaryCacheKey(userID))
	return remark, nil
}

// Delete permanently removes an owned remark.
func (s *remarkService) Delete(ctx context.Context, userID, remarkID uuid.UUID) error {
	remark, err := s.loadOwned(ctx, userID, remarkID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, remark); err != nil {
		return fmt.Errorf("delete remark: %w", err)
	}
	_ = s.cache.Delete(ctx, s.summaryCacheKey(userID))
	return nil
}

// FinancialSummary aggregates all of the caller's remarks, with caching.
func (s *remarkService) FinancialSummary(ctx context.Context, userID uuid.UUID) (*model.FinancialSummary, error) {
	if data, _ := s.cache.Get(ctx, s.summaryCacheKey(userID)); data != nil {
		var cached model.FinancialSummary
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	summary, err := s.repo.SummarizeByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("summarize remarks: %w", err)
	}

	if payload, err := json.Marshal(summary); err == nil {
		_ = s.cache.Set(ctx, s.summaryCacheKey(userID), payload, summaryCacheTTL)
	}
	return summary, nil
}
