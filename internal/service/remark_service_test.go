package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"remarkly/internal/errors"
	"remarkly/internal/model"
)

// MockRemarkRepository is a mock implementation of RemarkRepository.
type MockRemarkRepository struct {
	mock.Mock
}

func (m *MockRemarkRepository) Create(ctx context.Context, remark *model.Remark) error {
	args := m.Called(ctx, remark)
	return args.Error(0)
}

func (m *MockRemarkRepository) Update(ctx context.Context, remark *model.Remark) error {
	args := m.Called(ctx, remark)
	return args.Error(0)
}

func (m *MockRemarkRepository) Delete(ctx context.Context, remark *model.Remark) error {
	args := m.Called(ctx, remark)
	return args.Error(0)
}

func (m *MockRemarkRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Remark, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Remark), args.Error(1)
}

func (m *MockRemarkRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Remark, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

func (m *MockRemarkRepository) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]model.Remark, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

func (m *MockRemarkRepository) ListByUserAndDone(ctx context.Context, userID uuid.UUID, done bool) ([]model.Remark, error) {
	args := m.Called(ctx, userID, done)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

func (m *MockRemarkRepository) ListByUserAndPriority(ctx context.Context, userID uuid.UUID, priority model.Priority) ([]model.Remark, error) {
	args := m.Called(ctx, userID, priority)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Remark), args.Error(1)
}

func (m *MockRemarkRepository) SummarizeByUser(ctx context.Context, userID uuid.UUID) (*model.FinancialSummary, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FinancialSummary), args.Error(1)
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestRemarkService_Create_Defaults(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockRemarkRepository)

	var created *model.Remark
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Remark")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.Remark)
		}).Return(nil)

	service := NewRemarkService(mockRepo, nil)
	remark, err := service.Create(context.Background(), userID, CreateRemarkInput{
		Date:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local),
		Content: "call the customer",
	})

	assert.NoError(t, err)
	assert.Equal(t, userID, created.UserID)
	assert.False(t, created.Done)
	assert.True(t, created.TotalAmount.IsZero())
	assert.True(t, created.AdvanceAmount.IsZero())
	assert.Equal(t, remark, created)
	mockRepo.AssertExpectations(t)
}

func TestRemarkService_Create_ExplicitValues(t *testing.T) {
	userID := uuid.New()
	mockRepo := new(MockRemarkRepository)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Remark")).Return(nil)

	service := NewRemarkService(mockRepo, nil)
	remark, err := service.Create(context.Background(), userID, CreateRemarkInput{
		Date:          time.Now(),
		Content:       "delivery",
		Done:          boolPtr(true),
		TotalAmount:   dec(2000),
		AdvanceAmount: dec(500),
		Priority:      model.PriorityHigh,
	})

	assert.NoError(t, err)
	assert.True(t, remark.Done)
	assert.True(t, remark.TotalAmount.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, model.PriorityHigh, remark.Priority)
}

func TestRemarkService_OwnershipPattern(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	remarkID := uuid.New()

	tests := []struct {
		name          string
		caller        uuid.UUID
		setupMock     func(*MockRemarkRepository)
		expectedError error
	}{
		{
			name:   "missing remark is not found",
			caller: owner,
			setupMock: func(m *MockRemarkRepository) {
				m.On("FindByID", mock.Anything, remarkID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: errors.ErrRemarkNotFound,
		},
		{
			name:   "foreign remark is forbidden, not hidden",
			caller: stranger,
			setupMock: func(m *MockRemarkRepository) {
				m.On("FindByID", mock.Anything, remarkID).Return(&model.Remark{ID: remarkID, UserID: owner}, nil)
			},
			expectedError: errors.ErrRemarkForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()

			// Update, ToggleDone and Delete all share the same check.
			for _, op := range []string{"update", "toggle", "delete"} {
				mockRepo := new(MockRemarkRepository)
				tt.setupMock(mockRepo)
				service := NewRemarkService(mockRepo, nil)

				var err error
				switch op {
				case "update":
					_, err = service.Update(ctx, tt.caller, remarkID, UpdateRemarkInput{Content: strPtr("x")})
				case "toggle":
					_, err = service.ToggleDone(ctx, tt.caller, remarkID)
				case "delete":
					err = service.Delete(ctx, tt.caller, remarkID)
				}

				assert.ErrorIs(t, err, tt.expectedError, "op %s", op)
				mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
				mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestRemarkService_Update_OverwriteSemantics(t *testing.T) {
	userID := uuid.New()
	remarkID := uuid.New()

	existing := func() *model.Remark {
		return &model.Remark{
			ID:            remarkID,
			UserID:        userID,
			Name:          "Acme Ltd",
			Content:       "pickup at noon",
			SpecialNote:   "fragile",
			Done:          true,
			TotalAmount:   decimal.NewFromInt(100),
			AdvanceAmount: decimal.NewFromInt(40),
			PendingAmount: decimal.NewFromInt(60),
			Priority:      model.PriorityMedium,
		}
	}

	tests := []struct {
		name   string
		input  UpdateRemarkInput
		verify func(t *testing.T, r *model.Remark)
	}{
		{
			name:  "empty string leaves name unchanged",
			input: UpdateRemarkInput{Name: strPtr("")},
			verify: func(t *testing.T, r *model.Remark) {
				assert.Equal(t, "Acme Ltd", r.Name)
			},
		},
		{
			name:  "non-empty name overwrites",
			input: UpdateRemarkInput{Name: strPtr("Globex")},
			verify: func(t *testing.T, r *model.Remark) {
				assert.Equal(t, "Globex", r.Name)
			},
		},
		{
			name:  "explicit empty special note clears it",
			input: UpdateRemarkInput{SpecialNote: strPtr("")},
			verify: func(t *testing.T, r *model.Remark) {
				assert.Equal(t, "", r.SpecialNote)
			},
		},
		{
			name:  "explicit false done overwrites",
			input: UpdateRemarkInput{Done: boolPtr(false)},
			verify: func(t *testing.T, r *model.Remark) {
				assert.False(t, r.Done)
			},
		},
		{
			name:  "zero total amount overwrites",
			input: UpdateRemarkInput{TotalAmount: dec(0), AdvanceAmount: dec(0)},
			verify: func(t *testing.T, r *model.Remark) {
				assert.True(t, r.TotalAmount.IsZero())
				assert.True(t, r.PendingAmount.IsZero())
			},
		},
		{
			name:  "single amount leaves pending unchanged",
			input: UpdateRemarkInput{TotalAmount: dec(120)},
			verify: func(t *testing.T, r *model.Remark) {
				assert.True(t, r.TotalAmount.Equal(decimal.NewFromInt(120)))
				assert.True(t, r.PendingAmount.Equal(decimal.NewFromInt(60)),
					"pending must not be recomputed from one amount")
			},
		},
		{
			name:  "both amounts recompute pending",
			input: UpdateRemarkInput{TotalAmount: dec(200), AdvanceAmount: dec(50)},
			verify: func(t *testing.T, r *model.Remark) {
				assert.True(t, r.PendingAmount.Equal(decimal.NewFromInt(150)))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRemarkRepository)
			mockRepo.On("FindByID", mock.Anything, remarkID).Return(existing(), nil)
			mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Remark")).Return(nil)

			service := NewRemarkService(mockRepo, nil)
			updated, err := service.Update(context.Background(), userID, remarkID, tt.input)

			assert.NoError(t, err)
			tt.verify(t, updated)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestRemarkService_Update_InvalidPriority(t *testing.T) {
	userID := uuid.New()
	remarkID := uuid.New()

	mockRepo := new(MockRemarkRepository)
	mockRepo.On("FindByID", mock.Anything, remarkID).Return(&model.Remark{ID: remarkID, UserID: userID}, nil)

	service := NewRemarkService(mockRepo, nil)
	p := model.Priority("urgent")
	_, err := service.Update(context.Background(), userID, remarkID, UpdateRemarkInput{Priority: &p})

	assert.ErrorIs(t, err, errors.ErrInvalidPriority)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRemarkService_ToggleDone_Flips(t *testing.T) {
	userID := uuid.New()
	remarkID := uuid.New()

	mockRepo := new(MockRemarkRepository)
	mockRepo.On("FindByID", mock.Anything, remarkID).Return(&model.Remark{ID: remarkID, UserID: userID, Done: false}, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Remark")).Return(nil)

	service := NewRemarkService(mockRepo, nil)
	remark, err := service.ToggleDone(context.Background(), userID, remarkID)

	assert.NoError(t, err)
	assert.True(t, remark.Done)
}

func TestRemarkService_ListByPriority_InvalidTokenSkipsStorage(t *testing.T) {
	mockRepo := new(MockRemarkRepository)

	service := NewRemarkService(mockRepo, nil)
	_, err := service.ListByPriority(context.Background(), uuid.New(), "urgent")

	assert.ErrorIs(t, err, errors.ErrInvalidPriority)
	mockRepo.AssertNotCalled(t, "ListByUserAndPriority", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemarkService_ListByDay_FullLocalDay(t *testing.T) {
	userID := uuid.New()
	day := time.Date(2024, 3, 15, 13, 45, 0, 0, time.Local)

	wantStart := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)
	wantEnd := time.Date(2024, 3, 15, 23, 59, 59, 999000000, time.Local)

	mockRepo := new(MockRemarkRepository)
	mockRepo.On("ListByUserAndDateRange", mock.Anything, userID, wantStart, wantEnd).
		Return([]model.Remark{}, nil)

	service := NewRemarkService(mockRepo, nil)
	_, err := service.ListByDay(context.Background(), userID, day)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestRemarkService_FinancialSummary_EmptyUser(t *testing.T) {
	userID := uuid.New()

	mockRepo := new(MockRemarkRepository)
	mockRepo.On("SummarizeByUser", mock.Anything, userID).Return(&model.FinancialSummary{}, nil)

	service := NewRemarkService(mockRepo, nil)
	summary, err := service.FinancialSummary(context.Background(), userID)

	assert.NoError(t, err)
	assert.True(t, summary.TotalAmount.IsZero())
	assert.True(t, summary.TotalAdvance.IsZero())
	assert.True(t, summary.TotalPending.IsZero())
	assert.Zero(t, summary.CompletedRemarks)
	assert.Zero(t, summary.PendingRemarks)
}
