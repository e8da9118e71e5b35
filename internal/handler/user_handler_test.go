package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"remarkly/internal/auth"
	"remarkly/internal/errors"
	"remarkly/internal/model"
	"remarkly/internal/service"
	"remarkly/internal/upload"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, firstName, lastName, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, firstName, lastName, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) GetProfile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uuid.UUID, in service.ProfileUpdateInput) (*model.User, string, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) UpdateProfileImage(ctx context.Context, id uuid.UUID, imagePath string, in service.ProfileUpdateInput) (*model.User, string, error) {
	args := m.Called(ctx, id, imagePath, in)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*model.User), args.String(1), args.Error(2)
}

func (m *MockUserService) DeleteProfileImage(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func newUserHandler(t *testing.T, svc service.UserService) *UserHandler {
	t.Helper()
	store, err := upload.NewStore(t.TempDir())
	assert.NoError(t, err)
	return NewUserHandler(svc, store)
}

func TestUserHandler_Register_ShortPassword(t *testing.T) {
	mockSvc := new(MockUserService)

	c, _ := newContext(t, http.MethodPost, "/api/users/register",
		`{"firstName":"A","lastName":"B","email":"a@example.com","password":"123"}`, nil)

	err := newUserHandler(t, mockSvc).Register(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	mockSvc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_Register_DuplicateEmail(t *testing.T) {
	mockSvc := new(MockUserService)
	mockSvc.On("Register", mock.Anything, "A", "B", "taken@example.com", "password123").
		Return(nil, "", errors.ErrUserExists)

	c, _ := newContext(t, http.MethodPost, "/api/users/register",
		`{"firstName":"A","lastName":"B","email":"taken@example.com","password":"password123"}`, nil)

	err := newUserHandler(t, mockSvc).Register(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusConflict, httpErr.Code)
}

func TestUserHandler_Register_Success(t *testing.T) {
	user := &model.User{ID: uuid.New(), FirstName: "A", LastName: "B", Email: "a@example.com", PasswordHash: "hash"}
	mockSvc := new(MockUserService)
	mockSvc.On("Register", mock.Anything, "A", "B", "a@example.com", "password123").
		Return(user, "token-abc", nil)

	c, rec := newContext(t, http.MethodPost, "/api/users/register",
		`{"firstName":"A","lastName":"B","email":"a@example.com","password":"password123"}`, nil)

	assert.NoError(t, newUserHandler(t, mockSvc).Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"token-abc"`)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestUserHandler_Login_FailureShapeIsUniform(t *testing.T) {
	// unknown email and wrong password must produce the same response body
	bodies := make([]string, 0, 2)

	for _, email := range []string{"nobody@example.com", "known@example.com"} {
		mockSvc := new(MockUserService)
		mockSvc.On("Login", mock.Anything, email, "badpass").Return(nil, "", errors.ErrInvalidCredentials)

		c, _ := newContext(t, http.MethodPost, "/api/users/login",
			`{"email":"`+email+`","password":"badpass"}`, nil)

		err := newUserHandler(t, mockSvc).Login(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)

		resp, ok := httpErr.Message.(errors.ErrorResponse)
		assert.True(t, ok)
		bodies = append(bodies, resp.Code+"|"+resp.Error)
	}

	assert.Equal(t, bodies[0], bodies[1])
}

func newMultipartContext(t *testing.T, user *model.User, filename, contentType string, data []byte) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="profileImage"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write(data)
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	req := httptest.NewRequest(http.MethodPut, "/api/users/profile/image", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	auth.SetContextUser(c, user)
	return c, rec
}

func TestUserHandler_UpdateProfileImage_RejectsNonImage(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	mockSvc := new(MockUserService)

	c, _ := newMultipartContext(t, user, "notes.txt", "text/plain", []byte("plain text"))

	err := newUserHandler(t, mockSvc).UpdateProfileImage(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)

	resp, ok := httpErr.Message.(errors.ErrorResponse)
	assert.True(t, ok)
	assert.Equal(t, "NOT_AN_IMAGE", resp.Code)
	mockSvc.AssertNotCalled(t, "UpdateProfileImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_UpdateProfileImage_Success(t *testing.T) {
	user := &model.User{ID: uuid.New()}
	mockSvc := new(MockUserService)
	mockSvc.On("UpdateProfileImage", mock.Anything, user.ID, mock.AnythingOfType("string"), mock.AnythingOfType("service.ProfileUpdateInput")).
		Return(user, "fresh-token", nil)

	c, rec := newMultipartContext(t, user, "avatar.png", "image/png", []byte("png-bytes"))

	assert.NoError(t, newUserHandler(t, mockSvc).UpdateProfileImage(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"fresh-token"`)
	mockSvc.AssertExpectations(t)
}

func TestUserHandler_GetProfile_NeverLeaksPassword(t *testing.T) {
	user := &model.User{ID: uuid.New(), Email: "a@example.com", PasswordHash: "$2a$10$secret"}
	mockSvc := new(MockUserService)
	mockSvc.On("GetProfile", mock.Anything, user.ID).Return(user, nil)

	c, rec := newContext(t, http.MethodGet, "/api/users/profile", "", user)

	assert.NoError(t, newUserHandler(t, mockSvc).GetProfile(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, rec.Body.String(), "password")
}
