package server

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"fstore/pkg/filestore"
	"fstore/pkg/models"
	"fstore/pkg/sandbox"
)

// TestUploadFileSuccess tests a successful multipart upload.
func (s *HandlerTestSuite) TestUploadFileSuccess() {
	body, contentType := multipartBody("file", "report.pdf", "application/pdf", "pdf bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	record := &models.FileRecord{
		ID:          1,
		Filename:    "report.pdf",
		ContentType: "application/pdf",
		Size:        9,
		UploadDate:  time.Now().UTC(),
	}
	s.mockFiles.On("SaveFile", s.userID, "report.pdf", "application/pdf", mock.Anything, int64(9)).
		Return(record, nil)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusCreated, rec.Code)
	s.Contains(rec.Body.String(), `"filename":"report.pdf"`)
	s.Contains(rec.Body.String(), `"url":"/api/files/report.pdf"`)
	s.mockFiles.AssertExpectations(s.T())
}

// TestUploadFileMissingPart tests an upload without a file part.
func (s *HandlerTestSuite) TestUploadFileMissingPart() {
	body, contentType := multipartBody("wrong", "report.pdf", "application/pdf", "pdf bytes")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "file parameter is required")
	s.mockFiles.AssertNotCalled(s.T(), "SaveFile")
}

// TestUploadFileUnsupportedType tests the extension rejection path.
func (s *HandlerTestSuite) TestUploadFileUnsupportedType() {
	body, contentType := multipartBody("file", "payload.exe", "application/octet-stream", "MZ")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("SaveFile", s.userID, "payload.exe", "application/octet-stream", mock.Anything, int64(2)).
		Return(nil, filestore.ErrUnsupportedType)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusBadRequest, rec.Code)
}

// TestUploadFileTooLarge tests the size rejection path.
func (s *HandlerTestSuite) TestUploadFileTooLarge() {
	body, contentType := multipartBody("file", "huge.zip", "application/zip", "zzzz")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("SaveFile", s.userID, "huge.zip", "application/zip", mock.Anything, int64(4)).
		Return(nil, filestore.ErrFileTooLarge)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
}

// TestUploadFileDuplicate tests the conflict path.
func (s *HandlerTestSuite) TestUploadFileDuplicate() {
	body, contentType := multipartBody("file", "report.pdf", "application/pdf", "again")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("SaveFile", s.userID, "report.pdf", "application/pdf", mock.Anything, int64(5)).
		Return(nil, filestore.ErrFileExists)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusConflict, rec.Code)
}

// TestUploadFileAccessDenied tests the sandbox rejection path.
func (s *HandlerTestSuite) TestUploadFileAccessDenied() {
	body, contentType := multipartBody("file", "report.pdf", "application/pdf", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("SaveFile", s.userID, "report.pdf", "application/pdf", mock.Anything, int64(1)).
		Return(nil, sandbox.ErrAccessDenied)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusForbidden, rec.Code)
}

// countingReader tracks how many body bytes the server actually pulls.
type countingReader struct {
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	r.n += int64(len(p))
	for i := range p {
		p[i] = 'a'
	}
	return len(p), nil
}

// TestUploadFileOversizedDeclaredBody tests that a body declared over the
// limit is refused before any of it is read.
func (s *HandlerTestSuite) TestUploadFileOversizedDeclaredBody() {
	body := &countingReader{}
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, "multipart/form-data; boundary=xxx")
	req.ContentLength = mockMaxFileSize + uploadBodySlack + 1
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)
	s.Zero(body.n)
	s.mockFiles.AssertNotCalled(s.T(), "SaveFile")
}

// TestUploadFileWithoutIdentity tests that a context without a user id is rejected.
func (s *HandlerTestSuite) TestUploadFileWithoutIdentity() {
	body, contentType := multipartBody("file", "report.pdf", "application/pdf", "x")
	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	c := s.server.echo.NewContext(req, rec)

	err := s.server.uploadFile(c)
	s.NoError(err)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.mockFiles.AssertNotCalled(s.T(), "SaveFile")
}
