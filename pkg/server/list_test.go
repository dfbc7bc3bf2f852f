package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"fstore/pkg/models"
)

// TestListFilesSuccess tests the happy listing path.
func (s *HandlerTestSuite) TestListFilesSuccess() {
	req := httptest.NewRequest(http.MethodGet, "/api/files?skip=0&limit=2", nil)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	records := []models.FileRecord{
		{ID: 2, Filename: "b.txt", Size: 2, UploadDate: time.Now().UTC()},
		{ID: 1, Filename: "a.txt", Size: 1, UploadDate: time.Now().UTC()},
	}
	s.mockFiles.On("ListFiles", s.userID, 0, 2).Return(records, nil)

	err := s.server.listFiles(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)

	var resp models.FileListResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Len(resp.Files, 2)
	s.Equal("b.txt", resp.Files[0].Filename)
	s.Equal(0, resp.Skip)
	s.Equal(2, resp.Limit)
}

// TestListFilesDefaults tests the default pagination window.
func (s *HandlerTestSuite) TestListFilesDefaults() {
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("ListFiles", s.userID, 0, 100).Return([]models.FileRecord{}, nil)

	err := s.server.listFiles(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"files":[]`)
}

// TestListFilesEmptyIsArray tests that a nil result still serializes as [].
func (s *HandlerTestSuite) TestListFilesEmptyIsArray() {
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("ListFiles", s.userID, 0, 100).Return(nil, nil)

	err := s.server.listFiles(c)
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"files":[]`)
}

// TestListFilesInvalidPagination tests rejection of out-of-range parameters.
func (s *HandlerTestSuite) TestListFilesInvalidPagination() {
	for _, query := range []string{"skip=-1", "limit=0", "limit=101", "limit=-5"} {
		req := httptest.NewRequest(http.MethodGet, "/api/files?"+query, nil)
		rec := httptest.NewRecorder()
		c := s.authedContext(req, rec)

		err := s.server.listFiles(c)
		s.NoError(err)
		s.Equal(http.StatusBadRequest, rec.Code, query)
	}
	s.mockFiles.AssertNotCalled(s.T(), "ListFiles")
}

// TestListFilesStoreError tests the internal error path.
func (s *HandlerTestSuite) TestListFilesStoreError() {
	req := httptest.NewRequest(http.MethodGet, "/api/files", nil)
	rec := httptest.NewRecorder()
	c := s.authedContext(req, rec)

	s.mockFiles.On("ListFiles", s.userID, 0, 100).Return(nil, errors.New("disk on fire"))

	err := s.server.listFiles(c)
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)
}
