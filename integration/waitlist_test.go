package integration

import (
	"bytes"
	"encoding/json"
	"html"
	"io"
	"net/http"
	"net/url"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/skill404/landing/domain/waitlist"
	"github.com/skill404/landing/internal/models"
	"github.com/stretchr/testify/suite"
)

type WaitlistTestSuite struct {
	suite.Suite
	app *testApp
}

func (s *WaitlistTestSuite) SetupTest() {
	s.app = newTestApp(s.T(), nil)
}

func (s *WaitlistTestSuite) postJSON(path string, body any) (*http.Response, map[string]any) {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := s.app.client.Post(s.app.server.URL+path, "application/json", bytes.NewReader(payload))
	s.Require().NoError(err)
	defer resp.Body.Close()

	var decoded map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func (s *WaitlistTestSuite) postForm(email string) (*http.Response, string) {
	resp, err := s.app.client.PostForm(s.app.server.URL+"/", url.Values{"email": {email}})
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, string(body)
}

func (s *WaitlistTestSuite) countEntries() int64 {
	var count int64
	s.Require().NoError(s.app.db.Model(&models.WaitlistEntry{}).Count(&count).Error)
	return count
}

func (s *WaitlistTestSuite) TestHealthCheck() {
	resp, err := s.app.client.Get(s.app.server.URL + "/health")
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusOK, resp.StatusCode)

	var response struct {
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&response))

	s.Contains(response.Message, "health check completed")
	s.Equal(float64(1), response.Data["database"])
	s.Equal(float64(0), response.Data["github_oauth"])
}

func (s *WaitlistTestSuite) TestJoinWaitlistAPI() {
	email := gofakeit.Email()

	resp, body := s.postJSON("/v1/waitlist", map[string]string{"email": email})

	s.Equal(http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	s.Equal(email, data["email"])
	s.Contains(data, "id")
	s.Contains(data, "created_at")
	s.Equal(int64(1), s.countEntries())
}

func (s *WaitlistTestSuite) TestJoinWaitlistAPI_ValidationError() {
	resp, body := s.postJSON("/v1/waitlist", map[string]string{"email": "not-an-email"})

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("Invalid request payload", body["message"])

	fields := body["data"].([]any)
	s.Require().NotEmpty(fields)
	first := fields[0].(map[string]any)
	s.Equal("email", first["field"])
	s.Zero(s.countEntries())
}

func (s *WaitlistTestSuite) TestJoinWaitlistAPI_DuplicateGetsGenericMessage() {
	email := gofakeit.Email()
	s.Require().NoError(s.app.db.Create(&models.WaitlistEntry{Email: email}).Error)

	resp, body := s.postJSON("/v1/waitlist", map[string]string{"email": email})

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal(waitlist.FailureMessage, body["message"])
	s.Equal(int64(1), s.countEntries())
}

func (s *WaitlistTestSuite) TestLandingForm_SuccessThenDuplicate() {
	email := gofakeit.Email()

	resp, page := s.postForm(email)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(page, html.EscapeString(waitlist.SuccessMessage))
	s.NotContains(page, `value="`+email+`"`)
	s.Equal(int64(1), s.countEntries())

	resp, page = s.postForm(email)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(page, html.EscapeString(waitlist.FailureMessage))
	s.Contains(page, `value="`+email+`"`)
	s.Equal(int64(1), s.countEntries())
}

func (s *WaitlistTestSuite) TestLandingForm_EmptyEmailWritesNothing() {
	resp, page := s.postForm("")

	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotContains(page, `class="toast`)
	s.Zero(s.countEntries())
}

func (s *WaitlistTestSuite) TestLandingPage() {
	resp, err := s.app.client.Get(s.app.server.URL + "/")
	s.Require().NoError(err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)

	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(resp.Header.Get("Content-Type"), "text/html")
	s.Contains(string(body), waitlist.SubmitLabel)
}

func TestWaitlistSuite(t *testing.T) {
	skipUnlessIntegration(t)
	suite.Run(t, new(WaitlistTestSuite))
}
