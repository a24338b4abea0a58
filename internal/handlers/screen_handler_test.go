package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/services"
)

const jobDescription = "Backend engineer with Python, AWS and Docker experience to build resume tooling."

type upload struct {
	name    string
	content string
}

func newTestApp(t *testing.T, maxFileSize int64) *fiber.App {
	t.Helper()

	skills, err := services.NewSkillMatcher([]string{"Python", "AWS", "Docker"})
	require.NoError(t, err)

	screener := services.NewScreenerService(
		services.NewTextExtractor(0, nil),
		services.NewScorerService(nil, skills, nil),
		skills,
		nil,
		nil,
	)

	return NewApp(NewScreenHandler(screener, services.NewUploadReader(maxFileSize), nil), AppConfig{
		MaxFileSize: maxFileSize,
		Skills:      skills.Vocabulary(),
	})
}

func screenRequest(t *testing.T, target, jd string, uploads ...upload) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if jd != "" {
		require.NoError(t, w.WriteField("job_description", jd))
	}
	for _, u := range uploads {
		part, err := w.CreateFormFile("resumes", u.name)
		require.NoError(t, err)
		_, err = io.WriteString(part, u.content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func TestHandleScreen_UnreadableResumesGetFallback(t *testing.T) {
	app := newTestApp(t, 1<<20)

	req := screenRequest(t, "/api/v1/screen", jobDescription,
		upload{name: "notes.pdf", content: "just some text, not a PDF"},
		upload{name: "broken.docx", content: "PK\x03\x04not a zip"},
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.ScreenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, 2, body.Candidates)
	require.Len(t, body.Results, 2)
	assert.NotEmpty(t, body.ID)

	for i, row := range body.Results {
		assert.Equal(t, i+1, row.Rank)
		assert.Equal(t, "40.0%", row.Score)
		assert.Equal(t, 40.0, row.ScoreValue)
		assert.True(t, row.Fallback)
		assert.Zero(t, row.SkillsFound)
	}
	assert.Equal(t, "notes.pdf", body.Results[0].Candidate)
	assert.Equal(t, "broken.docx", body.Results[1].Candidate)
}

func TestHandleScreen_RejectedUploadsDoNotAbortBatch(t *testing.T) {
	app := newTestApp(t, 100)

	req := screenRequest(t, "/api/v1/screen", jobDescription,
		upload{name: "good.pdf", content: "hello"},
		upload{name: "big.pdf", content: strings.Repeat("x", 200)},
		upload{name: "cv.txt", content: "plain text resume"},
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body models.ScreenResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Len(t, body.Results, 3)
	rows := map[string]models.ResultRow{}
	for _, row := range body.Results {
		assert.Equal(t, "40.0%", row.Score)
		assert.True(t, row.Fallback)
		rows[row.Candidate] = row
	}

	require.Contains(t, rows, "good.pdf")
	require.Contains(t, rows, "big.pdf")
	require.Contains(t, rows, "cv.txt")
	assert.Contains(t, strings.Join(rows["big.pdf"].Errors, " "), "file too large")
	assert.Contains(t, strings.Join(rows["cv.txt"].Errors, " "), "invalid file extension")
}

func TestAppConfig_BodyLimit(t *testing.T) {
	tests := []struct {
		name string
		cfg  AppConfig
		want int
	}{
		{name: "sized files", cfg: AppConfig{MaxFileSize: 10 << 20, MaxResumes: 5}, want: 50<<20 + formOverhead},
		{name: "default resume count", cfg: AppConfig{MaxFileSize: 1 << 20}, want: DefaultMaxResumes<<20 + formOverhead},
		{name: "unlimited files", cfg: AppConfig{MaxResumes: 2}, want: 2*unlimitedFileAllowance + formOverhead},
		{name: "negative size", cfg: AppConfig{MaxFileSize: -1, MaxResumes: 1}, want: unlimitedFileAllowance + formOverhead},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.bodyLimit())
			assert.Greater(t, tt.cfg.bodyLimit(), 4<<20)
		})
	}
}

func TestHandleScreen_CSV(t *testing.T) {
	app := newTestApp(t, 1<<20)

	req := screenRequest(t, "/api/v1/screen?format=csv", jobDescription,
		upload{name: "notes.pdf", content: "plain text"},
	)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), "text/csv"))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), services.CSVFilename)

	rows, err := services.ReadCSV(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, []services.ExportRow{{Rank: 1, Candidate: "notes.pdf", Score: "40.0%", SkillsFound: 0}}, rows)
}

func TestHandleScreen_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		jd      string
		uploads []upload
		wantErr string
	}{
		{
			name:    "missing job description",
			uploads: []upload{{name: "a.pdf", content: "x"}},
			wantErr: "job_description is required",
		},
		{
			name:    "blank job description",
			jd:      "   ",
			uploads: []upload{{name: "a.pdf", content: "x"}},
			wantErr: "job_description is required",
		},
		{
			name:    "no resumes",
			jd:      jobDescription,
			wantErr: "upload at least 1 resume",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, 1<<20)

			resp, err := app.Test(screenRequest(t, "/api/v1/screen", tt.jd, tt.uploads...), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body["error"], tt.wantErr)
		})
	}
}

func TestSkillsEndpoint(t *testing.T) {
	app := newTestApp(t, 1<<20)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/skills", nil), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Skills []string `json:"skills"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"AWS", "Docker", "Python"}, body.Skills)
}
