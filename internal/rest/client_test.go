package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NeuroCampus/neuro-console/internal/commands"
	"github.com/NeuroCampus/neuro-console/internal/models"
	"github.com/NeuroCampus/neuro-console/pkg/auth"
	appErrors "github.com/NeuroCampus/neuro-console/pkg/errors"
)

func newBackend(t *testing.T, register func(r *gin.Engine)) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(srv *httptest.Server) *Client {
	return New(Options{
		BaseURL: srv.URL,
		Timeout: 2 * time.Second,
		Tokens:  auth.Static("test-token"),
	})
}

func TestClientHODBootstrap(t *testing.T) {
	var gotAuth, gotBranch string
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/hod-bootstrap/", func(c *gin.Context) {
			gotAuth = c.GetHeader("Authorization")
			gotBranch = c.Query("branch_id")
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data": models.HODBootstrap{
					Profile:   models.Profile{UserID: "u1", Role: "hod", BranchID: "cse"},
					Semesters: []models.Semester{{ID: "sem3", Number: 3, Name: "Semester 3"}},
					Faculty:   []models.Faculty{{ID: "f1", FullName: "Asha Rao", Active: true}},
				},
			})
		})
	})

	payload, err := newClient(srv).HODBootstrap(context.Background(), BootstrapQuery{BranchID: "cse"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "cse", gotBranch)
	assert.Equal(t, "cse", payload.Profile.BranchID)
	require.Len(t, payload.Semesters, 1)
	assert.Equal(t, 3, payload.Semesters[0].Number)
}

func TestClientBootstrapMissingProfile(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/hod-bootstrap/", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{}})
		})
	})

	_, err := newClient(srv).HODBootstrap(context.Background(), BootstrapQuery{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMalformedResponse)
}

func TestClientErrorTaxonomy(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/leaves/", func(c *gin.Context) {
			switch c.Query("case") {
			case "missing":
				c.JSON(http.StatusNotFound, gin.H{"success": false})
			case "forbidden":
				c.JSON(http.StatusForbidden, gin.H{"success": false})
			case "invalid":
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "semester_id is required"})
			case "rejected":
				c.JSON(http.StatusOK, gin.H{"success": false, "message": "Leave already processed"})
			default:
				c.Data(http.StatusOK, "text/html", []byte("<html>maintenance</html>"))
			}
		})
	})

	client := newClient(srv)
	cases := []struct {
		name     string
		query    string
		sentinel *appErrors.Error
		message  string
	}{
		{"not found", "missing", appErrors.ErrNotFound, "resource or branch not found"},
		{"auth", "forbidden", appErrors.ErrAuth, "authentication failure"},
		{"validation", "invalid", appErrors.ErrValidation, "semester_id is required"},
		{"server rejected", "rejected", appErrors.ErrServerRejected, "Leave already processed"},
		{"malformed", "", appErrors.ErrMalformedResponse, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.get(context.Background(), "leaves", "leaves/?case="+tc.query, nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)
			if tc.message != "" {
				assert.Contains(t, appErrors.FromError(err).Message, tc.message)
			}
		})
	}
}

func TestClientMutateAssignmentWireShape(t *testing.T) {
	var got map[string]interface{}
	srv := newBackend(t, func(r *gin.Engine) {
		r.POST("/faculty-assignments/", func(c *gin.Context) {
			require.NoError(t, c.BindJSON(&got))
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	err := newClient(srv).MutateAssignment(context.Background(), commands.AssignmentCommand{
		Action:     commands.ActionCreate,
		FacultyID:  "f1",
		SubjectID:  "s1",
		SectionID:  "sec-a",
		SemesterID: "sem3",
	})
	require.NoError(t, err)
	assert.Equal(t, "create", got["action"])
	assert.Equal(t, "f1", got["faculty_id"])
	assert.Equal(t, "sec-a", got["section_id"])
}

func TestClientListStudentsPagination(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/students/", func(c *gin.Context) {
			assert.Equal(t, "2", c.Query("page"))
			assert.Equal(t, "25", c.Query("page_size"))
			raw, _ := json.Marshal([]models.Student{{ID: "st1", FullName: "Kiran"}})
			c.JSON(http.StatusOK, gin.H{
				"success":     true,
				"data":        json.RawMessage(raw),
				"count":       51,
				"total_pages": 3,
			})
		})
	})

	students, page, err := newClient(srv).ListStudents(context.Background(), models.StudentFilter{Page: 2, PageSize: 25})
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, 51, page.Count)
	assert.Equal(t, 3, page.TotalPages)
}

func TestClientTimeoutIsNetworkError(t *testing.T) {
	srv := newBackend(t, func(r *gin.Engine) {
		r.GET("/timetable/", func(c *gin.Context) {
			time.Sleep(200 * time.Millisecond)
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	})

	client := New(Options{
		BaseURL: srv.URL,
		Timeout: 20 * time.Millisecond,
		Tokens:  auth.Static(""),
	})
	_, err := client.Timetable(context.Background(), AssignmentFilter{})
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrNetwork)
}
