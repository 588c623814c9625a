package result

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Result_WriteResponse(t *testing.T) {
	testCases := []struct {
		name         string
		r            Result
		expectStatus int
		expectBody   string
		expectLog    string
		expectHeader map[string]string
	}{
		{
			name:         "ok with default message",
			r:            OK(map[string]int{"n": 1}),
			expectStatus: http.StatusOK,
			expectBody:   `{"n":1}`,
			expectLog:    "OK",
			expectHeader: map[string]string{"Content-Type": "application/json"},
		},
		{
			name:         "created with formatted message",
			r:            Created([]string{"S"}, "user '%s' made %d", "noam", 1),
			expectStatus: http.StatusCreated,
			expectBody:   `["S"]`,
			expectLog:    "user 'noam' made 1",
		},
		{
			name:         "no content",
			r:            NoContent(),
			expectStatus: http.StatusNoContent,
			expectLog:    "no content",
		},
		{
			name:         "bad request",
			r:            BadRequest("rules: empty", "parse %s", "S"),
			expectStatus: http.StatusBadRequest,
			expectBody:   `{"error":"rules: empty","status":400}`,
			expectLog:    "parse S",
		},
		{
			name:         "unprocessable",
			r:            UnprocessableEntity("empty language"),
			expectStatus: http.StatusUnprocessableEntity,
			expectBody:   `{"error":"empty language","status":422}`,
			expectLog:    "unprocessable entity",
		},
		{
			name:         "unauthorized default message",
			r:            Unauthorized(""),
			expectStatus: http.StatusUnauthorized,
			expectBody:   `{"error":"You are not authorized to do that","status":401}`,
			expectLog:    "unauthorized",
			expectHeader: map[string]string{"WWW-Authenticate": `Bearer realm="cnfserver", charset="utf-8"`},
		},
		{
			name:         "internal error hides detail",
			r:            InternalServerError("db on fire"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   `{"error":"An internal server error occurred","status":500}`,
			expectLog:    "db on fire",
		},
		{
			name:         "plain text error",
			r:            TextErr(http.StatusInternalServerError, "oops", "panic: %v", "x"),
			expectStatus: http.StatusInternalServerError,
			expectBody:   "oops",
			expectLog:    "panic: x",
			expectHeader: map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		},
		{
			name:         "redirect",
			r:            Redirection("/api/v1/info"),
			expectStatus: http.StatusPermanentRedirect,
			expectLog:    "redirect -> /api/v1/info",
			expectHeader: map[string]string{"Location": "/api/v1/info"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			w := httptest.NewRecorder()

			tc.r.WriteResponse(w)

			assert.Equal(tc.expectStatus, w.Code)
			assert.Equal(tc.expectBody, w.Body.String())
			assert.Equal(tc.expectLog, tc.r.InternalMsg)
			assert.Equal("nosniff", w.Header().Get("X-Content-Type-Options"))
			for k, v := range tc.expectHeader {
				assert.Equal(v, w.Header().Get(k), "header %s", k)
			}
		})
	}
}

func Test_Result_WithHeader(t *testing.T) {
	assert := assert.New(t)

	orig := OK("x")
	withHdr := orig.WithHeader("X-Grammar", "S")

	assert.Empty(orig.hdrs)
	assert.Equal([][2]string{{"X-Grammar", "S"}}, withHdr.hdrs)
}

func Test_Result_WriteResponse_Unpopulated(t *testing.T) {
	assert.Panics(t, func() { Result{}.WriteResponse(httptest.NewRecorder()) })
}
