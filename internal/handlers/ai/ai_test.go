package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crm-service/internal/domain/ai"
	xerrors "crm-service/internal/pkg/errors"
	"crm-service/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAssistant struct {
	reply      *ai.ReplyResult
	replyErr   error
	summary    *ai.SummaryResult
	summaryErr error
	gotReq     *ai.ReplyRequest
}

func (s *stubAssistant) GenerateReply(_ context.Context, _ int64, req *ai.ReplyRequest) (*ai.ReplyResult, error) {
	s.gotReq = req
	return s.reply, s.replyErr
}

func (s *stubAssistant) GenerateSummary(context.Context, int64) (*ai.SummaryResult, error) {
	return s.summary, s.summaryErr
}

func newRouter(a Assistant) *gin.Engine {
	h := NewAIHandler(a)
	r := gin.New()
	r.POST("/customers/:id/ai/reply", h.GenerateReply)
	r.GET("/customers/:id/ai/summary", h.GenerateSummary)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) response.Response {
	t.Helper()
	body := response.Response{Data: data}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestGenerateReply_DegradedIsStillOK(t *testing.T) {
	stub := &stubAssistant{reply: &ai.ReplyResult{
		Reply: ai.RateLimitedReply, Tone: ai.ToneFriendly, Degraded: true, Failure: ai.FailureRateLimited,
	}}
	w := do(newRouter(stub), http.MethodPost, "/customers/3/ai/reply", `{"message":"price?","tone":"friendly"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	var got ai.ReplyResult
	body := decode(t, w, &got)
	assert.True(t, body.Success)
	assert.True(t, got.Degraded)
	assert.Equal(t, ai.FailureRateLimited, got.Failure)
	assert.Equal(t, "friendly", stub.gotReq.Tone)
}

func TestGenerateReply_Validation(t *testing.T) {
	r := newRouter(&stubAssistant{})

	w := do(r, http.MethodPost, "/customers/x/ai/reply", `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/customers/3/ai/reply", `{"tone":"sales"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	r = newRouter(&stubAssistant{replyErr: xerrors.Invalid("message is required")})
	w = do(r, http.MethodPost, "/customers/3/ai/reply", `{"message":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGenerateSummary_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"disabled", ai.ErrAIDisabled, http.StatusForbidden},
		{"rate limited", ai.ErrAIRateLimited, http.StatusTooManyRequests},
		{"provider", fmt.Errorf("%w: upstream 500", ai.ErrAIProvider), http.StatusBadGateway},
		{"no messages", xerrors.Invalid("customer has no messages"), http.StatusBadRequest},
		{"unknown customer", xerrors.ErrNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(newRouter(&stubAssistant{summaryErr: tt.err}), http.MethodGet, "/customers/3/ai/summary", "")

			assert.Equal(t, tt.want, w.Code)
			body := decode(t, w, nil)
			assert.False(t, body.Success)
			assert.Equal(t, tt.err.Error(), body.Error)
		})
	}
}

func TestGenerateSummary_OK(t *testing.T) {
	stub := &stubAssistant{summary: &ai.SummaryResult{Summary: "Wants two bags.", Cached: true}}
	w := do(newRouter(stub), http.MethodGet, "/customers/3/ai/summary", "")

	assert.Equal(t, http.StatusOK, w.Code)
	var got ai.SummaryResult
	decode(t, w, &got)
	assert.Equal(t, "Wants two bags.", got.Summary)
	assert.True(t, got.Cached)
}
