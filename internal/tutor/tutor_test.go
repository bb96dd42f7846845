package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echo() Answerer {
	return AnswererFunc(func(_ context.Context, algorithm, question string) (string, error) {
		return algorithm + ": " + question, nil
	})
}

func discard() *slog.Logger { return slog.New(slog.DiscardHandler) }

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Answers(t *testing.T) {
	h := NewHandler(echo(), discard())

	for name, body := range map[string]string{
		"canonical": `{"question":"why a heap?","algorithmName":"Optimal Merge"}`,
		"aliases":   `{"message":"why a heap?","algorithm":"Optimal Merge"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := post(t, h, body)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Optimal Merge: why a heap?", resp.Answer)
		})
	}
}

func TestHandler_MissingFields(t *testing.T) {
	h := NewHandler(echo(), discard())

	for _, body := range []string{`{}`, `{"question":"  "}`, `{"algorithm":"Bubble Sort"}`} {
		rec := post(t, h, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Missing question or algorithm", resp.Error)
	}
}

func TestHandler_BadJSON(t *testing.T) {
	rec := post(t, NewHandler(echo(), discard()), `{"question":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler(echo(), discard())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ask", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandler_NotConfigured(t *testing.T) {
	rec := post(t, NewHandler(Unavailable{}, discard()), `{"question":"q","algorithmName":"a"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandler_UpstreamFailure(t *testing.T) {
	failing := AnswererFunc(func(context.Context, string, string) (string, error) {
		return "", errors.New("upstream responded with 500")
	})
	rec := post(t, NewHandler(failing, discard()), `{"question":"q","algorithmName":"a"}`)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to process request", resp.Error)
	assert.Equal(t, "upstream responded with 500", resp.Details)
}

func TestHandler_LogsRequests(t *testing.T) {
	var buf bytes.Buffer
	h := NewHandler(echo(), slog.New(slog.NewJSONHandler(&buf, nil)))
	post(t, h, `{"question":"q","algorithmName":"a"}`)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, "/ask", entry["path"])
	assert.Equal(t, 200.0, entry["status"])
}

func TestClient_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(NewHandler(echo(), discard()))
	defer srv.Close()

	c := NewClient(srv.URL + "/ask")
	answer, ok := c.Ask(context.Background(), "Knight's Tour", "what is Warnsdorff?")
	assert.True(t, ok)
	assert.Equal(t, "Knight's Tour: what is Warnsdorff?", answer)
}

func TestClient_ReportsBackendError(t *testing.T) {
	srv := httptest.NewServer(NewHandler(Unavailable{}, discard()))
	defer srv.Close()

	c := NewClient(srv.URL + "/ask")
	_, err := c.Answer(context.Background(), "Bubble Sort", "why?")

	var up *UpstreamError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, http.StatusServiceUnavailable, up.Status)

	msg, ok := c.Ask(context.Background(), "Bubble Sort", "why?")
	assert.False(t, ok)
	assert.Equal(t, "Server configuration error", msg)
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	msg, ok := NewClient(url).Ask(context.Background(), "a", "q")
	assert.False(t, ok)
	assert.Equal(t, fallbackMessage, msg)
}

func TestClient_ForwardsThroughServer(t *testing.T) {
	upstream := httptest.NewServer(NewHandler(echo(), discard()))
	defer upstream.Close()
	proxy := httptest.NewServer(NewHandler(NewClient(upstream.URL+"/ask"), discard()))
	defer proxy.Close()

	answer, ok := NewClient(proxy.URL+"/ask").Ask(context.Background(), "Closest Pair", "how many comparisons?")
	assert.True(t, ok)
	assert.Equal(t, "Closest Pair: how many comparisons?", answer)
}

func TestDisplayMessage(t *testing.T) {
	assert.Equal(t, "", DisplayMessage(nil))
	assert.Equal(t, "The tutor is not configured.", DisplayMessage(ErrNotConfigured))
	assert.Equal(t, "Please enter a question.", DisplayMessage(ErrMissingFields))
	assert.Equal(t, "Failed to get answer", DisplayMessage(&UpstreamError{Status: 500}))
	assert.Equal(t, fallbackMessage, DisplayMessage(errors.New("dial tcp: refused")))

	_, ok := NewClient("").Ask(context.Background(), "a", "q")
	assert.False(t, ok)
}
