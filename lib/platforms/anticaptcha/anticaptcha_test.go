package anticaptcha

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	devenv "probate-records/dev/env"
	"probate-records/lib/telemetry"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	t testing.TB
	// number of getTaskResult calls answered with "processing"
	processingPolls int64
	solution        string
	createError     string

	polls     atomic.Int64
	lastImage []byte
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/createTask", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req createTaskRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, "test-key", req.ClientKey)
		assert.Equal(f.t, "ImageToTextTask", req.Task.Type)

		image, err := base64.StdEncoding.DecodeString(req.Task.Body)
		assert.NoError(f.t, err)
		f.lastImage = image

		if f.createError != "" {
			json.NewEncoder(w).Encode(map[string]any{
				"errorId":          1,
				"errorCode":        f.createError,
				"errorDescription": "account has zero or negative balance",
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"errorId": 0, "taskId": 42})
	})
	mux.HandleFunc("/getTaskResult", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		var req taskResultRequest
		assert.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(f.t, int64(42), req.TaskId)

		if f.polls.Add(1) <= f.processingPolls {
			json.NewEncoder(w).Encode(map[string]any{"errorId": 0, "status": "processing"})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"errorId":  0,
			"status":   "ready",
			"solution": map[string]any{"text": f.solution},
			"cost":     "0.000700",
		})
	})
	mux.HandleFunc("/getBalance", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"errorId": 0, "balance": 3.5})
	})
	return mux
}

func newTestClient(t testing.TB, service *fakeService, timeout time.Duration) *Client {
	server := httptest.NewServer(service.handler())
	t.Cleanup(server.Close)

	client, err := NewClient(ClientOptions{
		ApiKey:       "test-key",
		BaseUrl:      server.URL,
		PollInterval: time.Millisecond * 5,
		Timeout:      timeout,
	})
	require.NoError(t, err)
	return client
}

func TestSolveImage(t *testing.T) {
	cleanup := telemetry.SetupForTesting(t, "test:anticaptcha")
	defer cleanup()

	service := &fakeService{t: t, processingPolls: 2, solution: "x7k2p"}
	client := newTestClient(t, service, time.Second*5)

	text, err := client.SolveImage(context.Background(), []byte("png bytes"))
	require.NoError(t, err)
	require.Equal(t, "x7k2p", text)
	require.Equal(t, []byte("png bytes"), service.lastImage)
	require.Equal(t, int64(3), service.polls.Load())
}

func TestSolveImageAPIError(t *testing.T) {
	service := &fakeService{t: t, createError: "ERROR_ZERO_BALANCE"}
	client := newTestClient(t, service, time.Second*5)

	_, err := client.SolveImage(context.Background(), []byte("png bytes"))
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "ERROR_ZERO_BALANCE", apiErr.Code)
}

func TestSolveImageEmptySolution(t *testing.T) {
	service := &fakeService{t: t, solution: ""}
	client := newTestClient(t, service, time.Second*5)

	_, err := client.SolveImage(context.Background(), []byte("png bytes"))
	require.ErrorIs(t, err, ErrEmptySolution)
}

func TestSolveImageTimeout(t *testing.T) {
	service := &fakeService{t: t, processingPolls: 1 << 30, solution: "never"}
	client := newTestClient(t, service, time.Millisecond*50)

	_, err := client.SolveImage(context.Background(), []byte("png bytes"))
	require.ErrorIs(t, err, ErrTimeout)
}

func TestSolveImageRejectsEmptyImage(t *testing.T) {
	service := &fakeService{t: t}
	client := newTestClient(t, service, time.Second)

	_, err := client.SolveImage(context.Background(), nil)
	require.Error(t, err)
	require.Nil(t, service.lastImage)
}

func TestBalance(t *testing.T) {
	client := newTestClient(t, &fakeService{t: t}, time.Second)

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3.5, balance)
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(ClientOptions{})
	require.Error(t, err)
}

func TestLiveBalance(t *testing.T) {
	config, err := devenv.GetStateConfig[devenv.AnticaptchaTestConfig]("anticaptcha.json5")
	if err != nil || config.ApiKey == "" {
		t.Skip("skipping test because no api key was found at dev/.state/anticaptcha.json5")
	}

	client, err := NewClient(ClientOptions{ApiKey: config.ApiKey})
	require.NoError(t, err)

	balance, err := client.Balance(context.Background())
	require.NoError(t, err)
	t.Log("balance", balance)
}
