package anticaptcha

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"probate-records/lib/restyutil"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultBaseUrl = "https://api.anti-captcha.com"

var ErrTimeout = errors.New("timed out waiting for captcha solution")
var ErrEmptySolution = errors.New("solving service returned an empty solution")

// APIError is an error reported by the solving service itself (errorId != 0).
type APIError struct {
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anti-captcha: %s: %s", e.Code, e.Description)
}

type ClientOptions struct {
	ApiKey string
	// defaults to DefaultBaseUrl
	BaseUrl string
	// time between result polls, defaults to 3 seconds
	PollInterval time.Duration
	// upper bound on waiting for a solution, defaults to 2 minutes
	Timeout time.Duration
}

type Client struct {
	Http         *resty.Client
	apiKey       string
	pollInterval time.Duration
	timeout      time.Duration
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.ApiKey == "" {
		return nil, fmt.Errorf("anti-captcha api key is empty")
	}
	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = time.Second * 3
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Minute * 2
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.SetHeader("content-type", "application/json")
	client.SetHeader("accept", "application/json")
	client.SetTimeout(time.Second * 30)
	restyutil.InstrumentClient(client, tracer, restyInstrumentOutput)

	return &Client{
		Http:         client,
		apiKey:       opts.ApiKey,
		pollInterval: opts.PollInterval,
		timeout:      opts.Timeout,
	}, nil
}

type errorFields struct {
	ErrorId          int    `json:"errorId"`
	ErrorCode        string `json:"errorCode"`
	ErrorDescription string `json:"errorDescription"`
}

func (e errorFields) err() error {
	if e.ErrorId == 0 {
		return nil
	}
	return &APIError{Code: e.ErrorCode, Description: e.ErrorDescription}
}

type imageToTextTask struct {
	Type string `json:"type"`
	Body string `json:"body"`
}

type createTaskRequest struct {
	ClientKey string          `json:"clientKey"`
	Task      imageToTextTask `json:"task"`
}

type createTaskResponse struct {
	errorFields
	TaskId int64 `json:"taskId"`
}

type taskResultRequest struct {
	ClientKey string `json:"clientKey"`
	TaskId    int64  `json:"taskId"`
}

type taskResultResponse struct {
	errorFields
	Status   string `json:"status"`
	Solution struct {
		Text string `json:"text"`
	} `json:"solution"`
	Cost string `json:"cost"`
}

type balanceRequest struct {
	ClientKey string `json:"clientKey"`
}

type balanceResponse struct {
	errorFields
	Balance float64 `json:"balance"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	res, err := c.Http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		ForceContentType("application/json").
		Post(path)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("anti-captcha %s: unexpected status %d", path, res.StatusCode())
	}
	return nil
}

// CreateTask submits an image to be read and returns the id of the task.
func (c *Client) CreateTask(ctx context.Context, image []byte) (int64, error) {
	ctx, span := tracer.Start(ctx, "client:CreateTask")
	defer span.End()

	var res createTaskResponse
	err := c.post(ctx, "/createTask", createTaskRequest{
		ClientKey: c.apiKey,
		Task: imageToTextTask{
			Type: "ImageToTextTask",
			Body: base64.StdEncoding.EncodeToString(image),
		},
	}, &res)
	if err == nil {
		err = res.err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create task")
		return 0, err
	}

	span.SetAttributes(attribute.Int64("task_id", res.TaskId))
	return res.TaskId, nil
}

// TaskResult fetches the state of a task once, done is false while the
// service is still processing it.
func (c *Client) TaskResult(ctx context.Context, taskId int64) (text string, done bool, err error) {
	var res taskResultResponse
	err = c.post(ctx, "/getTaskResult", taskResultRequest{
		ClientKey: c.apiKey,
		TaskId:    taskId,
	}, &res)
	if err != nil {
		return "", false, err
	}
	if err = res.err(); err != nil {
		return "", false, err
	}
	if res.Status != "ready" {
		return "", false, nil
	}
	return res.Solution.Text, true, nil
}

// WaitForResult polls a task until it is ready or the client timeout
// passes.
func (c *Client) WaitForResult(ctx context.Context, taskId int64) (string, error) {
	ctx, span := tracer.Start(ctx, "client:WaitForResult")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	polls := 0
	for {
		select {
		case <-ctx.Done():
			err := ErrTimeout
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = ctx.Err()
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "gave up waiting for task")
			return "", err
		case <-ticker.C:
		}

		polls++
		text, done, err := c.TaskResult(ctx, taskId)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to get task result")
			return "", err
		}
		if !done {
			slog.DebugContext(ctx, "captcha task still processing", "task_id", taskId, "polls", polls)
			continue
		}

		span.SetAttributes(attribute.Int("polls", polls))
		return text, nil
	}
}

// SolveImage reads the text of a captcha image (png, jpeg or gif bytes).
// it blocks until the service answers, fails or the timeout passes.
func (c *Client) SolveImage(ctx context.Context, image []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "client:SolveImage")
	defer span.End()

	text, err := c.solveImage(ctx, image)
	if err != nil {
		failedCounter.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	solvedCounter.Add(ctx, 1)
	return text, nil
}

func (c *Client) solveImage(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("captcha image is empty")
	}

	taskId, err := c.CreateTask(ctx, image)
	if err != nil {
		return "", fmt.Errorf("create task: %w", err)
	}
	slog.InfoContext(ctx, "captcha task created", "task_id", taskId)

	text, err := c.WaitForResult(ctx, taskId)
	if err != nil {
		return "", fmt.Errorf("wait for task %d: %w", taskId, err)
	}
	if text == "" {
		return "", ErrEmptySolution
	}
	return text, nil
}

// Balance returns the balance of the account in USD.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	ctx, span := tracer.Start(ctx, "client:Balance")
	defer span.End()

	var res balanceResponse
	err := c.post(ctx, "/getBalance", balanceRequest{ClientKey: c.apiKey}, &res)
	if err == nil {
		err = res.err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get balance")
		return 0, err
	}
	return res.Balance, nil
}
