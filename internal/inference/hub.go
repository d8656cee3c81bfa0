package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

const maxResponseBytes = 4 << 20

// HubClient speaks the HuggingFace text-generation protocol, which self-hosted
// TGI endpoints share: POST {inputs, parameters}.
type HubClient struct {
	endpoint   string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

func NewHubClient(endpoint, token string, timeout time.Duration) *HubClient {
	return &HubClient{
		endpoint: endpoint,
		token:    token,
		timeout:  timeout,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type hubRequest struct {
	Inputs     string     `json:"inputs"`
	Parameters Parameters `json:"parameters"`
}

func (c *HubClient) Name() string { return c.endpoint }

func (c *HubClient) Generate(ctx context.Context, prompt string, params Parameters) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(hubRequest{Inputs: prompt, Parameters: params})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", transportErr(err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return "", transportErr(err)
	}

	switch {
	case res.StatusCode == http.StatusServiceUnavailable:
		return "", fmt.Errorf("%w: http 503: %s", ErrModelLoading, truncate(string(raw), 300))
	case res.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: http %d: %s", ErrUnavailable, res.StatusCode, truncate(string(raw), 300))
	}

	return generatedText(raw)
}

// generatedText accepts both response shapes seen in the wild:
// [{"generated_text": ...}] from the hub and {"generated_text": ...} from
// custom endpoints, some of which use "response" instead.
func generatedText(raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("%w: response is not JSON: %s", ErrUnavailable, truncate(string(raw), 300))
	}
	r := gjson.ParseBytes(raw)
	switch {
	case r.IsArray():
		return r.Get("0.generated_text").String(), nil
	case r.IsObject():
		if g := r.Get("generated_text"); g.Exists() {
			return g.String(), nil
		}
		return r.Get("response").String(), nil
	default:
		return r.String(), nil
	}
}

func transportErr(err error) error {
	if isTimeout(err) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
