package httpsender

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/abbacchio/abbacchio-go/logging"
)

// Sender POSTs batches to the Abbacchio endpoint as {"logs": [...]}.
// It makes a single attempt per batch; the transport owns the
// drop-on-failure policy, so there is no retry path here.
type Sender struct {
	url        string
	headers    map[string]string
	httpClient *http.Client
}

type payload struct {
	Logs []logging.Entry `json:"logs"`
}

// New creates a sender from the transport configuration. User headers
// override the Content-Type and X-Channel defaults.
func New(config logging.Config) *Sender {
	config = config.WithDefaults()

	headers := map[string]string{
		"Content-Type": "application/json",
		"X-Channel":    config.Channel,
	}
	for k, v := range config.Headers {
		headers[k] = v
	}

	return &Sender{
		url:     config.URL,
		headers: headers,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

// SendBatch delivers one batch in a single request. Sending an empty
// batch is a no-op.
func (s *Sender) SendBatch(entries []logging.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	body, err := json.Marshal(payload{Logs: entries})
	if err != nil {
		return errors.Wrap(err, "marshal payload")
	}

	req, err := http.NewRequest(http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "create request")
	}

	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		responseBody, _ := io.ReadAll(resp.Body)
		return errors.Errorf("server returned status %d: %s", resp.StatusCode, string(responseBody))
	}

	return nil
}

// Close releases idle connections held by the HTTP client.
func (s *Sender) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}
