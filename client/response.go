package client

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// response is the standard GraphQL over HTTP response envelope.
type response struct {
	Data   jsontext.Value `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// ParseResponse decodes a GraphQL HTTP response, surfacing transport and
// GraphQL-level errors, and unmarshals the data payload into out.
func ParseResponse(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status %d: %s", resp.StatusCode, body)
	}

	var res response
	if err := json.Unmarshal(body, &res); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(res.Errors) > 0 {
		messages := make([]string, 0, len(res.Errors))
		for _, e := range res.Errors {
			messages = append(messages, e.Message)
		}
		return fmt.Errorf("graphql error: %s", messages)
	}

	if res.Data == nil {
		return fmt.Errorf("no data in response: %s", body)
	}

	if err := json.Unmarshal(res.Data, out); err != nil {
		return fmt.Errorf("failed to decode graphql data: %w", err)
	}

	return nil
}
