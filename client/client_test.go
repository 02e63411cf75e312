package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
)

func TestPost(t *testing.T) {
	t.Parallel()

	type data struct {
		Name string `json:"name"`
	}

	var gotBody struct {
		OperationName string `json:"operationName"`
		Query         string `json:"query"`
	}
	var gotHeader http.Header

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		gotHeader = req.Header.Clone()
		if err := json.UnmarshalRead(req.Body, &gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if _, err := writer.Write([]byte(`{"data":{"name":"gopher"}}`)); err != nil {
			t.Errorf("failed to write response: %v", err)
		}
	}))
	defer server.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer token")
	c := NewClient(server.URL, WithHTTPClient(server.Client()), WithHTTPHeader(header))

	var out data
	if err := c.Post(t.Context(), "Details", "query Details { name }", nil, &out); err != nil {
		t.Fatalf("Post() failed: %v", err)
	}

	if out.Name != "gopher" {
		t.Errorf("decoded name = %q, want gopher", out.Name)
	}
	if gotBody.OperationName != "Details" {
		t.Errorf("operationName = %q, want Details", gotBody.OperationName)
	}
	if !strings.Contains(gotBody.Query, "query Details") {
		t.Errorf("query not forwarded: %q", gotBody.Query)
	}
	if got := gotHeader.Get("Authorization"); got != "Bearer token" {
		t.Errorf("Authorization header = %q, want the configured value", got)
	}
	if got := gotHeader.Get("Content-Type"); got != "application/json; charset=utf-8" {
		t.Errorf("Content-Type header = %q", got)
	}
}

func TestParseResponse(t *testing.T) {
	t.Parallel()

	type data struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name        string
		status      int
		body        string
		errContains string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"data":{"name":"gopher"}}`,
		},
		{
			name:        "http error status",
			status:      http.StatusInternalServerError,
			body:        `boom`,
			errContains: "http status 500",
		},
		{
			name:        "graphql errors",
			status:      http.StatusOK,
			body:        `{"errors":[{"message":"field missing"}]}`,
			errContains: "graphql error",
		},
		{
			name:        "missing data",
			status:      http.StatusOK,
			body:        `{}`,
			errContains: "no data in response",
		},
		{
			name:        "malformed body",
			status:      http.StatusOK,
			body:        `{`,
			errContains: "failed to decode response body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			recorder := httptest.NewRecorder()
			recorder.WriteHeader(tt.status)
			if _, err := recorder.WriteString(tt.body); err != nil {
				t.Fatal(err)
			}

			var out data
			err := ParseResponse(recorder.Result(), &out)

			if tt.errContains == "" {
				if err != nil {
					t.Fatalf("ParseResponse() failed: %v", err)
				}
				if out.Name != "gopher" {
					t.Errorf("decoded name = %q, want gopher", out.Name)
				}
				return
			}
			if err == nil {
				t.Fatal("error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Errorf("error = %q, want to contain %q", err, tt.errContains)
			}
		})
	}
}
