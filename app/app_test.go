package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/phux/phishcheck/app"

	jd "github.com/josephburnett/jd/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

const backend = "http://backend.test"

func TestClient_Analyze(t *testing.T) {
	type httpResponse struct {
		statusCode int
		body       interface{}
		rawBody    string
	}

	tests := []struct {
		name           string
		input          string
		expectedBody   string
		mockedResponse httpResponse
		want           *app.Result
		wantErr        error
		wantMessage    string
	}{
		{
			name:         "Happy Path - findings in order",
			input:        "example.com/login",
			expectedBody: `{"url":"example.com/login"}`,
			mockedResponse: httpResponse{
				statusCode: 200,
				body: map[string]interface{}{
					"verdict": "Suspicious",
					"url":     "example.com/login",
					"findings": []map[string]string{
						{"description": "first"},
						{"description": "second"},
					},
				},
			},
			want: &app.Result{
				Verdict: "Suspicious",
				URL:     "example.com/login",
				Findings: []app.Finding{
					{Description: "first"},
					{Description: "second"},
				},
			},
		},
		{
			name:         "input is trimmed before sending",
			input:        "  https://example.com \n",
			expectedBody: `{"url":"https://example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 200,
				body:       `{"verdict":"Looks Safe","url":"https://example.com","findings":[]}`,
			},
			want: &app.Result{
				Verdict:  "Looks Safe",
				URL:      "https://example.com",
				Findings: []app.Finding{},
			},
		},
		{
			name:         "missing findings decode to an empty list",
			input:        "example.com",
			expectedBody: `{"url":"example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 200,
				body:       `{"verdict":"Looks Safe","url":"example.com"}`,
			},
			want: &app.Result{
				Verdict:  "Looks Safe",
				URL:      "example.com",
				Findings: []app.Finding{},
			},
		},
		{
			name:         "backend error message is surfaced verbatim",
			input:        "example.com",
			expectedBody: `{"url":"example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 500,
				body:       `{"error":"Could not process the URL"}`,
			},
			wantErr:     app.ErrAnalysisFailed,
			wantMessage: "Could not process the URL",
		},
		{
			name:         "non JSON error body falls back to the generic message",
			input:        "example.com",
			expectedBody: `{"url":"example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 502,
				rawBody:    "<html>Bad Gateway</html>",
			},
			wantErr:     app.ErrAnalysisFailed,
			wantMessage: app.GenericFailureMessage,
		},
		{
			name:         "empty error field falls back to the generic message",
			input:        "example.com",
			expectedBody: `{"url":"example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 400,
				body:       `{"error":""}`,
			},
			wantErr:     app.ErrAnalysisFailed,
			wantMessage: app.GenericFailureMessage,
		},
		{
			name:         "malformed success body",
			input:        "example.com",
			expectedBody: `{"url":"example.com"}`,
			mockedResponse: httpResponse{
				statusCode: 200,
				rawBody:    "not json",
			},
			wantErr: app.ErrMalformedResponse,
		},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			defer gock.Off()

			mock := gock.New(backend).
				Post("/analyze").
				MatchHeader("Content-Type", "application/json").
				AddMatcher(jsonBodyMatcher(t, tt.expectedBody)).
				Reply(tt.mockedResponse.statusCode)
			if tt.mockedResponse.rawBody != "" {
				mock.BodyString(tt.mockedResponse.rawBody)
			} else {
				mock.JSON(tt.mockedResponse.body)
			}

			client := app.NewClient(backend, &http.Client{}, app.Headers{})

			got, err := client.Analyze(context.Background(), tt.input)

			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			}
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, app.DisplayMessage(err))
			}
			assert.True(t, gock.IsDone())
		})
	}
}

func TestClient_Analyze_EmptyInputMakesNoRequest(t *testing.T) {
	defer gock.Off()

	gock.New(backend).
		Post("/analyze").
		Reply(200).
		JSON(`{"verdict":"Looks Safe","url":"x","findings":[]}`)

	client := app.NewClient(backend, &http.Client{}, app.Headers{})

	for _, input := range []string{"", "   ", "\t\n"} {
		got, err := client.Analyze(context.Background(), input)

		assert.ErrorIs(t, err, app.ErrEmptyURL)
		assert.Nil(t, got)
		assert.Equal(t, app.ValidationMessage, app.DisplayMessage(err))
	}

	assert.True(t, gock.IsPending())
}

func TestClient_Analyze_TransportFailure(t *testing.T) {
	defer gock.Off()

	gock.New(backend).
		Post("/analyze").
		ReplyError(errors.New("connection refused"))

	client := app.NewClient(backend, &http.Client{}, app.Headers{})

	got, err := client.Analyze(context.Background(), "example.com")

	assert.Nil(t, got)
	var transportErr *app.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "connection refused", app.DisplayMessage(err))
	assert.True(t, gock.IsDone())
}

func TestClient_Analyze_OversizedResponseIsCut(t *testing.T) {
	defer gock.Off()

	gock.New(backend).
		Post("/analyze").
		Reply(200).
		BodyString(`{"verdict":"Looks Safe","url":"example.com","findings":[{"description":"` +
			strings.Repeat("a", 2<<20) + `"}]}`)

	client := app.NewClient(backend, &http.Client{}, app.Headers{})

	got, err := client.Analyze(context.Background(), "example.com")

	assert.Nil(t, got)
	assert.ErrorIs(t, err, app.ErrMalformedResponse)
	assert.True(t, gock.IsDone())
}

func TestClient_Analyze_AppliesHeaders(t *testing.T) {
	defer gock.Off()

	headers := app.Headers{
		"X-Client":     "phishcheck",
		"Content-Type": "text/plain",
	}
	gock.New(backend).
		Post("/analyze").
		MatchHeader("X-Client", "phishcheck").
		MatchHeader("Content-Type", "application/json").
		Reply(200).
		JSON(`{"verdict":"Looks Safe","url":"example.com","findings":[]}`)

	client := app.NewClient(backend+"/", &http.Client{}, headers)

	_, err := client.Analyze(context.Background(), "example.com")

	assert.NoError(t, err)
	assert.True(t, gock.IsDone())
}

func TestNewHTTPClient(t *testing.T) {
	defer gock.Off()

	httpClient := app.NewHTTPClient(0, true)
	gock.InterceptClient(httpClient)
	defer gock.RestoreClient(httpClient)

	gock.New(backend).
		Post("/analyze").
		Reply(200).
		JSON(`{"verdict":"High Risk","url":"example.com","findings":[{"description":"AI Analysis: new domain"}]}`)

	client := app.NewClient(backend, httpClient, nil)

	got, err := client.Analyze(context.Background(), "example.com")

	require.NoError(t, err)
	assert.Equal(t, "High Risk", got.Verdict)
	assert.Len(t, got.Findings, 1)
	assert.True(t, gock.IsDone())
}

func TestDisplayMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: app.ErrEmptyURL, want: app.ValidationMessage},
		{name: "api error", err: &app.APIError{StatusCode: 400, Message: "URL is required"}, want: "URL is required"},
		{name: "transport error without url.Error", err: &app.TransportError{Err: errors.New("boom")}, want: "boom"},
		{name: "anything else", err: errors.New("context canceled"), want: "context canceled"},
	}

	for i := range tests {
		tt := tests[i]
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.DisplayMessage(tt.err))
		})
	}
}

func jsonBodyMatcher(t *testing.T, expected string) gock.MatchFunc {
	t.Helper()

	return func(req *http.Request, _ *gock.Request) (bool, error) {
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return false, err
		}
		req.Body = io.NopCloser(bytes.NewReader(body))

		want, err := jd.ReadJsonString(expected)
		if err != nil {
			return false, err
		}
		got, err := jd.ReadJsonString(string(body))
		if err != nil {
			return false, err
		}

		diff := want.Diff(got).Render()
		if diff != "" {
			t.Logf("request body mismatch:\n%s", diff)
		}

		return diff == "", nil
	}
}
