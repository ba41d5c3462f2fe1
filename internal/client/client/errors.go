package client

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/areaportal/internal/common"
)

// maxErrorBody bounds how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// statusError classifies an HTTP status into the common error taxonomy.
func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case status == http.StatusForbidden:
		return common.ErrForbidden
	case status == http.StatusNotFound:
		return common.ErrNotFound
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity, status == http.StatusConflict:
		return common.ErrValidation
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return common.ErrUnavailable
	default:
		return nil
	}
}

// errorBody covers the message shapes the API uses for failures.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

// mapResponseError turns a non-2xx response into *common.APIError, keeping
// the server message when there is one.
func mapResponseError(resp *http.Response) error {
	apiErr := &common.APIError{Status: resp.StatusCode, Err: statusError(resp.StatusCode)}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			apiErr.Message = body.Message
		case body.Error != "":
			apiErr.Message = body.Error
		case body.Detail != "":
			apiErr.Message = body.Detail
		}
	} else if text := strings.TrimSpace(string(raw)); text != "" && !strings.HasPrefix(text, "<") {
		apiErr.Message = text
	}

	if apiErr.Message == "" && apiErr.Err != nil {
		apiErr.Message = common.UserMessage(apiErr.Err)
	}
	return apiErr
}
