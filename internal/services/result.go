package services

import (
	"encoding/json"
	"fmt"
	"net/http"

	"crmsync/internal/domain"
)

type messageBody struct {
	Message string `json:"message"`
}

type reasonBody struct {
	Reason string `json:"reason"`
}

func jsonBody(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		// Only string fields are marshalled here.
		return "{}"
	}
	return string(b)
}

func successResult(message string) domain.Result {
	return domain.Result{StatusCode: http.StatusOK, Body: jsonBody(messageBody{Message: message})}
}

func redirectResult(location string) domain.Result {
	return domain.Result{StatusCode: http.StatusFound, Headers: map[string]string{"Location": location}}
}

func failureResult(err *domain.SyncError) domain.Result {
	status := err.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return domain.Result{StatusCode: status, Body: jsonBody(reasonBody{Reason: err.Reason})}
}

func successMessage(method domain.SignupMethod, result domain.Result) string {
	if result.StatusCode == http.StatusFound {
		return fmt.Sprintf("%s succeeded, redirecting to %s", method, result.Headers["Location"])
	}
	var body messageBody
	if err := json.Unmarshal([]byte(result.Body), &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fmt.Sprintf("%s succeeded", method)
}
