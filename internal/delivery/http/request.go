package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"crmsync/internal/domain"
)

// maxBodyBytes bounds a signup body.
const maxBodyBytes = 1 << 20

// ErrMalformedBody is returned when a signup body cannot be decoded into flat parameters.
var ErrMalformedBody = errors.New("request body must be a JSON object or a form")

// DecodeSignup turns an HTTP request into a RawRequest. Query parameters are merged first
// and body fields override them. JSON, url-encoded and multipart form bodies are accepted; an empty body is fine.
func DecodeSignup(w http.ResponseWriter, r *http.Request) (domain.RawRequest, error) {
	params := make(map[string]any)
	mergeValues(params, r.URL.Query())

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return domain.RawRequest{}, errors.Join(ErrMalformedBody, err)
		}
		mergeValues(params, r.PostForm)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return domain.RawRequest{}, errors.Join(ErrMalformedBody, err)
		}
		defer r.MultipartForm.RemoveAll()
		mergeValues(params, r.MultipartForm.Value)
	default:
		body := make(map[string]any)
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return domain.RawRequest{}, errors.Join(ErrMalformedBody, err)
		}
		for k, v := range body {
			params[k] = v
		}
	}

	return domain.RawRequest{
		HTTPMethod: r.Method,
		Path:       r.URL.Path,
		Params:     params,
	}, nil
}

// mergeValues copies the first value of each key into params.
func mergeValues(params map[string]any, values map[string][]string) {
	for k, vs := range values {
		if len(vs) > 0 {
			params[k] = vs[0]
		}
	}
}
