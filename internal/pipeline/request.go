package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"net/url"
	"slices"
	"strings"
)

// Request describes one call before it is dispatched.
type Request struct {
	// Endpoint is the catalog name, used for logs and span names.
	Endpoint string
	Method   string
	// Path is relative to the base address and already escaped.
	Path   string
	Query  url.Values
	Header http.Header
	// Body is encoded as JSON when non-nil. Ignored when Form is set.
	Body any
	Form *MultipartForm
}

// MultipartForm is a multipart/form-data body with one file part.
type MultipartForm struct {
	FieldName string
	FileName  string
	Content   io.Reader
	Fields    map[string]string
}

// newHTTPRequest resolves r against base and encodes its body.
func newHTTPRequest(ctx context.Context, base string, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	target, err := url.Parse(strings.TrimRight(base, "/") + "/" + strings.TrimLeft(r.Path, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if len(r.Query) > 0 {
		q := target.Query()
		for k, vs := range r.Query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		target.RawQuery = q.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case r.Form != nil:
		buf, ct, err := encodeMultipart(r.Form)
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case r.Body != nil:
		data, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	for k, vs := range r.Header {
		req.Header[k] = slices.Clone(vs)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func encodeMultipart(form *MultipartForm) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	field := form.FieldName
	if field == "" {
		field = "file"
	}
	part, err := w.CreateFormFile(field, form.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if form.Content != nil {
		if _, err := io.Copy(part, form.Content); err != nil {
			return nil, "", fmt.Errorf("copy file part: %w", err)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(form.Fields)) {
		if err := w.WriteField(k, form.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
