package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"
)

const (
	headerAccept        = "Accept"
	headerAuthorization = "Authorization"
	headerContentType   = "Content-Type"
	headerRequestID     = "X-Request-Id"

	contentTypeJSON = "application/json"
)

// RequestOptions describes one logical API call. Method defaults to GET.
// SkipAuth sends the call without a bearer token and keeps it out of the
// refresh-and-retry protocol.
type RequestOptions struct {
	Method   string
	Body     RequestBody
	Headers  map[string]string
	Query    url.Values
	SkipAuth bool
}

// RequestBody is encoded once per logical call so a retry replays the same
// bytes.
type RequestBody interface {
	Encode() (payload []byte, contentType string, err error)
}

// JSONBody marshals Value as the request payload.
type JSONBody struct {
	Value any
}

func (b JSONBody) Encode() ([]byte, string, error) {
	if raw, ok := b.Value.(json.RawMessage); ok {
		return append([]byte(nil), raw...), contentTypeJSON, nil
	}
	payload, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", err
	}
	return payload, contentTypeJSON, nil
}

type multipartField struct {
	name  string
	value string
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
	content     []byte
}

// MultipartBody is a multipart/form-data payload. The encoder owns the
// boundary, so any caller Content-Type header is dropped.
type MultipartBody struct {
	fields []multipartField
	files  []multipartFile
}

func NewMultipartBody() *MultipartBody {
	return &MultipartBody{}
}

func (m *MultipartBody) AddField(name string, value string) *MultipartBody {
	m.fields = append(m.fields, multipartField{name: name, value: value})
	return m
}

// AddFile attaches a file part. An empty contentType is sent as
// application/octet-stream.
func (m *MultipartBody) AddFile(field string, filename string, contentType string, content []byte) *MultipartBody {
	m.files = append(m.files, multipartFile{
		field:       field,
		filename:    filename,
		contentType: contentType,
		content:     append([]byte(nil), content...),
	})
	return m
}

func (m *MultipartBody) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields) + len(m.files)
}

func (m *MultipartBody) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if m != nil {
		for _, field := range m.fields {
			if err := writer.WriteField(field.name, field.value); err != nil {
				return nil, "", err
			}
		}
		for _, file := range m.files {
			part, err := writer.CreatePart(filePartHeader(file))
			if err != nil {
				return nil, "", err
			}
			if _, err := part.Write(file.content); err != nil {
				return nil, "", err
			}
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), writer.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func filePartHeader(file multipartFile) textproto.MIMEHeader {
	contentType := strings.TrimSpace(file.contentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.filename)))
	header.Set(headerContentType, contentType)
	return header
}

type preparedRequest struct {
	method    string
	path      string
	url       string
	headers   map[string]string
	body      []byte
	skipAuth  bool
	requestID string
}

func (c *Client) prepare(path string, opts RequestOptions) (preparedRequest, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return preparedRequest{}, badInputError("core: request path is required")
	}
	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = "GET"
	}
	if encoded := opts.Query.Encode(); encoded != "" {
		if strings.Contains(path, "?") {
			path += "&" + encoded
		} else {
			path += "?" + encoded
		}
	}

	headers := make(map[string]string, len(opts.Headers)+4)
	for key, value := range opts.Headers {
		headers[textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(key))] = value
	}
	headers[headerAccept] = contentTypeJSON
	headers[headerContentType] = contentTypeJSON
	delete(headers, headerAuthorization)

	var payload []byte
	if opts.Body != nil {
		encoded, contentType, err := opts.Body.Encode()
		if err != nil {
			return preparedRequest{}, badInputError(fmt.Sprintf("core: encode request body: %v", err))
		}
		payload = encoded
		headers[headerContentType] = contentType
	}

	requestID := ""
	if c.requestID != nil {
		requestID = c.requestID()
	}
	if requestID != "" {
		headers[headerRequestID] = requestID
	}

	return preparedRequest{
		method:    method,
		path:      path,
		url:       c.config.endpoint(path),
		headers:   headers,
		body:      payload,
		skipAuth:  opts.SkipAuth,
		requestID: requestID,
	}, nil
}

func (r preparedRequest) logFields(attempt int) map[string]any {
	fields := map[string]any{
		"method":  r.method,
		"path":    r.path,
		"attempt": attempt,
	}
	if r.requestID != "" {
		fields["request_id"] = r.requestID
	}
	return fields
}
