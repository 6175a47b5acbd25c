package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strconv"
)

// FormFile is a file part of a multipart upload.
type FormFile struct {
	Field    string
	FileName string
	Content  io.Reader
}

// FileFromPath opens path for upload under field. The caller closes the
// returned closer after the request.
func FileFromPath(field, path string) (*FormFile, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open upload %s: %w", path, err)
	}
	return &FormFile{Field: field, FileName: filepath.Base(path), Content: f}, f, nil
}

// FormData is a multipart/form-data request body. The client never sets a
// JSON content type for it; the boundary-carrying type comes from the
// multipart writer.
type FormData struct {
	fields [][2]string
	files  []*FormFile
}

func NewFormData() *FormData {
	return &FormData{}
}

func (f *FormData) Set(name, value string) *FormData {
	f.fields = append(f.fields, [2]string{name, value})
	return f
}

func (f *FormData) AddFile(file *FormFile) *FormData {
	if file != nil {
		f.files = append(f.files, file)
	}
	return f
}

// Field returns the first value set for name.
func (f *FormData) Field(name string) (string, bool) {
	for _, kv := range f.fields {
		if kv[0] == name {
			return kv[1], true
		}
	}
	return "", false
}

// FormFromStruct flattens the JSON representation of v into form fields,
// so the same input types serve JSON and multipart requests.
func FormFromStruct(v any) (*FormData, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode form fields: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("form fields must be an object: %w", err)
	}

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	form := NewFormData()
	for _, k := range keys {
		switch val := m[k].(type) {
		case nil:
			continue
		case string:
			form.Set(k, val)
		case bool:
			form.Set(k, strconv.FormatBool(val))
		case float64:
			form.Set(k, strconv.FormatFloat(val, 'f', -1, 64))
		default:
			nested, err := json.Marshal(val)
			if err != nil {
				return nil, err
			}
			form.Set(k, string(nested))
		}
	}
	return form, nil
}

// encode renders the body once; the bytes are replayed on retries.
func (f *FormData) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, kv := range f.fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.FileName)
		if err != nil {
			return nil, "", err
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", fmt.Errorf("copy %s: %w", file.FileName, err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
