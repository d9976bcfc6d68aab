package apiclient

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

var (
	errMissingField = errors.New("required field is missing")
	errNotObject    = errors.New("expected a JSON object")
)

const (
	fieldError        = "error"
	fieldErrorMessage = "error_message"
	fieldErrorCode    = "error_code"
	fieldData         = "data"
	fieldPagination   = "pagination"
	fieldHasMore      = "has_more"
	fieldPageNumber   = "page_number"
	fieldPageSize     = "page_size"
	fieldTotalCount   = "total_count"
)

// decode turns a response body into an envelope for variant v. It parses the
// body generically, projects the error and pagination overlays out of the flat
// object, applies the variant rules to what is left of data and only then
// decodes data into T.
func decode[T any](v variant, body []byte) (*ResourceEnvelope[T], error) {
	fail := func(field string, err error) error {
		return &DecodeError{Variant: v.Name, Field: field, Err: err}
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fail("", errors.Wrap(err, "malformed JSON"))
	}
	if raw == nil {
		return nil, fail("", errNotObject)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fail("", errors.New("malformed JSON: trailing data after the response object"))
	}

	env := &ResourceEnvelope[T]{}
	if derr := projectErrorOverlay(raw, &env.Error); derr != nil {
		derr.Variant = v.Name
		return nil, derr
	}

	rawData, present := raw[fieldData]
	var data map[string]interface{}
	if present && rawData != nil {
		var ok bool
		if data, ok = rawData.(map[string]interface{}); !ok {
			return nil, fail(fieldData, errNotObject)
		}
	}

	if derr := projectPagination(raw, data, &env.Pagination); derr != nil {
		derr.Variant = v.Name
		return nil, derr
	}

	if data == nil {
		if env.Error.Error {
			return env, nil
		}
		return nil, fail(fieldData, errMissingField)
	}

	if !env.Error.Error {
		for _, key := range v.Required {
			if val, ok := data[key]; !ok || val == nil {
				return nil, fail(fieldData+"."+key, errMissingField)
			}
		}
	}

	v.apply(data)

	remainder, err := json.Marshal(data)
	if err != nil {
		return nil, fail(fieldData, err)
	}
	out := new(T)
	if err := json.Unmarshal(remainder, out); err != nil {
		// data is best effort on a logical error; keep the overlay
		if env.Error.Error {
			return env, nil
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return nil, fail(fieldData+"."+typeErr.Field, err)
		}
		return nil, fail(fieldData, err)
	}
	env.Data = out

	return env, nil
}

func projectErrorOverlay(raw map[string]interface{}, overlay *ErrorOverlay) *DecodeError {
	val, ok := raw[fieldError]
	if !ok || val == nil {
		return &DecodeError{Field: fieldError, Err: errMissingField}
	}
	b, ok := val.(bool)
	if !ok {
		return &DecodeError{Field: fieldError, Err: errors.Errorf("expected bool, got %T", val)}
	}
	overlay.Error = b

	switch msg := raw[fieldErrorMessage].(type) {
	case nil:
	case string:
		overlay.ErrorMessage = &msg
	default:
		return &DecodeError{Field: fieldErrorMessage, Err: errors.Errorf("expected string, got %T", msg)}
	}

	code, err := optionalInt(raw[fieldErrorCode])
	if err != nil {
		return &DecodeError{Field: fieldErrorCode, Err: err}
	}
	overlay.ErrorCode = code

	return nil
}

// projectPagination fills overlay from the first place each field is found:
// the top level, then as a sibling of the resource fields inside data, then
// inside data.pagination. Pagination fields are removed from data.
func projectPagination(raw, data map[string]interface{}, overlay *PaginationOverlay) *DecodeError {
	sources := []map[string]interface{}{raw}
	if data != nil {
		sources = append(sources, data)
		if nested, ok := data[fieldPagination].(map[string]interface{}); ok {
			sources = append(sources, nested)
		}
	}
	lookup := func(key string) interface{} {
		for _, src := range sources {
			if val, ok := src[key]; ok && val != nil {
				return val
			}
		}
		return nil
	}

	switch hasMore := lookup(fieldHasMore).(type) {
	case nil:
	case bool:
		overlay.HasMore = hasMore
	default:
		return &DecodeError{Field: fieldHasMore, Err: errors.Errorf("expected bool, got %T", hasMore)}
	}

	for _, f := range []struct {
		key string
		dst **int
	}{
		{fieldPageNumber, &overlay.PageNumber},
		{fieldPageSize, &overlay.PageSize},
		{fieldTotalCount, &overlay.TotalCount},
	} {
		n, err := optionalInt(lookup(f.key))
		if err != nil {
			return &DecodeError{Field: f.key, Err: err}
		}
		*f.dst = n
	}

	if data != nil {
		for _, key := range []string{fieldPagination, fieldHasMore, fieldPageNumber, fieldPageSize, fieldTotalCount} {
			delete(data, key)
		}
	}
	return nil
}

// optionalInt accepts a JSON number or a numeric string.
func optionalInt(val interface{}) (*int, error) {
	var s string
	switch v := val.(type) {
	case nil:
		return nil, nil
	case json.Number:
		s = v.String()
	case string:
		s = v
	default:
		return nil, errors.Errorf("expected integer, got %T", val)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, errors.Wrapf(err, "expected integer, got %q", s)
	}
	return &n, nil
}
