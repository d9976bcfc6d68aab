package apiclient

// ErrorOverlay holds the error fields the API places at the top level of every
// response.
type ErrorOverlay struct {
	Error        bool    `json:"error"`
	ErrorMessage *string `json:"error_message"`
	ErrorCode    *int    `json:"error_code"`
}

// PaginationOverlay holds the paging fields that travel next to a resource's
// own fields. Numeric fields are normalised to ints whether the wire carried a
// number or a numeric string.
type PaginationOverlay struct {
	HasMore    bool `json:"has_more"`
	PageNumber *int `json:"page_number"`
	PageSize   *int `json:"page_size"`
	TotalCount *int `json:"total_count"`
}

// ResourceEnvelope is a decoded response. When Error.Error is false Data is
// non-nil; when it is true Data may be nil.
type ResourceEnvelope[T any] struct {
	Data       *T                `json:"data"`
	Error      ErrorOverlay      `json:"error"`
	Pagination PaginationOverlay `json:"pagination"`
}

// Err converts a logical API failure into an error value, or returns nil.
func (e *ResourceEnvelope[T]) Err() error {
	if !e.Error.Error {
		return nil
	}
	apiErr := &APIError{}
	if e.Error.ErrorCode != nil {
		apiErr.Code = *e.Error.ErrorCode
	}
	if e.Error.ErrorMessage != nil {
		apiErr.Message = *e.Error.ErrorMessage
	}
	return apiErr
}
