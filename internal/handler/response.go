package handler

// Response is the envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  []string    `json:"errors,omitempty"`
}

// PagedResponse wraps list payloads with paging metadata.
type PagedResponse struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"currentPage"`
	PageSize    int         `json:"pageSize"`
	TotalCount  int64       `json:"totalCount"`
	TotalPages  int         `json:"totalPages"`
}

// NewPagedResponse computes the page count from the total.
func NewPagedResponse(data interface{}, page, pageSize int, total int64) PagedResponse {
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}
	return PagedResponse{
		Data:        data,
		CurrentPage: page,
		PageSize:    pageSize,
		TotalCount:  total,
		TotalPages:  totalPages,
	}
}

func ok(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

func fail(message string, errs ...string) Response {
	return Response{Success: false, Message: message, Errors: errs}
}
