package response

// Response is the common JSON envelope for dashboard API replies.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

const (
	StatusOk    = "OK"
	StatusError = "Error"
)

func Ok(message string) Response {
	return Response{
		Status:  StatusOk,
		Message: message,
	}
}

func OkData(data any) Response {
	return Response{
		Status: StatusOk,
		Data:   data,
	}
}

func Error(message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
	}
}
