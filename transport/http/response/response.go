package response

import (
	"encoding/json"
	"net/http"
	"stayfinder/shared/constant"
	"stayfinder/shared/failure"
	"stayfinder/shared/logger"
)

// Data is the success envelope: {"data": ...}.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

// Error is the failure envelope: {"error": "..."}.
type Error struct {
	Error *string `json:"error,omitempty"`
}

// Message is the acknowledgement envelope: {"message": "..."}.
type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError renders a failure with its own status and text. Anything else is logged
// with its stack and reported as a generic internal error.
func WithError(writer http.ResponseWriter, err error) {
	message := err.Error()

	if failure.GetKind(err) == failure.KindUnexpected {
		logger.ErrorWithStack(err)

		message = constant.ResponseErrorInternal
	}

	write(writer, failure.GetCode(err), Error{Error: &message})
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

// WithPreparingShutdown tells load balancers to drain this instance.
func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

// WithUnhealthy reports that a backing store did not answer.
func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)

		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
