package api

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	Success string = "success" //The command ended successfully
	Error   string = "error"   //The command ended with error - check the message field
)

// GenericRequest is the JSON input accepted by commands reading structured data, e.g. {"data": {"title": "..."}}.
type GenericRequest struct {
	Data map[string]any `json:"data"`
}

func (genericRequest *GenericRequest) Load(input []byte) error {
	err := json.Unmarshal(input, genericRequest)
	if err != nil {
		return err
	}
	if genericRequest.Data == nil {
		return fmt.Errorf("missing data object")
	}
	return nil
}

type RestJsonResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"created post 1"`
	Data    any    `json:"data"`
}

func NewGenericResponse(status string, message string, data any) RestJsonResponse {
	return RestJsonResponse{
		Status:  status,
		Message: message,
		Data:    data,
	}
}

func NewErrorResponse(message string) RestJsonResponse {
	return RestJsonResponse{
		Status:  Error,
		Message: message,
		Data:    map[string]any{},
	}
}

func NewErrorResponsef(format string, a ...any) RestJsonResponse {
	return NewErrorResponse(fmt.Sprintf(format, a...))
}

// Write encodes the response as indented JSON followed by a newline.
func (r RestJsonResponse) Write(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}
