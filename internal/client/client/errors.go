package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/entrust/internal/common"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
)

// StatusError is a non-2xx answer from the server.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server answered %d", e.Code)
	}
	return fmt.Sprintf("server answered %d: %s", e.Code, e.Message)
}

func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return common.ErrorForbidden
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusBadRequest:
		return common.ErrorValidation
	case http.StatusConflict:
		if strings.Contains(e.Message, common.ErrorAlreadyExists.Error()) {
			return common.ErrorAlreadyExists
		}
		return common.ErrVersionConflict
	default:
		return nil
	}
}
