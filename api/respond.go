package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/rpupo63/blog-platform-backend/errs"
)

// Responder writes the JSON envelope every endpoint uses. It is the single
// place errors become response bodies; handlers never format error JSON
// themselves.
type Responder struct {
	logger zerolog.Logger
	dev    bool
}

// NewResponder returns a Responder. When dev is true, error responses
// include the underlying error chain.
func NewResponder(logger zerolog.Logger, dev bool) Responder {
	return Responder{logger: logger, dev: dev}
}

func (r Responder) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(statusCode)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

// WriteData writes a 200 success envelope around data.
func (r Responder) WriteData(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusOK, dataResponse{Success: true, Data: data})
}

// WriteCreated writes a 201 success envelope around data.
func (r Responder) WriteCreated(w http.ResponseWriter, data any) {
	r.writeJSON(w, http.StatusCreated, dataResponse{Success: true, Data: data})
}

// WriteList writes the paginated listing envelope.
func (r Responder) WriteList(w http.ResponseWriter, count int, pagination *Pagination, data any) {
	r.writeJSON(w, http.StatusOK, listResponse{
		Success:    true,
		Count:      count,
		Pagination: pagination,
		Data:       data,
	})
}

// WriteToken writes the token envelope with the given status.
func (r Responder) WriteToken(w http.ResponseWriter, statusCode int, token string, data any) {
	r.writeJSON(w, statusCode, tokenResponse{Success: true, Token: token, Data: data})
}

// WriteError normalizes err into the failure envelope. ApiErr values keep
// their status code and message; anything else becomes a 500 with a
// generic message.
func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr
	if !errors.As(err, &apiErr) {
		r.logger.Error().Err(err).Msg("unexpected error")
		resp := errorResponse{Success: false, Message: "Server Error"}
		if r.dev {
			resp.Detail = err.Error()
		}
		r.writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	if apiErr.StatusCode >= http.StatusInternalServerError {
		r.logger.Error().Err(err).Str("detail", apiErr.GetFullError()).Msg("internal error")
	}

	resp := errorResponse{Success: false, Message: errs.Message(apiErr)}
	if r.dev && apiErr.Cause != nil {
		resp.Detail = apiErr.GetFullError()
	}
	r.writeJSON(w, apiErr.StatusCode, resp)
}
