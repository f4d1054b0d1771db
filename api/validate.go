package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/rpupo63/blog-platform-backend/errs"
)

// rule is one declarative check against a JSON body field.
type rule struct {
	field   string
	message string
	valid   func(value any, present bool) bool
}

func required(field, message string) rule {
	return rule{field: field, message: message, valid: func(v any, present bool) bool {
		if !present {
			return false
		}
		s, ok := v.(string)
		if !ok {
			return v != nil
		}
		return strings.TrimSpace(s) != ""
	}}
}

// maxLen passes when the field is absent; pair with required when the
// field is mandatory.
func maxLen(field string, n int, message string) rule {
	return rule{field: field, message: message, valid: func(v any, present bool) bool {
		s, ok := v.(string)
		if !present || !ok {
			return true
		}
		return len(s) <= n
	}}
}

func minLen(field string, n int, message string) rule {
	return rule{field: field, message: message, valid: func(v any, present bool) bool {
		s, ok := v.(string)
		if !present || !ok {
			return true
		}
		return len(s) >= n
	}}
}

func validEmail(field, message string) rule {
	return rule{field: field, message: message, valid: func(v any, present bool) bool {
		s, ok := v.(string)
		if !present || !ok {
			return false
		}
		at := strings.Index(s, "@")
		dot := strings.LastIndex(s, ".")
		return at > 0 && dot > at+1 && dot < len(s)-1
	}}
}

// Per-route rule sets, mirroring the request contracts.
var (
	registerRules = []rule{
		required("name", "Name is required"),
		validEmail("email", "Please include a valid email"),
		minLen("password", 6, "Password must be at least 6 characters"),
		required("password", "Password is required"),
	}
	loginRules = []rule{
		validEmail("email", "Please include a valid email"),
		required("password", "Password is required"),
	}
	updatePasswordRules = []rule{
		required("currentPassword", "Current password is required"),
		minLen("newPassword", 6, "Password must be at least 6 characters"),
		required("newPassword", "New password is required"),
	}
	postRules = []rule{
		required("title", "Title is required"),
		maxLen("title", 200, "Title cannot be more than 200 characters"),
		required("content", "Content is required"),
		minLen("content", 10, "Content must be at least 10 characters"),
		required("category", "Category is required"),
	}
	categoryRules = []rule{
		required("name", "Name is required"),
		maxLen("name", 50, "Category name cannot be more than 50 characters"),
		maxLen("description", 500, "Description cannot be more than 500 characters"),
	}
	commentRules = []rule{
		required("text", "Text is required"),
	}
)

// validateBody buffers the JSON body, runs the rules against it, and
// short-circuits with a single 400 joining every failure. The body is
// restored for the handler.
func validateBody(responder Responder, rules []rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				responder.WriteError(w, errs.NewBadRequestError("failed to read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))

			var body map[string]any
			if len(bodyBytes) > 0 {
				if err := json.Unmarshal(bodyBytes, &body); err != nil {
					responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
					return
				}
			}

			var messages []string
			for _, rule := range rules {
				value, present := body[rule.field]
				if !rule.valid(value, present) {
					messages = append(messages, rule.message)
				}
			}
			if len(messages) > 0 {
				responder.WriteError(w, errs.NewValidationError(messages...))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
