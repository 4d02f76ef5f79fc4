package request

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
	"strings"

	"social_auth/dto"
	"social_auth/utils"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError aborts a request with a ready-made API response.
type ValidationError struct {
	Response dto.APIResponse
}

func (e *ValidationError) Error() string {
	return e.Response.Message
}

type DeleteNotificationRequest struct {
	dto.DeleteNotification
}

// Authorize always permits the request; ownership is checked by the handler.
func (req *DeleteNotificationRequest) Authorize(r *http.Request) bool {
	return true
}

// BindDeleteNotification reads user_id and notification_id from a JSON or
// form body and the query string. Query values win.
func BindDeleteNotification(r *http.Request) (*DeleteNotificationRequest, error) {
	input, err := readInput(r)
	if err != nil {
		log.Debug().Err(err).Msg("Unreadable delete notification body")
	}

	req := &DeleteNotificationRequest{}
	req.UserID = input["user_id"]
	req.NotificationID = input["notification_id"]

	if !req.Authorize(r) {
		return nil, &ValidationError{Response: utils.APIResponse(nil, http.StatusForbidden, http.StatusText(http.StatusForbidden))}
	}

	if err := validate.Struct(req.DeleteNotification); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
			return nil, err
		}
		return nil, &ValidationError{
			Response: utils.APIResponse(nil, http.StatusNotFound, message(r, fieldErrs[0])),
		}
	}
	return req, nil
}

func message(r *http.Request, fe validator.FieldError) string {
	attribute := strings.ReplaceAll(fe.Field(), "_", " ")
	switch fe.Tag() {
	case "required":
		return utils.Translate(r, "validation.required", attribute)
	default:
		return fmt.Sprintf("The %s field is invalid.", attribute)
	}
}

func readInput(r *http.Request) (map[string]string, error) {
	input := map[string]string{}
	keys := []string{"user_id", "notification_id"}

	if r.Body != nil && r.ContentLength != 0 {
		mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		switch mediaType {
		case "application/json":
			var body map[string]any
			dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
			dec.UseNumber()
			if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
				return input, err
			}
			for _, key := range keys {
				if v, ok := body[key]; ok && v != nil {
					input[key] = strings.TrimSpace(jsonScalar(v))
				}
			}
		case "application/x-www-form-urlencoded", "multipart/form-data":
			if err := r.ParseForm(); err != nil {
				return input, err
			}
			for _, key := range keys {
				if v := strings.TrimSpace(r.PostForm.Get(key)); v != "" {
					input[key] = v
				}
			}
		}
	}

	query := r.URL.Query()
	for _, key := range keys {
		if v := strings.TrimSpace(query.Get(key)); v != "" {
			input[key] = v
		}
	}
	return input, nil
}

func jsonScalar(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case json.Number:
		return value.String()
	case bool:
		return fmt.Sprint(value)
	default:
		return ""
	}
}

type contextKey struct{}

// ValidateDeleteNotification stops the chain with the validation response
// when the request is invalid.
func ValidateDeleteNotification(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := BindDeleteNotification(r)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				utils.WriteAPIResponse(w, verr.Response)
				return
			}
			utils.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), contextKey{}, req)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func DeleteNotificationFromContext(ctx context.Context) (*DeleteNotificationRequest, bool) {
	req, ok := ctx.Value(contextKey{}).(*DeleteNotificationRequest)
	return req, ok
}
