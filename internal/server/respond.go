package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/retroboard/internal/board"
	"github.com/user/retroboard/internal/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 64 << 10

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(kind board.Kind) int {
	switch kind {
	case board.KindNotFound:
		return http.StatusNotFound
	case board.KindInvalidInput, board.KindInvalidCategory, board.KindInvalidDuration:
		return http.StatusBadRequest
	case board.KindInvalidTransition:
		return http.StatusConflict
	case board.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := board.KindOf(err)
	status := statusFor(kind)
	msg := err.Error()
	var be *board.Error
	if errors.As(err, &be) && be.Msg != "" {
		msg = be.Msg
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg, Kind: string(kind)})
}

func invalidInput(format string, args ...any) error {
	return &board.Error{Kind: board.KindInvalidInput, Op: "http", Msg: fmt.Sprintf(format, args...)}
}

// decode reads a JSON body into dst and runs its validate tags.
func decode(r *http.Request, dst any) error {
	return decodeBody(r, dst, false)
}

// decodeOptional is decode for handlers where a missing body leaves dst at
// its zero value.
func decodeOptional(r *http.Request, dst any) error {
	return decodeBody(r, dst, true)
}

func decodeBody(r *http.Request, dst any, optional bool) error {
	body := io.LimitReader(r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if !errors.Is(err, io.EOF) {
			return invalidInput("invalid JSON: %v", err)
		}
		if !optional {
			return invalidInput("request body is required")
		}
	}
	if err := validate.Struct(dst); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidInput("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}
	return invalidInput("%s", strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s long", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// itemID parses the {id} path parameter. Unparseable ids resolve to nothing,
// so they surface as not found.
func itemID(r *http.Request) (types.ItemID, error) {
	raw := chi.URLParam(r, "id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n <= 0 {
		return 0, &board.Error{Kind: board.KindNotFound, Op: "http", Msg: "item " + raw + " not found"}
	}
	return types.ItemID(n), nil
}

func notFound(format string, args ...any) error {
	return &board.Error{Kind: board.KindNotFound, Op: "http", Msg: fmt.Sprintf(format, args...)}
}
