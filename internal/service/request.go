package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yourusername/hr-predictor/internal/models"
)

// DefaultTopN is the row count used when neither the request nor the
// configuration names one.
const DefaultTopN = 10

var requestValidator = validator.New()

// PredictionRequest is a matchup request as it arrives at the CLI or HTTP
// boundary. A nil TopN selects the configured default.
type PredictionRequest struct {
	Date string `json:"date" validate:"required,datetime=2006-01-02"`
	TopN *int   `json:"top_n,omitempty" validate:"omitempty,gte=0"`
}

// Resolve validates the request and returns the parsed date and row count.
// A malformed date or negative top_n is an ErrInvalidRequest; zero is
// allowed and yields an empty table.
func (r PredictionRequest) Resolve(defaultTopN int) (time.Time, int, error) {
	r.Date = strings.TrimSpace(r.Date)
	if err := requestValidator.Struct(r); err != nil {
		return time.Time{}, 0, fmt.Errorf("%w: %s", models.ErrInvalidRequest, describeRequestError(err))
	}

	date, err := models.ParseGameDate(r.Date)
	if err != nil {
		return time.Time{}, 0, err
	}

	topN := defaultTopN
	if r.TopN != nil {
		topN = *r.TopN
	}
	return date, topN, nil
}

func describeRequestError(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		switch fe.Field() {
		case "Date":
			msgs = append(msgs, fmt.Sprintf("date must be YYYY-MM-DD, got %q", fe.Value()))
		case "TopN":
			msgs = append(msgs, fmt.Sprintf("top_n must be non-negative, got %v", fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
