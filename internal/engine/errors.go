package engine

import "fmt"

// ErrorCode is the closed set of error discriminators the engine can
// surface, per the design note that treats this as a closed enumeration
// rather than an open string.
type ErrorCode string

const (
	CompanyNotFound  ErrorCode = "company_not_found"
	CompanyAmbiguous ErrorCode = "company_ambiguous"
	MetricNotFound   ErrorCode = "metric_not_found"
	RatioNotFound    ErrorCode = "ratio_not_found"
	NoData           ErrorCode = "no_data"
	RateLimited      ErrorCode = "rate_limited"
	APIError         ErrorCode = "api_error"
	Validation       ErrorCode = "validation"
)

// HTTPStatus maps an ErrorCode to the status code the thin HTTP surface
// returns for it.
func (c ErrorCode) HTTPStatus() int {
	switch c {
	case CompanyNotFound, NoData:
		return 404
	case CompanyAmbiguous, Validation, MetricNotFound, RatioNotFound:
		return 400
	case RateLimited:
		return 429
	case APIError:
		return 502
	default:
		return 500
	}
}

// Error is the single error type every engine operation returns, carrying
// a closed ErrorCode plus whatever structured detail that code implies
// (suggestions, concepts tried, catalog listing).
type Error struct {
	Code    ErrorCode
	Message string
	Detail  interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
