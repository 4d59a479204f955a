package weather

import (
	"errors"
	"fmt"

	"github.com/i474232898/weatherstack-dashboard/internal/weatherstack"
)

// ErrDateRequired is returned when a historical lookup has no date to ask for.
var ErrDateRequired = errors.New("select a date to load historical weather")

// networkMessage is shown for every transport failure regardless of cause.
const networkMessage = "network error"

// ValidationError reports user input the orchestrator refused to send upstream.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// DisplayMessage reduces any orchestration error to the single string the
// view-state shows. Service errors surface the service's own text.
func DisplayMessage(err error) string {
	var (
		apiErr *weatherstack.APIError
		netErr *weatherstack.NetworkError
		valErr *ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.Error()
	case errors.As(err, &netErr):
		return networkMessage
	case errors.As(err, &valErr):
		return valErr.Error()
	case errors.Is(err, weatherstack.ErrCircuitOpen):
		return weatherstack.ErrCircuitOpen.Error()
	default:
		return err.Error()
	}
}
