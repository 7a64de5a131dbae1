package notifier

import "errors"

var (
	// ErrConfiguration: the category's repository is missing or cannot be queried.
	ErrConfiguration = errors.New("configuration error")
	// ErrNoEligibleItem: the category has no published items at all.
	ErrNoEligibleItem = errors.New("no eligible item")
	// ErrDelivery: one recipient's send failed.
	ErrDelivery = errors.New("delivery error")
	// ErrStorage: cursor read or write failed.
	ErrStorage = errors.New("storage error")
)

// errKind labels an error for metrics.
func errKind(err error) string {
	switch {
	case errors.Is(err, ErrStorage):
		return "storage"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrDelivery):
		return "delivery"
	}
	return "unknown"
}
