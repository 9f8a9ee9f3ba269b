package ui

import (
	"fmt"

	"github.com/go-faster/errors"

	"github.com/fairyhunter13/inventory-ui/internal/client"
)

// userMessage turns an API failure into text for an error banner.
func userMessage(err error) string {
	var apiErr *client.Error
	switch {
	case errors.Is(err, client.ErrUnreachable):
		return "The products API could not be reached. Try again later."
	case errors.Is(err, client.ErrRejected):
		msg := fmt.Sprintf("The products API rejected the request (HTTP %d).", client.StatusOf(err))
		if errors.As(err, &apiErr) && apiErr.Detail != "" {
			msg += " " + apiErr.Detail
		}
		return msg
	case errors.Is(err, client.ErrMalformed):
		return "The products API returned a response that could not be read."
	default:
		return "Unexpected error: " + err.Error()
	}
}
