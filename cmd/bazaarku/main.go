package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bazaarku/internal/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root, cleanup := newRootCmd()
	err := root.ExecuteContext(ctx)
	cleanup()
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", errorText(err))
		os.Exit(1)
	}
}

// errorText shows backend failures the way users see them and everything
// else verbatim.
func errorText(err error) string {
	var ve *api.ValidationError
	if errors.As(err, &ve) || api.IsNetworkError(err) || api.IsSessionExpired(err) || api.StatusCode(err) != 0 {
		return api.UserMessage(err)
	}
	return err.Error()
}
