package errors_test

import (
	"errors"
	"fmt"
	"testing"

	berr "github.com/next-trace/scg-event-hub/contract/errors"
)

func TestCodeAndVars(t *testing.T) {
	e := berr.Code(berr.ErrCodeForwardFailed)
	if e.Error() != berr.ErrCodeForwardFailed {
		t.Fatalf("unexpected error string: %s", e.Error())
	}

	// exported variables must carry their codes
	tests := []struct {
		err  error
		code string
	}{
		{berr.ErrTopicRequired, berr.ErrCodeTopicRequired},
		{berr.ErrCallbackRequired, berr.ErrCodeCallbackRequired},
		{berr.ErrHandlerFault, berr.ErrCodeHandlerFault},
		{berr.ErrArgumentMismatch, berr.ErrCodeArgumentMismatch},
		{berr.ErrUnhandled, berr.ErrCodeUnhandled},
		{berr.ErrHandlerExists, berr.ErrCodeHandlerExists},
		{berr.ErrHandlerNotFound, berr.ErrCodeHandlerNotFound},
		{berr.ErrForwardNotConfigured, berr.ErrCodeForwardNotConfigured},
		{berr.ErrForwardFailed, berr.ErrCodeForwardFailed},
		{berr.ErrSerializationFailed, berr.ErrCodeSerializationFailed},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, berr.Code(tc.code)) {
			t.Fatalf("expected %s to be %s", tc.err, tc.code)
		}
	}
}

func TestCodeSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("publish login: %w", errors.Join(berr.ErrHandlerFault, errors.New("boom")))
	if !errors.Is(err, berr.ErrHandlerFault) {
		t.Fatalf("wrapped error lost its code: %v", err)
	}
}
