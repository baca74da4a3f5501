package main

import (
	"errors"
	"fmt"

	"github.com/kubilitics/kube-inspector/internal/report"
)

// exitCodeFor implements the §6.1 exit-code contract. 0 is handled by the
// caller (Execute returning nil); this only classifies non-nil errors.
func exitCodeFor(err error) int {
	var invalidArgs *invalidArgumentError
	switch {
	case errors.As(err, &invalidArgs):
		return 2
	case errors.Is(err, report.ErrRender):
		return 3
	case errors.Is(err, report.ErrConfig):
		return 1
	default:
		// Anything else reaching here is a cluster-connection failure:
		// kubeconfig loaded but the cluster could not be reached.
		return 1
	}
}

// invalidArgumentError marks a flag combination as invalid (exit 2),
// distinct from a configuration-load failure (exit 1).
type invalidArgumentError struct {
	msg string
}

func (e *invalidArgumentError) Error() string { return e.msg }

func invalidArgument(format string, args ...any) error {
	return &invalidArgumentError{msg: fmt.Sprintf(format, args...)}
}
