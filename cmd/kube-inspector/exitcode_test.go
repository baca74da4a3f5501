package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kubilitics/kube-inspector/internal/report"
)

func TestExitCodeForInvalidArgumentIsTwo(t *testing.T) {
	assert.Equal(t, 2, exitCodeFor(invalidArgument("bad --format %q", "xml")))
}

func TestExitCodeForRenderErrorIsThree(t *testing.T) {
	err := errors.Join(report.ErrRender, errors.New("disk full"))
	assert.Equal(t, 3, exitCodeFor(err))
}

func TestExitCodeForConfigErrorIsOne(t *testing.T) {
	err := errors.Join(report.ErrConfig, errors.New("no kubeconfig"))
	assert.Equal(t, 1, exitCodeFor(err))
}

func TestExitCodeForUnclassifiedErrorIsOne(t *testing.T) {
	assert.Equal(t, 1, exitCodeFor(errors.New("connection refused")))
}
