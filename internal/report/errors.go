package report

import "errors"

// Error kinds (§7). cmd/kube-inspector maps these to exit codes; inspectors
// and the collector never panic, so only configuration and output-writing
// failures reach this classification.
var (
	// ErrConfig: cannot load kubeconfig, invalid flag combination. Exit 1/2.
	ErrConfig = errors.New("configuration error")
	// ErrRender: I/O failure writing the output file. Exit 3.
	ErrRender = errors.New("render error")
)
