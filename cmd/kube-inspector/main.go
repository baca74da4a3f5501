// Command kube-inspector runs a read-only audit of a Kubernetes cluster and
// renders the findings as a Markdown, JSON, CSV, or HTML report.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}
