/*
Copyright © 2025 Diego Verzolla
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dverzolla/kubectl-topd/pkg/collector"
	topderrors "github.com/dverzolla/kubectl-topd/pkg/errors"
	"github.com/dverzolla/kubectl-topd/pkg/serializer"
)

// parseOutputFormat extracts and validates the output format from CLI flags.
func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f, err := serializer.ParseFormat(cmd.String("format"))
	if err != nil {
		return "", topderrors.Wrap(topderrors.ErrCodeInvalidRequest, "invalid --format", err)
	}
	return f, nil
}

func parseBackend(cmd *cli.Command) (collector.Backend, error) {
	b, err := collector.ParseBackend(cmd.String("backend"))
	if err != nil {
		return "", topderrors.Wrap(topderrors.ErrCodeInvalidRequest, "invalid --backend", err)
	}
	return b, nil
}

// writesToFile reports whether --output names a file rather than stdout.
func writesToFile(cmd *cli.Command) bool {
	path := strings.TrimSpace(cmd.String("output"))
	return path != "" && path != serializer.StdoutURI
}

// outputWriter returns the writer for --output. Stdout is the command's
// writer so callers can redirect it.
func outputWriter(cmd *cli.Command, format serializer.Format) (*serializer.Writer, error) {
	if !writesToFile(cmd) {
		return serializer.NewWriter(format, cmd.Root().Writer), nil
	}
	w, err := serializer.NewFileWriterOrStdout(format, cmd.String("output"))
	if err != nil {
		return nil, topderrors.Wrap(topderrors.ErrCodeInvalidRequest, "invalid --output", err)
	}
	return w, nil
}

// labelColumns flattens repeated and comma-separated -L values, dropping
// blanks and duplicates while keeping first-seen order.
func labelColumns(values []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, v := range values {
		for _, key := range strings.Split(v, ",") {
			key = strings.TrimSpace(key)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, key)
		}
	}
	return out
}

// maxTimeoutSeconds is the largest --timeout that fits in a time.Duration.
const maxTimeoutSeconds = float64(math.MaxInt64) / float64(time.Second)

// secondsToDuration converts a --timeout value. Non-positive, NaN and
// out-of-range values are rejected.
func secondsToDuration(seconds float64) (time.Duration, error) {
	if seconds <= 0 || math.IsNaN(seconds) || seconds*float64(time.Second) >= float64(math.MaxInt64) {
		return 0, topderrors.New(topderrors.ErrCodeInvalidRequest,
			fmt.Sprintf("--timeout must be a positive number of seconds below %.0f", maxTimeoutSeconds))
	}
	return time.Duration(seconds * float64(time.Second)), nil
}
