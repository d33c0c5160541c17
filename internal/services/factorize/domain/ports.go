package domain

import (
	"context"
	"io"
)

// SourcePort yields integers until io.EOF. Errors for which
// perr.Recoverable is true skip one token; any other error ends the run
type SourcePort interface {
	Next() (int64, error)
}

// RunnerPort factors every integer from src and writes "N=A*B" lines to w in
// input order
type RunnerPort interface {
	Run(ctx context.Context, src SourcePort, w io.Writer) (Stats, error)
}
