package fetch

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

type countingCloser struct {
	*strings.Reader
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func TestProgressReader_Cancel(t *testing.T) {
	inner := &countingCloser{Reader: strings.NewReader("0123456789")}
	calls := 0
	r := newProgressReader(inner, func(context interface{}, bytesSent, totalBytes int64) bool {
		calls++
		return calls <= 1 // allow the first chunk, then abort
	}, nil, 10)

	buf := make([]byte, 4)
	n, err := r.Read(buf)
	if err != nil || n != 4 {
		t.Fatalf("unexpected first read: n=%d, err=%v", n, err)
	}

	_, err = r.Read(buf)
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("unexpected error: expected=%v, actual=%v", ErrCancelled, err)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}
	if inner.closed != 1 {
		t.Errorf("expected inner stream closed exactly once, got %d", inner.closed)
	}
}

func TestProgressReader_ReportsProgress(t *testing.T) {
	inner := &countingCloser{Reader: strings.NewReader("0123456789")}
	var reports []int64
	r := newProgressReader(inner, func(context interface{}, bytesSent, totalBytes int64) bool {
		reports = append(reports, bytesSent)
		return true
	}, nil, 10)

	if _, err := ioutil.ReadAll(r); err != nil {
		t.Fatalf("unexpected error: err=%v", err)
	}
	if len(reports) < 2 {
		t.Fatalf("expected multiple progress reports, got %v", reports)
	}
	if reports[0] != 0 {
		t.Errorf("unexpected first report: expected=0, actual=%d", reports[0])
	}
	last := reports[len(reports)-1]
	if last != 10 {
		t.Errorf("unexpected final report: expected=10, actual=%d", last)
	}
}
