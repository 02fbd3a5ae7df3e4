package fetch

import "io"

// progressReader reports upload progress to the caller's callback as the
// transport drains the request body. The callback is consulted before each
// chunk; once it returns false the body read fails with ErrCancelled and
// the transport tears the request down.
type progressReader struct {
	inner    io.ReadCloser
	callback ProgressFunc
	context  interface{}
	total    int64
	sent     int64
}

func newProgressReader(inner io.ReadCloser, callback ProgressFunc, context interface{}, total int64) io.ReadCloser {
	return &progressReader{
		inner:    inner,
		callback: callback,
		context:  context,
		total:    total,
	}
}

func (r *progressReader) Read(p []byte) (int, error) {
	if !r.callback(r.context, r.sent, r.total) {
		return 0, ErrCancelled
	}
	n, err := r.inner.Read(p)
	r.sent += int64(n)
	return n, err
}

func (r *progressReader) Close() error {
	return r.inner.Close()
}
