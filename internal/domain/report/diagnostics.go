package report

import "errors"

// Diagnostics collects the non-fatal errors of one conversion in the order
// they were raised. It is not safe for concurrent use.
type Diagnostics struct {
	errs []error
}

// Add records err. Nil errors are ignored.
func (d *Diagnostics) Add(err error) {
	if err != nil {
		d.errs = append(d.errs, err)
	}
}

// Merge appends all diagnostics of other.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.errs = append(d.errs, other.errs...)
}

// Errors returns the recorded errors.
func (d Diagnostics) Errors() []error { return d.errs }

// Len returns the number of recorded errors.
func (d Diagnostics) Len() int { return len(d.errs) }

// Empty returns true if nothing was recorded.
func (d Diagnostics) Empty() bool { return len(d.errs) == 0 }

// Err joins all diagnostics into one error, or returns nil.
func (d Diagnostics) Err() error { return errors.Join(d.errs...) }

// Strings returns the error messages.
func (d Diagnostics) Strings() []string {
	out := make([]string, 0, len(d.errs))
	for _, err := range d.errs {
		out = append(out, err.Error())
	}
	return out
}

// FetchFailures returns the artifact fetch diagnostics in order.
func (d Diagnostics) FetchFailures() []*ArtifactFetchError {
	var out []*ArtifactFetchError
	for _, err := range d.errs {
		var fetchErr *ArtifactFetchError
		if errors.As(err, &fetchErr) {
			out = append(out, fetchErr)
		}
	}
	return out
}
