package finding

// DetectionMethods is an insertion-ordered set of detection method names.
// The zero value is ready to use.
type DetectionMethods struct {
	seen  map[string]struct{}
	order []string
}

// Add records a method. Empty and already seen names are ignored.
// It reports whether the method was newly added.
func (d *DetectionMethods) Add(method string) bool {
	if method == "" {
		return false
	}
	if d.seen == nil {
		d.seen = make(map[string]struct{})
	}
	if _, ok := d.seen[method]; ok {
		return false
	}
	d.seen[method] = struct{}{}
	d.order = append(d.order, method)
	return true
}

// Values returns the methods in first-seen order.
func (d *DetectionMethods) Values() []string {
	return append([]string(nil), d.order...)
}

// Len returns the number of distinct methods.
func (d *DetectionMethods) Len() int { return len(d.order) }
