package harness

// Descriptor is the ground truth for convergence checks: the ordered set
// of node names one test run expects the cluster to report. It is fixed
// for the lifetime of its fixture.
type Descriptor struct {
	names []string
}

// NewDescriptor creates a descriptor for the given node names.
func NewDescriptor(names ...string) *Descriptor {
	return &Descriptor{names: append([]string(nil), names...)}
}

// Names returns the expected node names in provisioning order.
func (d *Descriptor) Names() []string {
	return append([]string(nil), d.names...)
}

// Size returns the number of expected nodes.
func (d *Descriptor) Size() int {
	return len(d.names)
}
