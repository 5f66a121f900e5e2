package harness

// RetryPolicy bounds how many failing convergence polls are tolerated
// before a mismatch becomes fatal. The budget counts poll iterations,
// not wall-clock time: worst-case wait is attempts × poll interval plus
// query time.
type RetryPolicy struct {
	attempts int
}

// NoRetry fails on the first mismatching poll.
func NoRetry() RetryPolicy {
	return RetryPolicy{}
}

// Retries tolerates n mismatching polls before failing.
func Retries(n int) RetryPolicy {
	if n < 0 {
		n = 0
	}
	return RetryPolicy{attempts: n}
}
