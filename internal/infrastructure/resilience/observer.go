package resilience

type Observer interface {
	RetryAttempt(operation string)
	BreakerStateChange(operation, from, to string)
}

type noopObserver struct{}

func (noopObserver) RetryAttempt(string)                      {}
func (noopObserver) BreakerStateChange(string, string, string) {}
