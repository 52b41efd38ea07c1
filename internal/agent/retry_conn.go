package agent

import "context"

// RetryConnection wraps any Connection with RetryWithBackoff.
type RetryConnection struct {
	Inner    Connection
	RetryCfg RetryConfig
}

// Run delegates to the inner connection, retrying failed turns per the
// retry configuration.
func (r *RetryConnection) Run(ctx context.Context, req Request) (*Result, error) {
	var result *Result
	err := RetryWithBackoff(ctx, r.RetryCfg, func() error {
		var innerErr error
		result, innerErr = r.Inner.Run(ctx, req)
		return innerErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
