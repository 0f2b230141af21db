package remote

import "context"

type listFunc func(context.Context) ([]string, error)

type listResult struct {
	versions []string
	err      error
}

// firstSuccess runs every fetcher concurrently and returns the first
// successful listing. Slower fetchers are cancelled; the channel is buffered
// so they can still finish. When all fail the last error is returned.
func firstSuccess(ctx context.Context, fetchers ...listFunc) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan listResult, len(fetchers))
	for _, fetch := range fetchers {
		go func() {
			v, err := fetch(ctx)
			results <- listResult{versions: v, err: err}
		}()
	}

	var lastErr error
	for range fetchers {
		select {
		case res := <-results:
			if res.err == nil {
				return res.versions, nil
			}
			lastErr = res.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, lastErr
}
