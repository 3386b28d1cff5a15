// Package retry retries operations that fail with transient errors, with
// exponential backoff between attempts.
//
// The rewrite service uses it around file writes: replacing a script can
// fail briefly while an editor, indexer or virus scanner holds the file.
//
//	executor := retry.NewExecutor(retry.NewFileErrorClassifier(), retry.NewExponentialBackoff(3))
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return fs.WriteFile(path, content)
//	})
//
// Executor instances are safe for concurrent use. WithOnRetry returns an
// independent copy.
package retry
