/*
Package resilience provides a circuit breaker for calls to collaborators that can
fail repeatedly, such as the playback configuration writer and its reload webhook.

	breaker := resilience.New("playback:radio1", resilience.Settings{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	err := breaker.Do(ctx, func(ctx context.Context) error {
		return writer.write(ctx)
	})

A Group hands out one breaker per name so a failing station never blocks another.

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                         Open
*/
package resilience
