/*
Package monitoring provides Prometheus metrics for the file manager.

HTTP traffic is recorded by a gin middleware keyed on route templates. The file
manager records batch outcomes and item counts, uploads and their bytes,
downloads, and playback configuration rewrites.

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	router.Use(monitoring.Middleware(metrics))

	timer := monitoring.NewTimer(metrics, "files", "list")
	rows, err := lister.List(ctx, station, dir)
	timer.StopErr(err)

Metrics register on the given Registerer so tests can use a fresh registry.
*/
package monitoring
