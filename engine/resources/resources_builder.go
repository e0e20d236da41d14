package resources

// GlobeResourcesOption configures a GlobeResources owner during construction.
type GlobeResourcesOption func(*globeResourcesImpl)

// WithLoadWorkers sets how many background workers decode and upload
// textures concurrently.
//
// Parameters:
//   - workers: worker count (values < 1 are ignored)
//
// Returns:
//   - GlobeResourcesOption: a function that sets the worker count
func WithLoadWorkers(workers int) GlobeResourcesOption {
	return func(r *globeResourcesImpl) {
		if workers >= 1 {
			r.loadWorkers = workers
		}
	}
}
