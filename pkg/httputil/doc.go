// Package httputil provides the HTTP client used to fetch statistical
// datasets from remote APIs.
//
// [Client] wraps [net/http] with three concerns every fetcher needs:
//
//   - response caching through any [cache.Cache] backend
//   - retry with exponential backoff for transient failures ([Retry])
//   - request events reported to the registered [observability.HTTPHooks]
//
// Status codes map to error codes from pkg/errors: 404 becomes
// ErrCodeNotFound, everything else non-2xx becomes ErrCodeNetwork. Only
// network failures and 5xx responses are retried.
//
//	c := httputil.NewClient(httputil.WithCache(fc, 24*time.Hour))
//	body, err := c.Get(ctx, "eurostat", url)
package httputil
