// Package middleware groups the Fiber middleware mounted by the start command.
//
// rayid tags each request with an id that the request logger and
// logger.WithRayID pick up. There is no authentication layer: every route on the
// board API is public.
package middleware
