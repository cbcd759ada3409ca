/*
Package observability provides tools for monitoring the caesartm machine.

It turns machine lifecycle hooks into Prometheus metrics and structured log
records. Both are plain domain.LifecycleHooks values and can be merged with
domain.MergeHooks.
*/
package observability
