// Package tidy runs a static-analysis tool (usually clang-tidy) through a caching proxy
// (usually ctcache's clang-tidy-cache).
// Each invocation exports its fixes to a file whose name is derived from the analysis arguments
// so that repeated builds overwrite the same file instead of piling up stale results.
package tidy
