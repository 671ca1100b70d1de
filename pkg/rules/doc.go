// Package rules implements the built-in rule catalog: whitespace,
// heading, line-length, code-block, link, list, and HTML checks. All
// rules register themselves with check.DefaultRegistry at init time;
// importing the package is enough to make the catalog available.
package rules
