// Package ledger tracks job-scoped temporary files and guarantees their
// removal on every pipeline exit path.
package ledger
