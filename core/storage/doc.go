// Package storage provides the object-storage client used to archive
// loan-agreement summaries.
//
// It wraps the MinIO SDK behind a narrow interface so features and tests
// depend on four operations rather than the full SDK surface. The archive
// is best-effort infrastructure: a failed upload degrades the agreement
// workflow with a warning, it never fails it.
package storage
