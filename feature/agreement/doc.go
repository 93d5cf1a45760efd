// Package agreement implements the VIP-gated loan agreement workflow.
// A coordinator with the VIP flag submits an agreement on behalf of a
// borrower; the service checks out every listed equipment line through
// the custody engine, journals the agreement to the database and archives
// a plain-text summary to object storage. Journal and archive failures
// degrade to warnings because the checkouts have already happened.
package agreement
