// Package resultresolver turns ended campaigns into outcomes.
//
// Resolution is an exclusive two-step close: the resolver wins the
// active-to-closing transition, computes the result from the ledger tallies,
// persists the outcome, and completes the close. A crash between the steps
// leaves the campaign in closing, which the sweeper picks up and resumes.
package resultresolver
