// Package attendancetracker maintains per-employee monthly punctuality
// aggregates inside the workforce context.
//
// The module owns the append-only late-event log, the edge-triggered
// punishment predicate, and the hand-off that opens an automatic demotion
// campaign when an employee crosses the disciplinary threshold. Business
// rules live in application/domain layers; infrastructure sits behind
// ports and adapters.
package attendancetracker
