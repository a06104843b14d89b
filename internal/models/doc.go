// Package models defines the records the storage layer persists.
//
// # Records
//
//   - Split: one shared bill, its fee configuration and computed totals
//   - Item: a line on an itemized split, owned by one participant
//   - Participant: one person's allocation within a split plus its settlement state
//   - Participation: a participant row joined with the fields of its split that
//     balance and stats views need
//   - User: a registered account
//
// Amounts are money.Money (integer cents). Relationships use ID strings rather
// than pointers; a Participant's identity is scoped to its split.
package models
