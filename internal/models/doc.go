// Package models defines the core domain models for tripledger.
//
// # Models
//
//   - Trip: a trip owned by a set of members (usernames)
//   - Expense: money one member paid on behalf of a set of participants
//   - Transfer: a persisted "who pays whom" record, pending or completed
//
// Members are identified by username strings. Identity and account management
// live outside this module; a username is whatever the auth layer put in the
// request context.
//
// # Design Principles
//
// 1. **Strict shapes at the storage edge**: participant lists are normalized when
//    scanned (see Participants), so ledger code never sniffs types.
// 2. **Money as decimals**: persisted amounts use shopspring/decimal and are
//    written with two fraction digits.
// 3. **Avoid circular references**: relationships use ID strings, not pointers.
package models
