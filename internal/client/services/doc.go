// Package services holds the terminal client's application services: the
// member record store, registration and ID issuance, the session, the member
// dashboard with its edit draft and the assistant conversation.
//
// Services never hand raw errors to the REPL. Operations the user triggers
// return a notice.Notice describing the outcome.
package services
