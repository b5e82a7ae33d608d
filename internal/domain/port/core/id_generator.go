package core

// IDGenerator produces opaque unique identifiers for wallets, transactions and sessions
type IDGenerator interface {
	NewID() string
}
