package ledger

import "errors"

var (
	ErrInvalidAmount     = errors.New("Amount must be a positive number")
	ErrInvalidMethod     = errors.New("Invalid payment method")
	ErrInvalidReference  = errors.New("Invalid payment reference")
	ErrStartupNotFound   = errors.New("Startup not found")
	ErrTxNotFound        = errors.New("Transaction not found")
	ErrNotOwner          = errors.New("Only the startup owner can verify this transaction")
	ErrAlreadyProcessed  = errors.New("Transaction has already been processed")
	ErrOwnStartup        = errors.New("Cannot invest in your own startup")
)
