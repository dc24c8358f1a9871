package services

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Caller-facing business outcomes. Handlers surface these verbatim; anything
// else coming out of a service is an internal fault.
var (
	ErrAlreadyCompleted     = errors.New("task already completed")
	ErrTaskNotFound         = errors.New("task not found")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidAmount        = errors.New("withdrawal amount must be positive")
	ErrBelowMinimum         = errors.New("withdrawal amount is below the minimum")
	ErrWithdrawalNotFound   = errors.New("withdrawal not found")
	ErrWithdrawalNotPending = errors.New("withdrawal has already been processed")
)

// lockForUpdate takes a row lock on the selected rows. Balance reads that
// precede a mutation must hold this lock for the duration of the transaction.
// sqlite (used by the tests) has a single writer and no FOR UPDATE syntax.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
