package model

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for the audit pipeline. Each stage wraps the sentinel for
// its failure class so callers can classify with errors.Is.
var (
	ErrConfiguration  = goerr.New("invalid configuration")
	ErrQuery          = goerr.New("tracker query failed")
	ErrAuthentication = goerr.New("mail transport authentication failed")
	ErrDelivery       = goerr.New("report delivery failed")
	ErrPersistence    = goerr.New("preview write failed")
)
