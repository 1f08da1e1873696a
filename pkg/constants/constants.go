package constants

import (
	"github.com/go-playground/validator/v10"
)

type ContextKey string

const (
	PoolKey     ContextKey = "pool"
	TxKey       ContextKey = "tx"
	TenantIDKey ContextKey = "tenantID"
	LoggerKey   ContextKey = "logger"
)

// Validate is the shared validator instance used by all write DTOs.
var Validate = validator.New()
