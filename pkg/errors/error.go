package errors

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"strings"
)

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"
	// GeneralUnauthorizedError represents a generic unauthorized error.
	GeneralUnauthorizedError ErrorCode = "general_unauthorized_error"
	// GeneralRepositoryError represents a generic repository error.
	GeneralRepositoryError ErrorCode = "general_repository_error"

	// InvalidPriceError is returned when a price is not positive or has more than two decimals.
	InvalidPriceError ErrorCode = "invalid_price"
	// InvalidQuantityError is returned when a quantity is not a positive integer within bounds.
	InvalidQuantityError ErrorCode = "invalid_quantity"
	// InvalidSideError is returned when an order side is neither bid nor ask.
	InvalidSideError ErrorCode = "invalid_side"
	// InsufficientFundsError is returned when a bid cannot be covered by available cash.
	InsufficientFundsError ErrorCode = "insufficient_funds"
	// InsufficientInventoryError is returned when an ask cannot be covered by available inventory.
	InsufficientInventoryError ErrorCode = "insufficient_inventory"
	// NoLiquidityError is returned when a market order finds no eligible opposing order.
	NoLiquidityError ErrorCode = "no_liquidity"
	// OrderNotFoundError is returned when a cancel target does not rest in the book for the caller.
	OrderNotFoundError ErrorCode = "order_not_found"
	// InternalConsistencyError is returned when a ledger invariant would be violated.
	InternalConsistencyError ErrorCode = "internal_consistency"
	// EngineHaltedError is returned by every call after an internal consistency failure.
	EngineHaltedError ErrorCode = "engine_halted"
	// AccountNotFoundError is returned when an account id is unknown to the ledger.
	AccountNotFoundError ErrorCode = "account_not_found"
	// AccountExistsError is returned when an account with the same email already exists.
	AccountExistsError ErrorCode = "account_exists"

	// RedisConfigError represents an error when the Redis configuration is invalid or nil.
	RedisConfigError ErrorCode = "redis_config_error"
	// RedisConnectionError represents an error when connecting to Redis.
	RedisConnectionError ErrorCode = "redis_connection_error"
	// RedisDisconnectionError represents an error when disconnecting from Redis.
	RedisDisconnectionError ErrorCode = "redis_disconnection_error"
	// RedisPingError represents an error when pinging Redis.
	RedisPingError ErrorCode = "redis_pinging_error"
	// RedisSetError represents an error when setting a value in Redis.
	RedisSetError ErrorCode = "redis_set_error"
	// RedisDelError represents an error when deleting a value from Redis.
	RedisDelError ErrorCode = "redis_del_error"
	// RedisPublishError represents an error when publishing messages to channels in Redis.
	RedisPublishError ErrorCode = "redis_publish_error"
	// RedisListError represents an error when reading or writing a Redis list.
	RedisListError ErrorCode = "redis_list_error"
)

// BaseError is an `error` type containing an array of ErrorDetails.
// It is used to report every invalid field of a request at once.
type BaseError struct {
	details []*ErrorDetails
}

// NewBaseError create BaseError with ErrorDetails
func NewBaseError(details ...*ErrorDetails) *BaseError {
	return &BaseError{details: details}
}

// AddErrorDetails add more ErrorDetails to BaseError
func (b *BaseError) AddErrorDetails(errors ...*ErrorDetails) {
	b.details = append(b.details, errors...)
}

// GetDetails get array ErrorDetails on BaseError
func (b *BaseError) GetDetails() []*ErrorDetails {
	return b.details
}

// HasDetails reports whether any ErrorDetails were collected.
func (b *BaseError) HasDetails() bool {
	return len(b.details) > 0
}

// Error implement error interface
func (b *BaseError) Error() string {
	buff := bytes.NewBufferString("")

	buff.WriteString("Error on\n")
	for _, err := range b.details {
		buff.WriteString("code: ")
		buff.WriteString(err.Code)
		buff.WriteString("; error: ")
		buff.WriteString(err.Error())
		buff.WriteString("; field: ")
		buff.WriteString(err.Field)
		buff.WriteString("; object: ")
		if err.Object != nil {
			buff.WriteString(reflect.TypeOf(err.Object).String())
		}
		buff.WriteString("\n")
	}

	return strings.TrimSpace(buff.String())
}

// Unwrap exposes every ErrorDetails, so Is and As match any of them.
func (b *BaseError) Unwrap() []error {
	errs := make([]error, 0, len(b.details))
	for _, d := range b.details {
		errs = append(errs, d)
	}
	return errs
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
