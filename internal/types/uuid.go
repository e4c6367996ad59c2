package types

import (
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes for generated identifiers.
const (
	UUID_PREFIX_COMPANY          = "company"
	UUID_PREFIX_PLAN             = "plan"
	UUID_PREFIX_GUARD            = "guard"
	UUID_PREFIX_INVOICE          = "inv"
	UUID_PREFIX_USER             = "user"
	UUID_PREFIX_BILLING_SETTINGS = "bset"
	UUID_PREFIX_REQUEST          = "req"
)

// InvoiceNumberPrefix is the display prefix of invoice numbers. The remainder
// of the number is an opaque unique token; consumers must not parse it.
const InvoiceNumberPrefix = "INV"

// GenerateUUID returns a lowercase ULID.
func GenerateUUID() string {
	return strings.ToLower(ulid.Make().String())
}

// GenerateUUIDWithPrefix returns a lowercase ULID prefixed with the entity type.
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}

// GenerateInvoiceNumber mints a new invoice number. ULIDs are collision-safe
// under concurrent generation; the storage layer additionally enforces a unique
// constraint on the column.
func GenerateInvoiceNumber() string {
	return fmt.Sprintf("%s-%s", InvoiceNumberPrefix, ulid.Make().String())
}
